package domain

import (
	"errors"
	"time"
)

// User represents a registered bank customer.
type User struct {
	ID             string
	AccountNumber  string
	Name           string
	Email          string
	Phone          string
	HashedPassword string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Authentication errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)
