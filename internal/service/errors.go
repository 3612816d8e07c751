package service

import "errors"

// Typed workflow conditions. Controllers translate these to status codes;
// anything else maps to 500.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrEmailTaken         = errors.New("email already registered")
	ErrNoAgentAvailable   = errors.New("no available agents to start a chat")
	ErrUserUnavailable    = errors.New("user not found or already in a session")
	ErrSessionEnded       = errors.New("chat session is either invalid or has ended")
	ErrEmptyContent       = errors.New("message content cannot be empty")
)
