package domain

import (
	"errors"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters long")
)

const OwnerSubject = "owner"

// Owner is the single account allowed to call the protected API.
type Owner struct {
	PasswordHash string
}

func HashPassword(plainPassword string) (string, error) {
	if utf8.RuneCountInString(plainPassword) < 8 {
		return "", ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plainPassword), 12)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (o Owner) CheckPassword(plainPassword string) error {
	if o.PasswordHash == "" {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(o.PasswordHash), []byte(plainPassword)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
