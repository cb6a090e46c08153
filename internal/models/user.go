package models

import (
	"errors"
	"strings"
	"time"
)

// Role literals consumed from the identity context.
const (
	RoleCustomer     = "CUSTOMER"
	RoleDisputeAdmin = "DISPUTE_ADMIN"
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) Validate() error {
	if len(strings.TrimSpace(u.Username)) < 3 {
		return errors.New("username too short")
	}
	if !strings.Contains(u.Email, "@") {
		return errors.New("invalid email")
	}
	if len(u.Roles) == 0 {
		u.Roles = []string{RoleCustomer}
	}
	return nil
}
