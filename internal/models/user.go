package models

import (
	"time"
)

const (
	UserStatusActive   = "activo"
	UserStatusInactive = "inactivo"
)

type User struct {
	ID               int64
	CreatedAt        time.Time
	Email            string
	Phone            string
	FirstName        string
	PaternalLastName string
	MaternalLastName string
	PasswordHash     string
	Status           string
}
