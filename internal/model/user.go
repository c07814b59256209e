package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles correspond to the agency's user groups. Requisitioners raise purchase
// requests; procurement staff drive the workflow; admin can do everything.
const (
	RoleRequisitioner = "requisitioner"
	RoleProcurement   = "procurement"
	RoleAdmin         = "admin"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Name         string    `gorm:"not null"`
	Email        string
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null;default:'requisitioner'"`
	Active       bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
