package model

import (
	"time"

	"github.com/google/uuid"
)

type Supplier struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string    `gorm:"index;not null"`
	Address       string
	ContactPerson string
	ContactNo     string
	ContactEmail  string
	TIN           string
	Accredited    bool `gorm:"not null;default:false"`
	CreatedAt     time.Time
	CreatedByID   *uuid.UUID `gorm:"type:uuid"`
	UpdatedAt     time.Time
}
