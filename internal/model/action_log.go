package model

import (
	"time"

	"github.com/google/uuid"
)

// Action codes written to the audit trail.
const (
	ActionCreate       = "create"
	ActionStatusChange = "status_change"
	ActionAssignNumber = "assign_number"
	ActionConsolidate  = "consolidate"
	ActionAward        = "award"
	ActionBidSubmit    = "bid_submit"
	ActionBidWithdraw  = "bid_withdraw"
)

// ActionLog is the audit trail for workflow operations. FromStatus/ToStatus
// are filled for status changes only.
type ActionLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ActorID    *uuid.UUID `gorm:"type:uuid;index"`
	Action     string     `gorm:"not null"`
	TargetType string     `gorm:"index:idx_action_target"`
	TargetID   *uuid.UUID `gorm:"type:uuid;index:idx_action_target"`
	FromStatus string
	ToStatus   string
	Notes      string `gorm:"type:text"`
	CreatedAt  time.Time
}
