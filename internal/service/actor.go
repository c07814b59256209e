package service

import (
	"procuretrack/internal/model"

	"github.com/google/uuid"
)

// Actor is the capability context passed into every workflow operation.
// Services check capabilities against it directly instead of querying an
// authentication subsystem, so the engine can be exercised in tests with a
// bare struct.
type Actor struct {
	ID   uuid.UUID
	Name string
	Role string
}

// CanManageWorkflow covers the procurement-staff capabilities: assigning
// numbers, changing statuses, RFQs, bids, abstracts, and awards.
func (a Actor) CanManageWorkflow() bool {
	return a.Role == model.RoleProcurement || a.Role == model.RoleAdmin
}

// CanRequisition covers raising and submitting purchase requests.
func (a Actor) CanRequisition() bool {
	return a.Role == model.RoleRequisitioner || a.Role == model.RoleAdmin
}

func (a Actor) idPtr() *uuid.UUID {
	if a.ID == uuid.Nil {
		return nil
	}
	id := a.ID
	return &id
}
