package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"procuretrack/internal/dto"
	"procuretrack/internal/model"
	"procuretrack/internal/repository"
	"procuretrack/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Enumerated reason codes for the structured status-change command. The
// free-text note accompanying a change is audit annotation only; it never
// determines the resulting status.
var statusReasons = map[string]bool{
	"verification":     true,
	"endorsement":      true,
	"approval":         true,
	"bac_action":       true,
	"rfq_preparation":  true,
	"award":            true,
	"po_issuance":      true,
	"delivery":         true,
	"inspection":       true,
	"closure":          true,
	"cancellation":     true,
	"failed_bidding":   true,
	"disqualification": true,
	"correction":       true,
	"other":            true,
}

type WorkflowService interface {
	// UpdateStatus executes a structured status-change command against a PR.
	UpdateStatus(ctx context.Context, actor Actor, prID uuid.UUID, cmd dto.UpdateStatusRequest) (*dto.PRResponse, error)
	// CheckTransition reports whether the PR could move to target right now,
	// with the specific unmet precondition when it cannot.
	CheckTransition(ctx context.Context, prID uuid.UUID, target string) (bool, string, error)
}

type workflowService struct {
	prRepo     repository.PRRepository
	aoqRepo    repository.AOQRepository
	logRepo    repository.ActionLogRepository
	dispatcher *worker.Dispatcher
}

func NewWorkflowService(prRepo repository.PRRepository, aoqRepo repository.AOQRepository, logRepo repository.ActionLogRepository, dispatcher *worker.Dispatcher) WorkflowService {
	return &workflowService{prRepo: prRepo, aoqRepo: aoqRepo, logRepo: logRepo, dispatcher: dispatcher}
}

func (s *workflowService) UpdateStatus(ctx context.Context, actor Actor, prID uuid.UUID, cmd dto.UpdateStatusRequest) (*dto.PRResponse, error) {
	if !actor.CanManageWorkflow() {
		return nil, ErrForbidden
	}
	if !model.ValidStatus(cmd.Status) {
		return nil, fmt.Errorf("unknown status: %s", cmd.Status)
	}
	if !statusReasons[cmd.Reason] {
		return nil, fmt.Errorf("unknown status-change reason: %s", cmd.Reason)
	}

	pr, err := s.prRepo.FindByID(ctx, prID)
	if err != nil {
		return nil, errors.New("purchase request not found")
	}

	if !model.StatusAllowed(pr.ModeOfProcurement, cmd.Status) {
		mode := "no mode of procurement"
		if pr.ModeOfProcurement != nil && *pr.ModeOfProcurement != "" {
			mode = *pr.ModeOfProcurement
		}
		return nil, fmt.Errorf("status %q is not selectable for a PR with %s", model.StatusLabel(cmd.Status), mode)
	}

	if ok, reason := s.guard(ctx, pr, cmd.Status); !ok {
		return nil, errors.New(reason)
	}

	from := pr.Status
	now := time.Now()
	txErr := runTx(ctx, s.prRepo.DB(), func(tx *gorm.DB) error {
		if err := s.prRepo.UpdateStatusTx(tx, pr.ID, cmd.Status, now); err != nil {
			return err
		}
		return s.logRepo.CreateTx(tx, &model.ActionLog{
			ActorID:    actor.idPtr(),
			Action:     model.ActionStatusChange,
			TargetType: "purchase_request",
			TargetID:   &pr.ID,
			FromStatus: from,
			ToStatus:   cmd.Status,
			Notes:      fmt.Sprintf("[%s] %s", cmd.Reason, cmd.Note),
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	// Async status notice to the requisitioner (best-effort, fire & forget)
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueNotification(ctx, map[string]interface{}{
			"kind":        "status_change",
			"pr_id":       pr.ID.String(),
			"from_status": from,
			"to_status":   cmd.Status,
		})
	}

	pr.Status = cmd.Status
	pr.LastUpdate = now
	if cmd.Note != "" {
		pr.Notes = cmd.Note
	}
	return prToResponse(pr), nil
}

func (s *workflowService) CheckTransition(ctx context.Context, prID uuid.UUID, target string) (bool, string, error) {
	pr, err := s.prRepo.FindByID(ctx, prID)
	if err != nil {
		return false, "", errors.New("purchase request not found")
	}
	if !model.StatusAllowed(pr.ModeOfProcurement, target) {
		return false, fmt.Sprintf("status %q is not in the allowed set for this PR's mode", target), nil
	}
	ok, reason := s.guard(ctx, pr, target)
	return ok, reason, nil
}

// guard validates the preconditions of the guarded transitions. Unguarded
// targets always pass.
func (s *workflowService) guard(ctx context.Context, pr *model.PurchaseRequest, target string) (bool, string) {
	switch target {
	case model.StatusForRFQ:
		if len(pr.Items) == 0 {
			return false, "PR has no items"
		}
		if pr.PRNumber == nil || *pr.PRNumber == "" {
			return false, "PR has no PR number assigned"
		}

	case model.StatusForAward:
		aoq, reason := s.findAOQ(ctx, pr)
		if aoq == nil {
			return false, reason
		}
		for i := range aoq.Lines {
			if aoq.Lines[i].Responsive {
				return true, ""
			}
		}
		return false, "abstract of quotation has no responsive lines"

	case model.StatusForPO:
		aoq, reason := s.findAOQ(ctx, pr)
		if aoq == nil {
			return false, reason
		}
		if !aoq.Awarded() {
			return false, "abstract of quotation has not been awarded"
		}
	}
	return true, ""
}

func (s *workflowService) findAOQ(ctx context.Context, pr *model.PurchaseRequest) (*model.AbstractOfQuotation, string) {
	var rfqID uuid.UUID
	switch {
	case pr.RFQ != nil:
		rfqID = pr.RFQ.ID
	case pr.ConsolidatedInID != nil:
		rfqID = *pr.ConsolidatedInID
	default:
		return nil, "PR has no RFQ"
	}
	aoq, err := s.aoqRepo.FindByRFQ(ctx, rfqID)
	if err != nil {
		return nil, "RFQ has no abstract of quotation"
	}
	return aoq, ""
}
