package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"procuretrack/internal/dto"
	"procuretrack/internal/model"
	"procuretrack/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RFQService interface {
	// Create opens an RFQ for a single purchase request.
	Create(ctx context.Context, actor Actor, prID uuid.UUID, req dto.CreateRFQRequest) (*dto.RFQResponse, error)
	// Consolidate merges several PRs into one RFQ whose number is derived
	// from the first PR's number.
	Consolidate(ctx context.Context, actor Actor, req dto.ConsolidateRequest) (*dto.RFQResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.RFQResponse, error)
	List(ctx context.Context) ([]dto.RFQResponse, error)
}

type rfqService struct {
	repo    repository.RFQRepository
	prRepo  repository.PRRepository
	logRepo repository.ActionLogRepository
}

func NewRFQService(repo repository.RFQRepository, prRepo repository.PRRepository, logRepo repository.ActionLogRepository) RFQService {
	return &rfqService{repo: repo, prRepo: prRepo, logRepo: logRepo}
}

func (s *rfqService) Create(ctx context.Context, actor Actor, prID uuid.UUID, req dto.CreateRFQRequest) (*dto.RFQResponse, error) {
	if !actor.CanManageWorkflow() {
		return nil, ErrForbidden
	}
	pr, err := s.prRepo.FindByID(ctx, prID)
	if err != nil {
		return nil, errors.New("purchase request not found")
	}
	if pr.RFQ != nil {
		return nil, errors.New("purchase request already has an RFQ")
	}
	if pr.ConsolidatedInID != nil {
		return nil, errors.New("purchase request is part of a consolidated RFQ")
	}

	number := req.RFQNumber
	if number == nil && pr.PRNumber != nil {
		n := "RFQ-" + *pr.PRNumber
		number = &n
	}
	if number != nil {
		if _, err := s.repo.FindByNumber(ctx, *number); err == nil {
			return nil, fmt.Errorf("an RFQ with number %s already exists", *number)
		}
	}

	date := time.Now()
	if d, err := parseDate(req.Date); err != nil {
		return nil, err
	} else if d != nil {
		date = *d
	}

	prIDCopy := pr.ID
	rfq := model.RequestForQuotation{
		RFQNumber:         number,
		PurchaseRequestID: &prIDCopy,
		Date:              date,
		Resolution:        req.Resolution,
		CreatedByID:       actor.idPtr(),
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, &rfq); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("an RFQ with number %s already exists", derefOr(number, ""))
			}
			return err
		}
		return s.logRepo.CreateTx(tx, &model.ActionLog{
			ActorID:    actor.idPtr(),
			Action:     model.ActionCreate,
			TargetType: "rfq",
			TargetID:   &rfq.ID,
			Notes:      derefOr(number, ""),
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	rfq.PurchaseRequest = pr
	return rfqToResponse(&rfq), nil
}

// Consolidate merges the selected PRs into one RFQ. The RFQ number is derived
// deterministically from the first PR's number; RFQ creation, the PR
// back-references, and the consolidation log all commit or roll back as one
// unit, so a log failure can never leave a half-consolidated RFQ behind.
func (s *rfqService) Consolidate(ctx context.Context, actor Actor, req dto.ConsolidateRequest) (*dto.RFQResponse, error) {
	if !actor.CanManageWorkflow() {
		return nil, ErrForbidden
	}

	ids := make([]uuid.UUID, 0, len(req.PRIDs))
	for _, raw := range req.PRIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid PR id: %s", raw)
		}
		ids = append(ids, id)
	}

	prs, err := s.prRepo.FindByIDs(ctx, ids)
	if err != nil || len(prs) == 0 {
		return nil, errors.New("no valid purchase requests selected")
	}
	// Preserve the caller's ordering: the first selected PR names the RFQ.
	byID := make(map[uuid.UUID]*model.PurchaseRequest, len(prs))
	for i := range prs {
		byID[prs[i].ID] = &prs[i]
	}
	ordered := make([]*model.PurchaseRequest, 0, len(prs))
	for _, id := range ids {
		if pr, ok := byID[id]; ok {
			ordered = append(ordered, pr)
		}
	}
	first := ordered[0]
	if first.PRNumber == nil || *first.PRNumber == "" {
		return nil, errors.New("the first selected PR has no PR number to derive the RFQ number from")
	}

	number := "RFQ-" + *first.PRNumber
	if _, err := s.repo.FindByNumber(ctx, number); err == nil {
		return nil, fmt.Errorf("an RFQ with number %s already exists", number)
	}

	prNumbers := make([]string, 0, len(ordered))
	attachIDs := make([]uuid.UUID, 0, len(ordered))
	for _, pr := range ordered {
		attachIDs = append(attachIDs, pr.ID)
		if pr.PRNumber != nil {
			prNumbers = append(prNumbers, *pr.PRNumber)
		} else {
			prNumbers = append(prNumbers, pr.ID.String())
		}
	}

	rfq := model.RequestForQuotation{
		RFQNumber:   &number,
		Date:        time.Now(),
		Resolution:  req.Remarks,
		CreatedByID: actor.idPtr(),
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, &rfq); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("an RFQ with number %s already exists", number)
			}
			return err
		}
		if err := s.prRepo.AttachToRFQTx(tx, attachIDs, rfq.ID); err != nil {
			return err
		}
		if err := s.repo.CreateConsolidationLogTx(tx, &model.ConsolidationLog{
			RFQID:     rfq.ID,
			PRNumbers: strings.Join(prNumbers, ", "),
			Remarks:   req.Remarks,
			ActorID:   actor.idPtr(),
		}); err != nil {
			return err
		}
		return s.logRepo.CreateTx(tx, &model.ActionLog{
			ActorID:    actor.idPtr(),
			Action:     model.ActionConsolidate,
			TargetType: "rfq",
			TargetID:   &rfq.ID,
			Notes:      fmt.Sprintf("consolidated PRs: %s", strings.Join(prNumbers, ", ")),
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	for _, pr := range ordered {
		rfq.ConsolidatedPRs = append(rfq.ConsolidatedPRs, *pr)
	}
	return rfqToResponse(&rfq), nil
}

func (s *rfqService) Get(ctx context.Context, id uuid.UUID) (*dto.RFQResponse, error) {
	rfq, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("RFQ not found")
	}
	return rfqToResponse(rfq), nil
}

func (s *rfqService) List(ctx context.Context) ([]dto.RFQResponse, error) {
	rfqs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RFQResponse, 0, len(rfqs))
	for i := range rfqs {
		out = append(out, *rfqToResponse(&rfqs[i]))
	}
	return out, nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func derefOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}

func rfqToResponse(rfq *model.RequestForQuotation) *dto.RFQResponse {
	var prRef *string
	prNumbers := make([]string, 0, len(rfq.ConsolidatedPRs)+1)
	for _, pr := range rfq.PRs() {
		if pr.PRNumber != nil {
			prNumbers = append(prNumbers, *pr.PRNumber)
		}
	}
	if rfq.PurchaseRequestID != nil {
		s := rfq.PurchaseRequestID.String()
		prRef = &s
	}
	return &dto.RFQResponse{
		ID:              rfq.ID.String(),
		RFQNumber:       rfq.RFQNumber,
		Date:            rfq.Date.Format("2006-01-02"),
		Resolution:      rfq.Resolution,
		Consolidated:    rfq.IsConsolidated(),
		PurchaseRequest: prRef,
		PRNumbers:       prNumbers,
		BidCount:        len(rfq.Bids),
		HasAOQ:          rfq.AOQ != nil,
		CreatedAt:       rfq.CreatedAt.Format(time.RFC3339),
	}
}
