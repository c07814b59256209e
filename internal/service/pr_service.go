package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"procuretrack/internal/dto"
	"procuretrack/internal/model"
	"procuretrack/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PRService interface {
	Create(ctx context.Context, actor Actor, req dto.SavePRRequest) (*dto.PRResponse, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, req dto.SavePRRequest) (*dto.PRResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.PRResponse, error)
	List(ctx context.Context, filter dto.PRFilter) (*dto.PRListResponse, error)
	AssignNumber(ctx context.Context, actor Actor, id uuid.UUID, req dto.AssignPRNumberRequest) (*dto.PRResponse, error)
	SubmitForVerification(ctx context.Context, actor Actor, id uuid.UUID) (*dto.PRResponse, error)
}

type prService struct {
	repo    repository.PRRepository
	logRepo repository.ActionLogRepository
}

func NewPRService(repo repository.PRRepository, logRepo repository.ActionLogRepository) PRService {
	return &prService{repo: repo, logRepo: logRepo}
}

func (s *prService) Create(ctx context.Context, actor Actor, req dto.SavePRRequest) (*dto.PRResponse, error) {
	if !actor.CanRequisition() && !actor.CanManageWorkflow() {
		return nil, ErrForbidden
	}

	items, err := itemsFromRequest(req.Items)
	if err != nil {
		return nil, err
	}
	prDate, err := parseDate(req.PRDate)
	if err != nil {
		return nil, err
	}

	pr := model.PurchaseRequest{
		Status:            model.StatusDraft,
		ModeOfProcurement: req.ModeOfProcurement,
		NegotiatedType:    req.NegotiatedType,
		Requisitioner:     req.Requisitioner,
		Designation:       req.Designation,
		OfficeSection:     req.OfficeSection,
		Purpose:           req.Purpose,
		Funding:           req.Funding,
		PRDate:            prDate,
		Notes:             req.Notes,
		CreatedByID:       actor.idPtr(),
		LastUpdate:        time.Now(),
		Items:             items,
	}
	if err := validateMode(pr.ModeOfProcurement); err != nil {
		return nil, err
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, &pr); err != nil {
			return err
		}
		return s.logRepo.CreateTx(tx, &model.ActionLog{
			ActorID:    actor.idPtr(),
			Action:     model.ActionCreate,
			TargetType: "purchase_request",
			TargetID:   &pr.ID,
			ToStatus:   model.StatusDraft,
		})
	})
	if txErr != nil {
		return nil, txErr
	}
	return prToResponse(&pr), nil
}

func (s *prService) Update(ctx context.Context, actor Actor, id uuid.UUID, req dto.SavePRRequest) (*dto.PRResponse, error) {
	if !actor.CanRequisition() && !actor.CanManageWorkflow() {
		return nil, ErrForbidden
	}

	pr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("purchase request not found")
	}

	items, err := itemsFromRequest(req.Items)
	if err != nil {
		return nil, err
	}
	prDate, err := parseDate(req.PRDate)
	if err != nil {
		return nil, err
	}
	if err := validateMode(req.ModeOfProcurement); err != nil {
		return nil, err
	}

	pr.ModeOfProcurement = req.ModeOfProcurement
	pr.NegotiatedType = req.NegotiatedType
	pr.Requisitioner = req.Requisitioner
	pr.Designation = req.Designation
	pr.OfficeSection = req.OfficeSection
	pr.Purpose = req.Purpose
	pr.Funding = req.Funding
	pr.Notes = req.Notes
	if prDate != nil {
		pr.PRDate = prDate
	}
	pr.LastUpdate = time.Now()
	pr.Items = nil // items replaced separately below

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.Save(ctx, tx, pr); err != nil {
			return err
		}
		return s.repo.ReplaceItems(ctx, tx, pr.ID, items)
	})
	if txErr != nil {
		return nil, txErr
	}

	pr.Items = items
	return prToResponse(pr), nil
}

func (s *prService) Get(ctx context.Context, id uuid.UUID) (*dto.PRResponse, error) {
	pr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("purchase request not found")
	}
	return prToResponse(pr), nil
}

func (s *prService) List(ctx context.Context, filter dto.PRFilter) (*dto.PRListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	prs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.PRResponse, 0, len(prs))
	for i := range prs {
		data = append(data, *prToResponse(&prs[i]))
	}
	return &dto.PRListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// AssignNumber sets the official PR number. Procurement capability required;
// the number must match the agency format and be unique.
func (s *prService) AssignNumber(ctx context.Context, actor Actor, id uuid.UUID, req dto.AssignPRNumberRequest) (*dto.PRResponse, error) {
	if !actor.CanManageWorkflow() {
		return nil, ErrForbidden
	}
	if !model.PRNumberPattern.MatchString(req.PRNumber) {
		return nil, errors.New("PR number must follow the format: 10-0042-25 Requesting Office")
	}

	pr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("purchase request not found")
	}

	number := req.PRNumber
	pr.PRNumber = &number
	if req.PRDate != "" {
		d, err := time.Parse("2006-01-02", req.PRDate)
		if err != nil {
			return nil, err
		}
		pr.PRDate = &d
	}
	pr.LastUpdate = time.Now()

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.Save(ctx, tx, pr); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("PR number %s is already in use", number)
			}
			return err
		}
		return s.logRepo.CreateTx(tx, &model.ActionLog{
			ActorID:    actor.idPtr(),
			Action:     model.ActionAssignNumber,
			TargetType: "purchase_request",
			TargetID:   &pr.ID,
			Notes:      number,
		})
	})
	if txErr != nil {
		return nil, txErr
	}
	return prToResponse(pr), nil
}

// SubmitForVerification moves a draft PR to submitted. Requisitioners only,
// and only once.
func (s *prService) SubmitForVerification(ctx context.Context, actor Actor, id uuid.UUID) (*dto.PRResponse, error) {
	if !actor.CanRequisition() {
		return nil, ErrForbidden
	}
	pr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("purchase request not found")
	}
	if pr.Status != model.StatusDraft {
		return nil, errors.New("this request has already been submitted")
	}

	now := time.Now()
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateStatusTx(tx, pr.ID, model.StatusSubmitted, now); err != nil {
			return err
		}
		return s.logRepo.CreateTx(tx, &model.ActionLog{
			ActorID:    actor.idPtr(),
			Action:     model.ActionStatusChange,
			TargetType: "purchase_request",
			TargetID:   &pr.ID,
			FromStatus: model.StatusDraft,
			ToStatus:   model.StatusSubmitted,
		})
	})
	if txErr != nil {
		return nil, txErr
	}
	pr.Status = model.StatusSubmitted
	pr.LastUpdate = now
	return prToResponse(pr), nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func itemsFromRequest(reqs []dto.PRItemRequest) ([]model.PRItem, error) {
	items := make([]model.PRItem, 0, len(reqs))
	for _, r := range reqs {
		if !model.ValidUnit(r.Unit) {
			return nil, fmt.Errorf("unknown unit of measure: %s", r.Unit)
		}
		cat := r.BudgetCategory
		if cat == "" {
			cat = model.BudgetMOOE
		}
		items = append(items, model.PRItem{
			StockNo:        r.StockNo,
			Description:    r.Description,
			Quantity:       r.Quantity,
			Unit:           r.Unit,
			UnitCost:       r.UnitCost,
			BudgetCategory: cat,
		})
	}
	return items, nil
}

func validateMode(mode *string) error {
	if mode == nil || *mode == "" {
		return nil
	}
	if model.ModeBranch(mode) == model.BranchNone {
		return fmt.Errorf("unknown mode of procurement: %s", *mode)
	}
	return nil
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func fmtDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

func prToResponse(pr *model.PurchaseRequest) *dto.PRResponse {
	items := make([]dto.PRItemResponse, 0, len(pr.Items))
	for i := range pr.Items {
		it := &pr.Items[i]
		items = append(items, dto.PRItemResponse{
			ID:             it.ID.String(),
			StockNo:        it.StockNo,
			Description:    it.Description,
			Quantity:       it.Quantity,
			Unit:           it.Unit,
			UnitCost:       it.UnitCost,
			BudgetCategory: it.BudgetCategory,
			TotalCost:      it.TotalCost(),
		})
	}
	var consolidatedIn *string
	if pr.ConsolidatedInID != nil {
		s := pr.ConsolidatedInID.String()
		consolidatedIn = &s
	}
	return &dto.PRResponse{
		ID:                pr.ID.String(),
		PRNumber:          pr.PRNumber,
		PRDate:            fmtDatePtr(pr.PRDate),
		Status:            pr.Status,
		StatusLabel:       model.StatusLabel(pr.Status),
		ModeOfProcurement: pr.ModeOfProcurement,
		NegotiatedType:    pr.NegotiatedType,
		Requisitioner:     pr.Requisitioner,
		Designation:       pr.Designation,
		OfficeSection:     pr.OfficeSection,
		Purpose:           pr.Purpose,
		Funding:           pr.Funding,
		Notes:             pr.Notes,
		Items:             items,
		TotalAmount:       pr.TotalAmount(),
		Breakdown:         pr.BreakdownByBudget(),
		AllowedStatuses:   model.AllowedStatuses(pr.ModeOfProcurement),
		ConsolidatedIn:    consolidatedIn,
		LastUpdate:        pr.LastUpdate.Format(time.RFC3339),
		CreatedAt:         pr.CreatedAt.Format(time.RFC3339),
	}
}
