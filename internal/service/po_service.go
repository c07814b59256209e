package service

import (
	"context"
	"errors"
	"time"

	"procuretrack/internal/dto"
	"procuretrack/internal/repository"

	"github.com/google/uuid"
)

type POService interface {
	Get(ctx context.Context, id uuid.UUID) (*dto.POResponse, error)
	List(ctx context.Context) ([]dto.POResponse, error)
	// UpdateDelivery fills in the delivery details of an issued PO.
	UpdateDelivery(ctx context.Context, actor Actor, id uuid.UUID, req dto.UpdatePORequest) (*dto.POResponse, error)
}

type poService struct {
	repo repository.PORepository
}

func NewPOService(repo repository.PORepository) POService {
	return &poService{repo: repo}
}

func (s *poService) Get(ctx context.Context, id uuid.UUID) (*dto.POResponse, error) {
	po, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("purchase order not found")
	}
	return poToResponse(po, ""), nil
}

func (s *poService) List(ctx context.Context) ([]dto.POResponse, error) {
	pos, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.POResponse, 0, len(pos))
	for i := range pos {
		out = append(out, *poToResponse(&pos[i], ""))
	}
	return out, nil
}

func (s *poService) UpdateDelivery(ctx context.Context, actor Actor, id uuid.UUID, req dto.UpdatePORequest) (*dto.POResponse, error) {
	if !actor.CanManageWorkflow() {
		return nil, ErrForbidden
	}
	po, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("purchase order not found")
	}
	if req.PlaceOfDelivery != nil {
		po.PlaceOfDelivery = *req.PlaceOfDelivery
	}
	if req.ReceivingOffice != nil {
		po.ReceivingOffice = *req.ReceivingOffice
	}
	if req.DateOfDelivery != nil {
		d, err := time.Parse("2006-01-02", *req.DateOfDelivery)
		if err != nil {
			return nil, errors.New("invalid delivery date")
		}
		po.DateOfDelivery = &d
	}
	if err := s.repo.Save(ctx, po); err != nil {
		return nil, err
	}
	return poToResponse(po, ""), nil
}
