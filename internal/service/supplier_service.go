package service

import (
	"context"
	"errors"
	"time"

	"procuretrack/internal/dto"
	"procuretrack/internal/model"
	"procuretrack/internal/repository"

	"github.com/google/uuid"
)

type SupplierService interface {
	Create(ctx context.Context, req dto.SupplierRequest) (*dto.SupplierResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.SupplierResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.SupplierRequest) (*dto.SupplierResponse, error)
	List(ctx context.Context, accreditedOnly bool) ([]dto.SupplierResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type supplierService struct {
	repo repository.SupplierRepository
}

func NewSupplierService(repo repository.SupplierRepository) SupplierService {
	return &supplierService{repo: repo}
}

func (s *supplierService) Create(ctx context.Context, req dto.SupplierRequest) (*dto.SupplierResponse, error) {
	supplier := model.Supplier{
		Name:          req.Name,
		Address:       req.Address,
		ContactPerson: req.ContactPerson,
		ContactNo:     req.ContactNo,
		ContactEmail:  req.ContactEmail,
		TIN:           req.TIN,
		Accredited:    req.Accredited,
	}
	if err := s.repo.Create(ctx, &supplier); err != nil {
		return nil, err
	}
	resp := supplierToResponse(&supplier)
	return &resp, nil
}

func (s *supplierService) Get(ctx context.Context, id uuid.UUID) (*dto.SupplierResponse, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("supplier not found")
	}
	resp := supplierToResponse(supplier)
	return &resp, nil
}

func (s *supplierService) Update(ctx context.Context, id uuid.UUID, req dto.SupplierRequest) (*dto.SupplierResponse, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("supplier not found")
	}
	supplier.Name = req.Name
	supplier.Address = req.Address
	supplier.ContactPerson = req.ContactPerson
	supplier.ContactNo = req.ContactNo
	supplier.ContactEmail = req.ContactEmail
	supplier.TIN = req.TIN
	supplier.Accredited = req.Accredited
	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	resp := supplierToResponse(supplier)
	return &resp, nil
}

func (s *supplierService) List(ctx context.Context, accreditedOnly bool) ([]dto.SupplierResponse, error) {
	suppliers, err := s.repo.List(ctx, accreditedOnly)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.SupplierResponse, len(suppliers))
	for i := range suppliers {
		resp[i] = supplierToResponse(&suppliers[i])
	}
	return resp, nil
}

func (s *supplierService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func supplierToResponse(s *model.Supplier) dto.SupplierResponse {
	return dto.SupplierResponse{
		ID:            s.ID.String(),
		Name:          s.Name,
		Address:       s.Address,
		ContactPerson: s.ContactPerson,
		ContactNo:     s.ContactNo,
		ContactEmail:  s.ContactEmail,
		TIN:           s.TIN,
		Accredited:    s.Accredited,
		CreatedAt:     s.CreatedAt.Format(time.RFC3339),
	}
}
