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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BidService interface {
	// Submit records a supplier's bid against an RFQ. One bid per
	// (RFQ, supplier); missing lines are materialized with zero placeholders.
	Submit(ctx context.Context, actor Actor, rfqID uuid.UUID, req dto.SubmitBidRequest) (*dto.BidResponse, error)
	// SaveLines replaces the bid's per-item prices. The save is rejected
	// whole — naming the offending items — if any required PR item is left
	// unrepresented.
	SaveLines(ctx context.Context, actor Actor, bidID uuid.UUID, req dto.SaveBidLinesRequest) (*dto.BidResponse, error)
	Withdraw(ctx context.Context, actor Actor, bidID uuid.UUID) error
	Get(ctx context.Context, bidID uuid.UUID) (*dto.BidResponse, error)
	ListByRFQ(ctx context.Context, rfqID uuid.UUID) ([]dto.BidResponse, error)
}

type bidService struct {
	repo         repository.BidRepository
	rfqRepo      repository.RFQRepository
	supplierRepo repository.SupplierRepository
	logRepo      repository.ActionLogRepository
}

func NewBidService(repo repository.BidRepository, rfqRepo repository.RFQRepository, supplierRepo repository.SupplierRepository, logRepo repository.ActionLogRepository) BidService {
	return &bidService{repo: repo, rfqRepo: rfqRepo, supplierRepo: supplierRepo, logRepo: logRepo}
}

// ─── Predicates ──────────────────────────────────────────────────────────────

// BidComplete reports whether the bid carries a line for every required PR
// item. Order of lines is irrelevant.
func BidComplete(bid *model.Bid, requiredIDs []uuid.UUID) bool {
	have := make(map[uuid.UUID]bool, len(bid.Lines))
	for i := range bid.Lines {
		have[bid.Lines[i].PRItemID] = true
	}
	for _, id := range requiredIDs {
		if !have[id] {
			return false
		}
	}
	return true
}

// BidResponsive reports whether the bid is complete AND every line is marked
// compliant AND every line's price is strictly positive.
func BidResponsive(bid *model.Bid, requiredIDs []uuid.UUID) bool {
	if !BidComplete(bid, requiredIDs) {
		return false
	}
	for i := range bid.Lines {
		line := &bid.Lines[i]
		if !line.Compliant || !line.ValidPrice() {
			return false
		}
	}
	return true
}

// ─── Operations ──────────────────────────────────────────────────────────────

func (s *bidService) Submit(ctx context.Context, actor Actor, rfqID uuid.UUID, req dto.SubmitBidRequest) (*dto.BidResponse, error) {
	if !actor.CanManageWorkflow() {
		return nil, ErrForbidden
	}

	rfq, err := s.rfqRepo.FindByID(ctx, rfqID)
	if err != nil {
		return nil, errors.New("RFQ not found")
	}
	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, errors.New("invalid supplier id")
	}
	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return nil, errors.New("supplier not found")
	}
	if existing, err := s.repo.FindByRFQAndSupplier(ctx, rfqID, supplierID); err == nil && existing != nil {
		return nil, fmt.Errorf("supplier %s already has a bid on this RFQ", supplier.Name)
	}

	required := rfq.RequiredItemIDs()
	requiredSet := make(map[uuid.UUID]*model.PRItem)
	for _, pr := range rfq.PRs() {
		for i := range pr.Items {
			requiredSet[pr.Items[i].ID] = &pr.Items[i]
		}
	}

	lines, err := linesFromRequest(req.Lines, requiredSet)
	if err != nil {
		return nil, err
	}
	// Auto-materialize a zero-placeholder line for every required item the
	// submission did not cover, so the entry form always shows one row per
	// item.
	covered := make(map[uuid.UUID]bool, len(lines))
	for i := range lines {
		covered[lines[i].PRItemID] = true
	}
	for _, id := range required {
		if !covered[id] {
			lines = append(lines, model.BidLine{
				PRItemID:  id,
				UnitPrice: decimal.Zero,
				Compliant: true,
			})
		}
	}

	bid := model.Bid{
		RFQID:       rfqID,
		SupplierID:  supplierID,
		Status:      model.BidStatusSubmitted,
		Remarks:     req.Remarks,
		CreatedByID: actor.idPtr(),
		Lines:       lines,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, &bid); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("supplier %s already has a bid on this RFQ", supplier.Name)
			}
			return err
		}
		return s.logRepo.CreateTx(tx, &model.ActionLog{
			ActorID:    actor.idPtr(),
			Action:     model.ActionBidSubmit,
			TargetType: "bid",
			TargetID:   &bid.ID,
			Notes:      supplier.Name,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	bid.Supplier = supplier
	attachItems(&bid, requiredSet)
	return bidToResponse(&bid, required), nil
}

func (s *bidService) SaveLines(ctx context.Context, actor Actor, bidID uuid.UUID, req dto.SaveBidLinesRequest) (*dto.BidResponse, error) {
	if !actor.CanManageWorkflow() {
		return nil, ErrForbidden
	}

	bid, err := s.repo.FindByID(ctx, bidID)
	if err != nil {
		return nil, errors.New("bid not found")
	}
	if bid.Status == model.BidStatusWithdrawn {
		return nil, errors.New("bid has been withdrawn")
	}

	rfq, err := s.rfqRepo.FindByID(ctx, bid.RFQID)
	if err != nil {
		return nil, errors.New("RFQ not found")
	}
	required := rfq.RequiredItemIDs()
	requiredSet := make(map[uuid.UUID]*model.PRItem)
	for _, pr := range rfq.PRs() {
		for i := range pr.Items {
			requiredSet[pr.Items[i].ID] = &pr.Items[i]
		}
	}

	lines, err := linesFromRequest(req.Lines, requiredSet)
	if err != nil {
		return nil, err
	}

	// No partial save: after edits every required item must still be
	// represented. The rejection names the missing items.
	covered := make(map[uuid.UUID]bool, len(lines))
	for i := range lines {
		covered[lines[i].PRItemID] = true
	}
	var missing []string
	for _, id := range required {
		if !covered[id] {
			missing = append(missing, requiredSet[id].Description)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("bid is missing prices for: %s", strings.Join(missing, ", "))
	}

	for i := range lines {
		lines[i].BidID = bid.ID
	}
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.DeleteLinesTx(tx, bid.ID); err != nil {
			return err
		}
		return s.repo.SaveLinesTx(tx, lines)
	})
	if txErr != nil {
		return nil, txErr
	}

	bid.Lines = lines
	attachItems(bid, requiredSet)
	return bidToResponse(bid, required), nil
}

func (s *bidService) Withdraw(ctx context.Context, actor Actor, bidID uuid.UUID) error {
	if !actor.CanManageWorkflow() {
		return ErrForbidden
	}
	bid, err := s.repo.FindByID(ctx, bidID)
	if err != nil {
		return errors.New("bid not found")
	}
	if bid.Status == model.BidStatusAwarded {
		return errors.New("an awarded bid cannot be withdrawn")
	}
	if err := s.repo.UpdateStatus(ctx, bidID, model.BidStatusWithdrawn); err != nil {
		return err
	}
	return s.logRepo.Create(ctx, &model.ActionLog{
		ActorID:    actor.idPtr(),
		Action:     model.ActionBidWithdraw,
		TargetType: "bid",
		TargetID:   &bidID,
	})
}

func (s *bidService) Get(ctx context.Context, bidID uuid.UUID) (*dto.BidResponse, error) {
	bid, err := s.repo.FindByID(ctx, bidID)
	if err != nil {
		return nil, errors.New("bid not found")
	}
	rfq, err := s.rfqRepo.FindByID(ctx, bid.RFQID)
	if err != nil {
		return nil, errors.New("RFQ not found")
	}
	return bidToResponse(bid, rfq.RequiredItemIDs()), nil
}

func (s *bidService) ListByRFQ(ctx context.Context, rfqID uuid.UUID) ([]dto.BidResponse, error) {
	rfq, err := s.rfqRepo.FindByID(ctx, rfqID)
	if err != nil {
		return nil, errors.New("RFQ not found")
	}
	required := rfq.RequiredItemIDs()
	bids, err := s.repo.ListByRFQ(ctx, rfqID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BidResponse, 0, len(bids))
	for i := range bids {
		out = append(out, *bidToResponse(&bids[i], required))
	}
	return out, nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func linesFromRequest(reqs []dto.BidLineRequest, requiredSet map[uuid.UUID]*model.PRItem) ([]model.BidLine, error) {
	lines := make([]model.BidLine, 0, len(reqs))
	for _, lr := range reqs {
		itemID, err := uuid.Parse(lr.PRItemID)
		if err != nil {
			return nil, fmt.Errorf("invalid PR item id: %s", lr.PRItemID)
		}
		if _, ok := requiredSet[itemID]; !ok {
			return nil, fmt.Errorf("PR item %s does not belong to this RFQ", lr.PRItemID)
		}
		compliant := true
		if lr.Compliant != nil {
			compliant = *lr.Compliant
		}
		lines = append(lines, model.BidLine{
			PRItemID:  itemID,
			UnitPrice: lr.UnitPrice,
			Compliant: compliant,
		})
	}
	return lines, nil
}

func attachItems(bid *model.Bid, items map[uuid.UUID]*model.PRItem) {
	for i := range bid.Lines {
		if bid.Lines[i].PRItem == nil {
			bid.Lines[i].PRItem = items[bid.Lines[i].PRItemID]
		}
	}
}

func bidToResponse(bid *model.Bid, requiredIDs []uuid.UUID) *dto.BidResponse {
	lines := make([]dto.BidLineResponse, 0, len(bid.Lines))
	for i := range bid.Lines {
		l := &bid.Lines[i]
		desc := ""
		qty := 0
		if l.PRItem != nil {
			desc = l.PRItem.Description
			qty = l.PRItem.Quantity
		}
		lines = append(lines, dto.BidLineResponse{
			ID:          l.ID.String(),
			PRItemID:    l.PRItemID.String(),
			Description: desc,
			Quantity:    qty,
			UnitPrice:   l.UnitPrice,
			Compliant:   l.Compliant,
			TotalCost:   l.TotalCost(),
		})
	}
	supplierName := ""
	if bid.Supplier != nil {
		supplierName = bid.Supplier.Name
	}
	return &dto.BidResponse{
		ID:          bid.ID.String(),
		RFQID:       bid.RFQID.String(),
		SupplierID:  bid.SupplierID.String(),
		Supplier:    supplierName,
		Status:      bid.Status,
		Remarks:     bid.Remarks,
		Lines:       lines,
		TotalAmount: bid.TotalAmount(),
		Complete:    BidComplete(bid, requiredIDs),
		Responsive:  BidResponsive(bid, requiredIDs),
		CreatedAt:   bid.CreatedAt.Format(time.RFC3339),
	}
}
