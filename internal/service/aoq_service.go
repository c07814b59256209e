package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	"procuretrack/internal/dto"
	"procuretrack/internal/model"
	"procuretrack/internal/repository"
	"procuretrack/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AOQService interface {
	// BuildFromBids creates the abstract for an RFQ, carrying every submitted
	// bid line into an AOQ line. Each line's responsive flag starts out as
	// (compliant AND price > 0) and can be overridden during evaluation.
	BuildFromBids(ctx context.Context, actor Actor, rfqID uuid.UUID) (*dto.AOQResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.AOQResponse, error)
	// Tabulate computes the per-supplier totals, the per-item lowest
	// calculated responsive bid, the overall winner and the savings against
	// the requisitioner's estimate.
	Tabulate(ctx context.Context, aoqID uuid.UUID) (*dto.TabulationResponse, error)
	UpdateLine(ctx context.Context, actor Actor, lineID uuid.UUID, req dto.AOQLineUpdateRequest) (*dto.AOQLineResponse, error)
	Verify(ctx context.Context, actor Actor, aoqID uuid.UUID) error
	// Award marks the abstract as awarded to the given supplier and issues
	// the purchase order in the same transaction. A second award attempt
	// fails with ErrAlreadyAwarded; a concurrent one with ErrAwardConflict.
	Award(ctx context.Context, actor Actor, aoqID uuid.UUID, req dto.AwardRequest) (*dto.POResponse, error)
	ExportCSV(ctx context.Context, aoqID uuid.UUID, w io.Writer) error
}

type aoqService struct {
	repo       repository.AOQRepository
	rfqRepo    repository.RFQRepository
	bidRepo    repository.BidRepository
	poRepo     repository.PORepository
	prRepo     repository.PRRepository
	logRepo    repository.ActionLogRepository
	dispatcher *worker.Dispatcher
}

func NewAOQService(
	repo repository.AOQRepository,
	rfqRepo repository.RFQRepository,
	bidRepo repository.BidRepository,
	poRepo repository.PORepository,
	prRepo repository.PRRepository,
	logRepo repository.ActionLogRepository,
	dispatcher *worker.Dispatcher,
) AOQService {
	return &aoqService{
		repo:       repo,
		rfqRepo:    rfqRepo,
		bidRepo:    bidRepo,
		poRepo:     poRepo,
		prRepo:     prRepo,
		logRepo:    logRepo,
		dispatcher: dispatcher,
	}
}

// ── BuildFromBids ─────────────────────────────────────────────────────────────

func (s *aoqService) BuildFromBids(ctx context.Context, actor Actor, rfqID uuid.UUID) (*dto.AOQResponse, error) {
	if !actor.CanManageWorkflow() {
		return nil, ErrForbidden
	}

	rfq, err := s.rfqRepo.FindByID(ctx, rfqID)
	if err != nil {
		return nil, errors.New("RFQ not found")
	}
	if existing, err := s.repo.FindByRFQ(ctx, rfqID); err == nil && existing != nil {
		return nil, errors.New("RFQ already has an abstract of quotation")
	}

	bids, err := s.bidRepo.ListByRFQ(ctx, rfqID)
	if err != nil {
		return nil, err
	}
	var lines []model.AOQLine
	for i := range bids {
		bid := &bids[i]
		if bid.Status == model.BidStatusWithdrawn {
			continue
		}
		for j := range bid.Lines {
			bl := &bid.Lines[j]
			lines = append(lines, model.AOQLine{
				PRItemID:   bl.PRItemID,
				SupplierID: bid.SupplierID,
				UnitPrice:  bl.UnitPrice,
				Responsive: bl.Compliant && bl.ValidPrice(),
			})
		}
	}
	if len(lines) == 0 {
		return nil, errors.New("RFQ has no bids to tabulate")
	}

	var number *string
	if rfq.RFQNumber != nil {
		n := "AOQ-" + *rfq.RFQNumber
		number = &n
	}
	aoq := model.AbstractOfQuotation{
		AOQNumber:   number,
		RFQID:       rfqID,
		CreatedByID: actor.idPtr(),
		Lines:       lines,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, &aoq); err != nil {
			return err
		}
		return s.logRepo.CreateTx(tx, &model.ActionLog{
			ActorID:    actor.idPtr(),
			Action:     model.ActionCreate,
			TargetType: "aoq",
			TargetID:   &aoq.ID,
		})
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.Get(ctx, aoq.ID)
}

func (s *aoqService) Get(ctx context.Context, id uuid.UUID) (*dto.AOQResponse, error) {
	aoq, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("abstract of quotation not found")
	}
	return aoqToResponse(aoq), nil
}

// ── Tabulation ────────────────────────────────────────────────────────────────

func (s *aoqService) Tabulate(ctx context.Context, aoqID uuid.UUID) (*dto.TabulationResponse, error) {
	aoq, err := s.repo.FindByID(ctx, aoqID)
	if err != nil {
		return nil, errors.New("abstract of quotation not found")
	}
	if aoq.RFQ == nil {
		return nil, errors.New("abstract has no RFQ loaded")
	}
	required := aoq.RFQ.RequiredItemIDs()
	suppliers := SupplierSummaries(aoq, required)
	winner := Winner(suppliers, len(required))

	prTotal := decimal.Zero
	for _, pr := range aoq.RFQ.PRs() {
		prTotal = prTotal.Add(pr.TotalAmount())
	}
	savings, pct := Savings(prTotal, winner)

	return &dto.TabulationResponse{
		AOQID:          aoq.ID.String(),
		Suppliers:      suppliers,
		LCRB:           LowestResponsiveByItem(aoq, required),
		Winner:         winner,
		PRTotal:        prTotal,
		Savings:        savings,
		PercentSavings: pct,
	}, nil
}

// SupplierSummaries groups the abstract's lines per supplier, preserving the
// order suppliers first appear in the abstract, then sorts ascending by total
// so the lowest bid comes first. The sort is stable: equal totals keep their
// first-appearance order.
func SupplierSummaries(aoq *model.AbstractOfQuotation, requiredIDs []uuid.UUID) []dto.SupplierSummaryResponse {
	var order []uuid.UUID
	bySupplier := make(map[uuid.UUID]*dto.SupplierSummaryResponse)
	covered := make(map[uuid.UUID]map[uuid.UUID]bool)

	for i := range aoq.Lines {
		line := &aoq.Lines[i]
		sum, ok := bySupplier[line.SupplierID]
		if !ok {
			order = append(order, line.SupplierID)
			name := ""
			if line.Supplier != nil {
				name = line.Supplier.Name
			}
			sum = &dto.SupplierSummaryResponse{
				SupplierID: line.SupplierID.String(),
				Supplier:   name,
				Total:      decimal.Zero,
			}
			bySupplier[line.SupplierID] = sum
			covered[line.SupplierID] = make(map[uuid.UUID]bool)
		}
		sum.Total = sum.Total.Add(line.LineTotal())
		if line.Responsive {
			sum.ResponsiveCount++
		}
		covered[line.SupplierID][line.PRItemID] = true
		sum.Lines = append(sum.Lines, aoqLineToResponse(line))
	}

	out := make([]dto.SupplierSummaryResponse, 0, len(order))
	for _, id := range order {
		sum := bySupplier[id]
		sum.Complete = true
		for _, itemID := range requiredIDs {
			if !covered[id][itemID] {
				sum.Complete = false
				break
			}
		}
		out = append(out, *sum)
	}

	// Insertion sort keeps the comparison stable for equal totals.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Total.LessThan(out[j-1].Total); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// LowestResponsiveByItem picks, per PR item, the responsive line with the
// lowest unit price. Ties go to the line encountered first in the abstract.
func LowestResponsiveByItem(aoq *model.AbstractOfQuotation, requiredIDs []uuid.UUID) []dto.LCRBResponse {
	best := make(map[uuid.UUID]*model.AOQLine)
	for i := range aoq.Lines {
		line := &aoq.Lines[i]
		if !line.Responsive {
			continue
		}
		cur, ok := best[line.PRItemID]
		if !ok || line.UnitPrice.LessThan(cur.UnitPrice) {
			best[line.PRItemID] = line
		}
	}

	var out []dto.LCRBResponse
	for _, itemID := range requiredIDs {
		line, ok := best[itemID]
		if !ok {
			continue
		}
		desc := ""
		if line.PRItem != nil {
			desc = line.PRItem.Description
		}
		name := ""
		if line.Supplier != nil {
			name = line.Supplier.Name
		}
		out = append(out, dto.LCRBResponse{
			PRItemID:    itemID.String(),
			Description: desc,
			SupplierID:  line.SupplierID.String(),
			Supplier:    name,
			UnitPrice:   line.UnitPrice,
		})
	}
	return out
}

// Winner returns the first supplier in ascending-total order that quoted
// every required item and whose every line is responsive. Nil when no
// supplier qualifies.
func Winner(suppliers []dto.SupplierSummaryResponse, itemCount int) *dto.SupplierSummaryResponse {
	for i := range suppliers {
		s := &suppliers[i]
		if s.Complete && s.ResponsiveCount >= itemCount {
			return s
		}
	}
	return nil
}

// Savings is the difference between the requisitioner's estimated total and
// the winning quotation, plus the percentage of the estimate. A zero estimate
// yields a zero percentage.
func Savings(prTotal decimal.Decimal, winner *dto.SupplierSummaryResponse) (*decimal.Decimal, *decimal.Decimal) {
	if winner == nil {
		return nil, nil
	}
	diff := prTotal.Sub(winner.Total)
	pct := decimal.Zero
	if !prTotal.IsZero() {
		pct = diff.Div(prTotal).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return &diff, &pct
}

// ── Line evaluation ───────────────────────────────────────────────────────────

func (s *aoqService) UpdateLine(ctx context.Context, actor Actor, lineID uuid.UUID, req dto.AOQLineUpdateRequest) (*dto.AOQLineResponse, error) {
	if !actor.CanManageWorkflow() {
		return nil, ErrForbidden
	}
	line, err := s.repo.FindLine(ctx, lineID)
	if err != nil {
		return nil, errors.New("abstract line not found")
	}
	aoq, err := s.repo.FindByID(ctx, line.AOQID)
	if err != nil {
		return nil, errors.New("abstract of quotation not found")
	}
	if aoq.Awarded() {
		return nil, ErrAlreadyAwarded
	}
	if req.Responsive != nil {
		line.Responsive = *req.Responsive
	}
	if req.UnitPrice != nil {
		if req.UnitPrice.IsNegative() {
			return nil, errors.New("unit price cannot be negative")
		}
		line.UnitPrice = *req.UnitPrice
	}
	if err := s.repo.UpdateLine(ctx, line); err != nil {
		return nil, err
	}
	resp := aoqLineToResponse(line)
	return &resp, nil
}

func (s *aoqService) Verify(ctx context.Context, actor Actor, aoqID uuid.UUID) error {
	if !actor.CanManageWorkflow() {
		return ErrForbidden
	}
	aoq, err := s.repo.FindByID(ctx, aoqID)
	if err != nil {
		return errors.New("abstract of quotation not found")
	}
	aoq.Verified = true
	return s.repo.Update(ctx, aoq)
}

// ── Award ─────────────────────────────────────────────────────────────────────

func (s *aoqService) Award(ctx context.Context, actor Actor, aoqID uuid.UUID, req dto.AwardRequest) (*dto.POResponse, error) {
	if !actor.CanManageWorkflow() {
		return nil, ErrForbidden
	}

	aoq, err := s.repo.FindByID(ctx, aoqID)
	if err != nil {
		return nil, errors.New("abstract of quotation not found")
	}
	if aoq.Awarded() {
		return nil, ErrAlreadyAwarded
	}
	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, errors.New("invalid supplier id")
	}

	responsive := 0
	supplierName := ""
	for i := range aoq.Lines {
		line := &aoq.Lines[i]
		if line.SupplierID != supplierID {
			continue
		}
		if line.Supplier != nil {
			supplierName = line.Supplier.Name
		}
		if line.Responsive {
			responsive++
		}
	}
	if responsive == 0 {
		return nil, errors.New("supplier has no responsive lines on this abstract")
	}

	var prIDs []uuid.UUID
	if aoq.RFQ != nil {
		for _, pr := range aoq.RFQ.PRs() {
			prIDs = append(prIDs, pr.ID)
		}
	}

	now := time.Now()
	po := model.PurchaseOrder{
		AOQID:       aoq.ID,
		SupplierID:  supplierID,
		CreatedByID: actor.idPtr(),
	}

	winningBid, bidErr := s.bidRepo.FindByRFQAndSupplier(ctx, aoq.RFQID, supplierID)

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// The version guard makes concurrent awards lose cleanly: whoever
		// commits first bumps the version, the loser updates zero rows.
		rows, err := s.repo.MarkAwardedTx(tx, aoq.ID, aoq.Version, supplierID, actor.idPtr(), now)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrAwardConflict
		}

		seq, err := s.poRepo.NextPOSeq(ctx, tx)
		if err != nil {
			return err
		}
		po.Seq = seq
		if err := s.poRepo.CreateTx(ctx, tx, &po); err != nil {
			return err
		}
		number := fmt.Sprintf("PO-%s-%d", now.Format("20060102"), seq)
		if err := s.poRepo.SetNumberTx(tx, po.ID, number); err != nil {
			return err
		}
		po.PONumber = &number

		for _, prID := range prIDs {
			if err := s.prRepo.UpdateStatusTx(tx, prID, model.StatusPOIssued, now); err != nil {
				return err
			}
		}

		// Not every supplier on the abstract has a surviving bid row, so a
		// missing bid is tolerated rather than failing the award.
		if bidErr == nil && winningBid != nil {
			if err := s.bidRepo.UpdateStatusTx(tx, winningBid.ID, model.BidStatusAwarded); err != nil {
				return err
			}
		}

		return s.logRepo.CreateTx(tx, &model.ActionLog{
			ActorID:    actor.idPtr(),
			Action:     model.ActionAward,
			TargetType: "aoq",
			TargetID:   &aoq.ID,
			Notes:      fmt.Sprintf("awarded to %s, %s", supplierName, number),
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	// Async award notice (best-effort, fire & forget)
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueNotification(ctx, map[string]interface{}{
			"kind":        "award_notice",
			"aoq_id":      aoq.ID.String(),
			"po_id":       po.ID.String(),
			"supplier_id": supplierID.String(),
		})
	}

	return poToResponse(&po, supplierName), nil
}

// ── CSV export ────────────────────────────────────────────────────────────────

// ExportCSV writes the abstract as flat rows, one per line. The Excel export
// lives in infra; this plain form feeds the agency's legacy reporting sheet.
func (s *aoqService) ExportCSV(ctx context.Context, aoqID uuid.UUID, w io.Writer) error {
	aoq, err := s.repo.FindByID(ctx, aoqID)
	if err != nil {
		return errors.New("abstract of quotation not found")
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Supplier", "Item", "Quantity", "Unit", "Unit Price", "Responsive", "Line Total"}); err != nil {
		return err
	}
	for i := range aoq.Lines {
		line := &aoq.Lines[i]
		name := ""
		if line.Supplier != nil {
			name = line.Supplier.Name
		}
		desc, unit, qty := "", "", 0
		if line.PRItem != nil {
			desc = line.PRItem.Description
			unit = line.PRItem.Unit
			qty = line.PRItem.Quantity
		}
		responsive := "no"
		if line.Responsive {
			responsive = "yes"
		}
		row := []string{
			name,
			desc,
			fmt.Sprintf("%d", qty),
			unit,
			line.UnitPrice.StringFixed(2),
			responsive,
			line.LineTotal().StringFixed(2),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func aoqLineToResponse(line *model.AOQLine) dto.AOQLineResponse {
	desc, qty := "", 0
	if line.PRItem != nil {
		desc = line.PRItem.Description
		qty = line.PRItem.Quantity
	}
	name := ""
	if line.Supplier != nil {
		name = line.Supplier.Name
	}
	return dto.AOQLineResponse{
		ID:          line.ID.String(),
		PRItemID:    line.PRItemID.String(),
		Description: desc,
		Quantity:    qty,
		SupplierID:  line.SupplierID.String(),
		Supplier:    name,
		UnitPrice:   line.UnitPrice,
		Responsive:  line.Responsive,
		LineTotal:   line.LineTotal(),
	}
}

func aoqToResponse(aoq *model.AbstractOfQuotation) *dto.AOQResponse {
	lines := make([]dto.AOQLineResponse, 0, len(aoq.Lines))
	for i := range aoq.Lines {
		lines = append(lines, aoqLineToResponse(&aoq.Lines[i]))
	}
	var awardedTo *string
	if aoq.AwardedTo != nil {
		awardedTo = &aoq.AwardedTo.Name
	}
	var awardedAt *string
	if aoq.AwardedAt != nil {
		at := aoq.AwardedAt.Format(time.RFC3339)
		awardedAt = &at
	}
	return &dto.AOQResponse{
		ID:        aoq.ID.String(),
		AOQNumber: aoq.AOQNumber,
		RFQID:     aoq.RFQID.String(),
		Verified:  aoq.Verified,
		AwardedTo: awardedTo,
		AwardedAt: awardedAt,
		Lines:     lines,
		CreatedAt: aoq.CreatedAt.Format(time.RFC3339),
	}
}

func poToResponse(po *model.PurchaseOrder, supplierName string) *dto.POResponse {
	if supplierName == "" && po.Supplier != nil {
		supplierName = po.Supplier.Name
	}
	return &dto.POResponse{
		ID:              po.ID.String(),
		PONumber:        po.PONumber,
		AOQID:           po.AOQID.String(),
		SupplierID:      po.SupplierID.String(),
		Supplier:        supplierName,
		PlaceOfDelivery: po.PlaceOfDelivery,
		DateOfDelivery:  fmtDatePtr(po.DateOfDelivery),
		SubmissionDate:  fmtDatePtr(po.SubmissionDate),
		ReceivingOffice: po.ReceivingOffice,
		CreatedAt:       po.CreatedAt.Format(time.RFC3339),
	}
}
