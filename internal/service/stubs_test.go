package service_test

import (
	"context"
	"errors"
	"time"

	"procuretrack/internal/dto"
	"procuretrack/internal/model"
	"procuretrack/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubPRRepo is an in-memory PRRepository for testing.
type stubPRRepo struct {
	prs map[uuid.UUID]*model.PurchaseRequest
}

func newStubPRRepo() *stubPRRepo {
	return &stubPRRepo{prs: make(map[uuid.UUID]*model.PurchaseRequest)}
}

func (r *stubPRRepo) Create(_ context.Context, _ *gorm.DB, pr *model.PurchaseRequest) error {
	if pr.ID == uuid.Nil {
		pr.ID = uuid.New()
	}
	for i := range pr.Items {
		if pr.Items[i].ID == uuid.Nil {
			pr.Items[i].ID = uuid.New()
		}
		pr.Items[i].PurchaseRequestID = pr.ID
	}
	r.prs[pr.ID] = pr
	return nil
}

func (r *stubPRRepo) FindByID(_ context.Context, id uuid.UUID) (*model.PurchaseRequest, error) {
	pr, ok := r.prs[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return pr, nil
}

func (r *stubPRRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.PurchaseRequest, error) {
	var out []model.PurchaseRequest
	for _, id := range ids {
		if pr, ok := r.prs[id]; ok {
			out = append(out, *pr)
		}
	}
	return out, nil
}

func (r *stubPRRepo) Save(_ context.Context, _ *gorm.DB, pr *model.PurchaseRequest) error {
	// Enforce the PR number unique index like Postgres would.
	if pr.PRNumber != nil {
		for id, other := range r.prs {
			if id != pr.ID && other.PRNumber != nil && *other.PRNumber == *pr.PRNumber {
				return gorm.ErrDuplicatedKey
			}
		}
	}
	r.prs[pr.ID] = pr
	return nil
}

func (r *stubPRRepo) ReplaceItems(_ context.Context, _ *gorm.DB, prID uuid.UUID, items []model.PRItem) error {
	pr, ok := r.prs[prID]
	if !ok {
		return errors.New("not found")
	}
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		items[i].PurchaseRequestID = prID
	}
	pr.Items = items
	return nil
}

func (r *stubPRRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status string, lastUpdate time.Time) error {
	pr, ok := r.prs[id]
	if !ok {
		return errors.New("not found")
	}
	pr.Status = status
	pr.LastUpdate = lastUpdate
	return nil
}

func (r *stubPRRepo) AttachToRFQTx(_ *gorm.DB, prIDs []uuid.UUID, rfqID uuid.UUID) error {
	for _, id := range prIDs {
		pr, ok := r.prs[id]
		if !ok {
			return errors.New("not found")
		}
		rid := rfqID
		pr.ConsolidatedInID = &rid
	}
	return nil
}

func (r *stubPRRepo) List(_ context.Context, filter dto.PRFilter) ([]model.PurchaseRequest, int64, error) {
	var out []model.PurchaseRequest
	for _, pr := range r.prs {
		if filter.Status != "" && pr.Status != filter.Status {
			continue
		}
		out = append(out, *pr)
	}
	return out, int64(len(out)), nil
}

func (r *stubPRRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, pr := range r.prs {
		counts[pr.Status]++
	}
	return counts, nil
}

func (r *stubPRRepo) DB() *gorm.DB { return nil }

var _ repository.PRRepository = (*stubPRRepo)(nil)

// stubRFQRepo is an in-memory RFQRepository.
type stubRFQRepo struct {
	rfqs map[uuid.UUID]*model.RequestForQuotation
	logs []model.ConsolidationLog
}

func newStubRFQRepo() *stubRFQRepo {
	return &stubRFQRepo{rfqs: make(map[uuid.UUID]*model.RequestForQuotation)}
}

func (r *stubRFQRepo) Create(_ context.Context, _ *gorm.DB, rfq *model.RequestForQuotation) error {
	if rfq.RFQNumber != nil {
		for _, other := range r.rfqs {
			if other.RFQNumber != nil && *other.RFQNumber == *rfq.RFQNumber {
				return gorm.ErrDuplicatedKey
			}
		}
	}
	if rfq.ID == uuid.Nil {
		rfq.ID = uuid.New()
	}
	r.rfqs[rfq.ID] = rfq
	return nil
}

func (r *stubRFQRepo) FindByID(_ context.Context, id uuid.UUID) (*model.RequestForQuotation, error) {
	rfq, ok := r.rfqs[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return rfq, nil
}

func (r *stubRFQRepo) FindByNumber(_ context.Context, number string) (*model.RequestForQuotation, error) {
	for _, rfq := range r.rfqs {
		if rfq.RFQNumber != nil && *rfq.RFQNumber == number {
			return rfq, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubRFQRepo) List(_ context.Context) ([]model.RequestForQuotation, error) {
	var out []model.RequestForQuotation
	for _, rfq := range r.rfqs {
		out = append(out, *rfq)
	}
	return out, nil
}

func (r *stubRFQRepo) CreateConsolidationLogTx(_ *gorm.DB, log *model.ConsolidationLog) error {
	r.logs = append(r.logs, *log)
	return nil
}

func (r *stubRFQRepo) Count(_ context.Context) (int64, error) { return int64(len(r.rfqs)), nil }

func (r *stubRFQRepo) DB() *gorm.DB { return nil }

var _ repository.RFQRepository = (*stubRFQRepo)(nil)

// stubBidRepo is an in-memory BidRepository.
type stubBidRepo struct {
	bids map[uuid.UUID]*model.Bid
}

func newStubBidRepo() *stubBidRepo {
	return &stubBidRepo{bids: make(map[uuid.UUID]*model.Bid)}
}

func (r *stubBidRepo) Create(_ context.Context, _ *gorm.DB, bid *model.Bid) error {
	for _, other := range r.bids {
		if other.RFQID == bid.RFQID && other.SupplierID == bid.SupplierID {
			return gorm.ErrDuplicatedKey
		}
	}
	if bid.ID == uuid.Nil {
		bid.ID = uuid.New()
	}
	for i := range bid.Lines {
		if bid.Lines[i].ID == uuid.Nil {
			bid.Lines[i].ID = uuid.New()
		}
		bid.Lines[i].BidID = bid.ID
	}
	r.bids[bid.ID] = bid
	return nil
}

func (r *stubBidRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Bid, error) {
	bid, ok := r.bids[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return bid, nil
}

func (r *stubBidRepo) FindByRFQAndSupplier(_ context.Context, rfqID, supplierID uuid.UUID) (*model.Bid, error) {
	for _, bid := range r.bids {
		if bid.RFQID == rfqID && bid.SupplierID == supplierID {
			return bid, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubBidRepo) ListByRFQ(_ context.Context, rfqID uuid.UUID) ([]model.Bid, error) {
	var out []model.Bid
	for _, bid := range r.bids {
		if bid.RFQID == rfqID {
			out = append(out, *bid)
		}
	}
	return out, nil
}

func (r *stubBidRepo) SaveLinesTx(_ *gorm.DB, lines []model.BidLine) error {
	if len(lines) == 0 {
		return nil
	}
	bid, ok := r.bids[lines[0].BidID]
	if !ok {
		return errors.New("not found")
	}
	for i := range lines {
		if lines[i].ID == uuid.Nil {
			lines[i].ID = uuid.New()
		}
	}
	bid.Lines = lines
	return nil
}

func (r *stubBidRepo) DeleteLinesTx(_ *gorm.DB, bidID uuid.UUID) error {
	if bid, ok := r.bids[bidID]; ok {
		bid.Lines = nil
	}
	return nil
}

func (r *stubBidRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	bid, ok := r.bids[id]
	if !ok {
		return errors.New("not found")
	}
	bid.Status = status
	return nil
}

func (r *stubBidRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status string) error {
	bid, ok := r.bids[id]
	if !ok {
		return errors.New("not found")
	}
	bid.Status = status
	return nil
}

func (r *stubBidRepo) DB() *gorm.DB { return nil }

var _ repository.BidRepository = (*stubBidRepo)(nil)

// stubAOQRepo is an in-memory AOQRepository. Set forceAwardConflict to make
// MarkAwardedTx report zero updated rows, simulating a lost optimistic-lock
// race.
type stubAOQRepo struct {
	aoqs               map[uuid.UUID]*model.AbstractOfQuotation
	forceAwardConflict bool
}

func newStubAOQRepo() *stubAOQRepo {
	return &stubAOQRepo{aoqs: make(map[uuid.UUID]*model.AbstractOfQuotation)}
}

func (r *stubAOQRepo) Create(_ context.Context, _ *gorm.DB, aoq *model.AbstractOfQuotation) error {
	if aoq.ID == uuid.Nil {
		aoq.ID = uuid.New()
	}
	for i := range aoq.Lines {
		if aoq.Lines[i].ID == uuid.Nil {
			aoq.Lines[i].ID = uuid.New()
		}
		aoq.Lines[i].AOQID = aoq.ID
	}
	r.aoqs[aoq.ID] = aoq
	return nil
}

func (r *stubAOQRepo) FindByID(_ context.Context, id uuid.UUID) (*model.AbstractOfQuotation, error) {
	aoq, ok := r.aoqs[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return aoq, nil
}

func (r *stubAOQRepo) FindByRFQ(_ context.Context, rfqID uuid.UUID) (*model.AbstractOfQuotation, error) {
	for _, aoq := range r.aoqs {
		if aoq.RFQID == rfqID {
			return aoq, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubAOQRepo) Update(_ context.Context, aoq *model.AbstractOfQuotation) error {
	r.aoqs[aoq.ID] = aoq
	return nil
}

func (r *stubAOQRepo) FindLine(_ context.Context, id uuid.UUID) (*model.AOQLine, error) {
	for _, aoq := range r.aoqs {
		for i := range aoq.Lines {
			if aoq.Lines[i].ID == id {
				return &aoq.Lines[i], nil
			}
		}
	}
	return nil, errors.New("not found")
}

func (r *stubAOQRepo) UpdateLine(_ context.Context, line *model.AOQLine) error {
	aoq, ok := r.aoqs[line.AOQID]
	if !ok {
		return errors.New("not found")
	}
	for i := range aoq.Lines {
		if aoq.Lines[i].ID == line.ID {
			aoq.Lines[i] = *line
			return nil
		}
	}
	return errors.New("not found")
}

func (r *stubAOQRepo) MarkAwardedTx(_ *gorm.DB, aoqID uuid.UUID, version int, supplierID uuid.UUID, byID *uuid.UUID, at time.Time) (int64, error) {
	if r.forceAwardConflict {
		return 0, nil
	}
	aoq, ok := r.aoqs[aoqID]
	if !ok {
		return 0, errors.New("not found")
	}
	if aoq.Version != version || aoq.AwardedToID != nil {
		return 0, nil
	}
	sid := supplierID
	ts := at
	aoq.AwardedToID = &sid
	aoq.AwardedAt = &ts
	aoq.AwardedByID = byID
	aoq.Version++
	return 1, nil
}

func (r *stubAOQRepo) Count(_ context.Context) (int64, error) { return int64(len(r.aoqs)), nil }

func (r *stubAOQRepo) DB() *gorm.DB { return nil }

var _ repository.AOQRepository = (*stubAOQRepo)(nil)

// stubPORepo is an in-memory PORepository with a local numbering counter.
type stubPORepo struct {
	pos map[uuid.UUID]*model.PurchaseOrder
	seq int
}

func newStubPORepo() *stubPORepo {
	return &stubPORepo{pos: make(map[uuid.UUID]*model.PurchaseOrder)}
}

func (r *stubPORepo) CreateTx(_ context.Context, _ *gorm.DB, po *model.PurchaseOrder) error {
	if po.ID == uuid.Nil {
		po.ID = uuid.New()
	}
	r.pos[po.ID] = po
	return nil
}

func (r *stubPORepo) NextPOSeq(_ context.Context, _ *gorm.DB) (int, error) {
	r.seq++
	return r.seq, nil
}

func (r *stubPORepo) SetNumberTx(_ *gorm.DB, id uuid.UUID, number string) error {
	po, ok := r.pos[id]
	if !ok {
		return errors.New("not found")
	}
	po.PONumber = &number
	return nil
}

func (r *stubPORepo) FindByID(_ context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	po, ok := r.pos[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return po, nil
}

func (r *stubPORepo) FindByAOQ(_ context.Context, aoqID uuid.UUID) ([]model.PurchaseOrder, error) {
	var out []model.PurchaseOrder
	for _, po := range r.pos {
		if po.AOQID == aoqID {
			out = append(out, *po)
		}
	}
	return out, nil
}

func (r *stubPORepo) Save(_ context.Context, po *model.PurchaseOrder) error {
	r.pos[po.ID] = po
	return nil
}

func (r *stubPORepo) List(_ context.Context) ([]model.PurchaseOrder, error) {
	var out []model.PurchaseOrder
	for _, po := range r.pos {
		out = append(out, *po)
	}
	return out, nil
}

func (r *stubPORepo) Count(_ context.Context) (int64, error) { return int64(len(r.pos)), nil }

func (r *stubPORepo) DB() *gorm.DB { return nil }

var _ repository.PORepository = (*stubPORepo)(nil)

// stubSupplierRepo is an in-memory SupplierRepository.
type stubSupplierRepo struct {
	suppliers map[uuid.UUID]*model.Supplier
}

func newStubSupplierRepo() *stubSupplierRepo {
	return &stubSupplierRepo{suppliers: make(map[uuid.UUID]*model.Supplier)}
}

func (r *stubSupplierRepo) Create(_ context.Context, s *model.Supplier) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.suppliers[s.ID] = s
	return nil
}

func (r *stubSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return s, nil
}

func (r *stubSupplierRepo) Update(_ context.Context, s *model.Supplier) error {
	r.suppliers[s.ID] = s
	return nil
}

func (r *stubSupplierRepo) List(_ context.Context, accreditedOnly bool) ([]model.Supplier, error) {
	var out []model.Supplier
	for _, s := range r.suppliers {
		if accreditedOnly && !s.Accredited {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubSupplierRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.suppliers, id)
	return nil
}

func (r *stubSupplierRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.suppliers)), nil
}

var _ repository.SupplierRepository = (*stubSupplierRepo)(nil)

// stubLogRepo captures audit entries for assertion.
type stubLogRepo struct {
	entries []model.ActionLog
}

func (r *stubLogRepo) CreateTx(_ *gorm.DB, entry *model.ActionLog) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *stubLogRepo) Create(_ context.Context, entry *model.ActionLog) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *stubLogRepo) ListByTarget(_ context.Context, targetType string, targetID uuid.UUID) ([]model.ActionLog, error) {
	var out []model.ActionLog
	for _, e := range r.entries {
		if e.TargetType == targetType && e.TargetID != nil && *e.TargetID == targetID {
			out = append(out, e)
		}
	}
	return out, nil
}

var _ repository.ActionLogRepository = (*stubLogRepo)(nil)
