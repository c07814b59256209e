package service_test

import (
	"context"
	"testing"

	"procuretrack/internal/dto"
	"procuretrack/internal/model"
	"procuretrack/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildBidSvc() (service.BidService, *stubBidRepo, *stubRFQRepo, *stubSupplierRepo) {
	bidRepo := newStubBidRepo()
	rfqRepo := newStubRFQRepo()
	supplierRepo := newStubSupplierRepo()
	logRepo := &stubLogRepo{}
	svc := service.NewBidService(bidRepo, rfqRepo, supplierRepo, logRepo)
	return svc, bidRepo, rfqRepo, supplierRepo
}

// seedRFQ stores a single-PR RFQ with the given items preloaded.
func seedRFQ(rfqRepo *stubRFQRepo, items ...model.PRItem) *model.RequestForQuotation {
	prID := uuid.New()
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		items[i].PurchaseRequestID = prID
	}
	pr := &model.PurchaseRequest{
		ID:       prID,
		Status:   model.StatusForRFQ,
		PRNumber: ptr("10-0042-25 Records Office"),
		Items:    items,
	}
	rfq := &model.RequestForQuotation{
		ID:                uuid.New(),
		RFQNumber:         ptr("RFQ-10-0042-25 Records Office"),
		PurchaseRequestID: &prID,
		PurchaseRequest:   pr,
	}
	rfqRepo.rfqs[rfq.ID] = rfq
	return rfq
}

func seedSupplier(repo *stubSupplierRepo, name string) *model.Supplier {
	s := &model.Supplier{ID: uuid.New(), Name: name, Accredited: true}
	repo.suppliers[s.ID] = s
	return s
}

func TestSubmitBid_MaterializesPlaceholderLines(t *testing.T) {
	svc, bidRepo, rfqRepo, supplierRepo := buildBidSvc()

	rfq := seedRFQ(rfqRepo,
		model.PRItem{Description: "Bond paper A4", Quantity: 10, Unit: "ream", UnitCost: decimal.NewFromInt(250)},
		model.PRItem{Description: "Stapler", Quantity: 3, Unit: "pc", UnitCost: decimal.NewFromInt(150)},
	)
	supplier := seedSupplier(supplierRepo, "Acme Trading")
	quotedItem := rfq.PurchaseRequest.Items[0].ID

	resp, err := svc.Submit(context.Background(), procurementStaff(), rfq.ID, dto.SubmitBidRequest{
		SupplierID: supplier.ID.String(),
		Lines: []dto.BidLineRequest{
			{PRItemID: quotedItem.String(), UnitPrice: decimal.NewFromInt(240)},
		},
	})
	require.NoError(t, err)

	// One row per required item: the unquoted stapler gets a zero placeholder.
	require.Len(t, resp.Lines, 2)
	assert.True(t, resp.Complete)
	assert.False(t, resp.Responsive, "a zero-price placeholder is not a responsive line")

	stored := bidRepo.bids[uuid.MustParse(resp.ID)]
	require.NotNil(t, stored)
	var placeholder *model.BidLine
	for i := range stored.Lines {
		if stored.Lines[i].PRItemID != quotedItem {
			placeholder = &stored.Lines[i]
		}
	}
	require.NotNil(t, placeholder)
	assert.True(t, placeholder.UnitPrice.IsZero())
	assert.True(t, placeholder.Compliant)
}

func TestSubmitBid_OnePerSupplier(t *testing.T) {
	svc, _, rfqRepo, supplierRepo := buildBidSvc()
	ctx := context.Background()

	rfq := seedRFQ(rfqRepo, model.PRItem{Description: "Toner", Quantity: 5, Unit: "pc", UnitCost: decimal.NewFromInt(3000)})
	supplier := seedSupplier(supplierRepo, "Acme Trading")

	_, err := svc.Submit(ctx, procurementStaff(), rfq.ID, dto.SubmitBidRequest{SupplierID: supplier.ID.String()})
	require.NoError(t, err)

	_, err = svc.Submit(ctx, procurementStaff(), rfq.ID, dto.SubmitBidRequest{SupplierID: supplier.ID.String()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already has a bid")
}

func TestSubmitBid_RejectsForeignItem(t *testing.T) {
	svc, _, rfqRepo, supplierRepo := buildBidSvc()

	rfq := seedRFQ(rfqRepo, model.PRItem{Description: "Toner", Quantity: 5, Unit: "pc", UnitCost: decimal.NewFromInt(3000)})
	supplier := seedSupplier(supplierRepo, "Acme Trading")

	_, err := svc.Submit(context.Background(), procurementStaff(), rfq.ID, dto.SubmitBidRequest{
		SupplierID: supplier.ID.String(),
		Lines:      []dto.BidLineRequest{{PRItemID: uuid.NewString(), UnitPrice: decimal.NewFromInt(1)}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not belong to this RFQ")
}

func TestSaveBidLines_RejectedWholeNamingMissingItems(t *testing.T) {
	svc, _, rfqRepo, supplierRepo := buildBidSvc()
	ctx := context.Background()

	rfq := seedRFQ(rfqRepo,
		model.PRItem{Description: "Bond paper A4", Quantity: 10, Unit: "ream", UnitCost: decimal.NewFromInt(250)},
		model.PRItem{Description: "Stapler", Quantity: 3, Unit: "pc", UnitCost: decimal.NewFromInt(150)},
	)
	supplier := seedSupplier(supplierRepo, "Acme Trading")
	submitted, err := svc.Submit(ctx, procurementStaff(), rfq.ID, dto.SubmitBidRequest{SupplierID: supplier.ID.String()})
	require.NoError(t, err)
	bidID := uuid.MustParse(submitted.ID)

	paper := rfq.PurchaseRequest.Items[0].ID

	_, err = svc.SaveLines(ctx, procurementStaff(), bidID, dto.SaveBidLinesRequest{
		Lines: []dto.BidLineRequest{{PRItemID: paper.String(), UnitPrice: decimal.NewFromInt(245)}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bid is missing prices for")
	assert.Contains(t, err.Error(), "Stapler")

	stapler := rfq.PurchaseRequest.Items[1].ID
	resp, err := svc.SaveLines(ctx, procurementStaff(), bidID, dto.SaveBidLinesRequest{
		Lines: []dto.BidLineRequest{
			{PRItemID: paper.String(), UnitPrice: decimal.NewFromInt(245)},
			{PRItemID: stapler.String(), UnitPrice: decimal.NewFromInt(140)},
		},
	})
	require.NoError(t, err)
	assert.True(t, resp.Responsive)
	// 10×245 + 3×140 = 2870
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(2870)), "got %s", resp.TotalAmount)
}

func TestWithdrawBid(t *testing.T) {
	svc, bidRepo, rfqRepo, supplierRepo := buildBidSvc()
	ctx := context.Background()

	rfq := seedRFQ(rfqRepo, model.PRItem{Description: "Toner", Quantity: 5, Unit: "pc", UnitCost: decimal.NewFromInt(3000)})
	supplier := seedSupplier(supplierRepo, "Acme Trading")
	submitted, err := svc.Submit(ctx, procurementStaff(), rfq.ID, dto.SubmitBidRequest{SupplierID: supplier.ID.String()})
	require.NoError(t, err)
	bidID := uuid.MustParse(submitted.ID)

	require.NoError(t, svc.Withdraw(ctx, procurementStaff(), bidID))
	assert.Equal(t, model.BidStatusWithdrawn, bidRepo.bids[bidID].Status)

	// An awarded bid stays put.
	bidRepo.bids[bidID].Status = model.BidStatusAwarded
	err = svc.Withdraw(ctx, procurementStaff(), bidID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "awarded bid")
}

func TestBidPredicates(t *testing.T) {
	itemA, itemB := uuid.New(), uuid.New()
	required := []uuid.UUID{itemA, itemB}

	complete := &model.Bid{Lines: []model.BidLine{
		{PRItemID: itemA, UnitPrice: decimal.NewFromInt(10), Compliant: true},
		{PRItemID: itemB, UnitPrice: decimal.NewFromInt(20), Compliant: true},
	}}
	assert.True(t, service.BidComplete(complete, required))
	assert.True(t, service.BidResponsive(complete, required))

	missing := &model.Bid{Lines: complete.Lines[:1]}
	assert.False(t, service.BidComplete(missing, required))
	assert.False(t, service.BidResponsive(missing, required))

	zeroPrice := &model.Bid{Lines: []model.BidLine{
		{PRItemID: itemA, UnitPrice: decimal.NewFromInt(10), Compliant: true},
		{PRItemID: itemB, UnitPrice: decimal.Zero, Compliant: true},
	}}
	assert.True(t, service.BidComplete(zeroPrice, required))
	assert.False(t, service.BidResponsive(zeroPrice, required))

	nonCompliant := &model.Bid{Lines: []model.BidLine{
		{PRItemID: itemA, UnitPrice: decimal.NewFromInt(10), Compliant: true},
		{PRItemID: itemB, UnitPrice: decimal.NewFromInt(20), Compliant: false},
	}}
	assert.False(t, service.BidResponsive(nonCompliant, required))
}
