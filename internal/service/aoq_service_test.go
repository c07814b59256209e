package service_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"procuretrack/internal/dto"
	"procuretrack/internal/model"
	"procuretrack/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type aoqFixture struct {
	svc      service.AOQService
	aoqRepo  *stubAOQRepo
	rfqRepo  *stubRFQRepo
	bidRepo  *stubBidRepo
	poRepo   *stubPORepo
	prRepo   *stubPRRepo
	logRepo  *stubLogRepo
}

func buildAOQSvc() *aoqFixture {
	f := &aoqFixture{
		aoqRepo: newStubAOQRepo(),
		rfqRepo: newStubRFQRepo(),
		bidRepo: newStubBidRepo(),
		poRepo:  newStubPORepo(),
		prRepo:  newStubPRRepo(),
		logRepo: &stubLogRepo{},
	}
	f.svc = service.NewAOQService(f.aoqRepo, f.rfqRepo, f.bidRepo, f.poRepo, f.prRepo, f.logRepo, nil)
	return f
}

// seedAbstract stores an AOQ whose RFQ covers one PR with the given items.
// lines maps supplier → unit prices in item order; a nil price skips that
// item (incomplete coverage).
func seedAbstract(f *aoqFixture, items []model.PRItem, suppliers []*model.Supplier, prices [][]*decimal.Decimal) *model.AbstractOfQuotation {
	prID := uuid.New()
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		items[i].PurchaseRequestID = prID
	}
	pr := &model.PurchaseRequest{
		ID:       prID,
		Status:   model.StatusForAward,
		PRNumber: ptr("10-0042-25 Records Office"),
		Items:    items,
	}
	f.prRepo.prs[prID] = pr

	rfq := &model.RequestForQuotation{
		ID:                uuid.New(),
		RFQNumber:         ptr("RFQ-10-0042-25 Records Office"),
		PurchaseRequestID: &prID,
		PurchaseRequest:   pr,
	}
	f.rfqRepo.rfqs[rfq.ID] = rfq

	aoq := &model.AbstractOfQuotation{
		ID:    uuid.New(),
		RFQID: rfq.ID,
		RFQ:   rfq,
	}
	for si, supplier := range suppliers {
		for ii := range items {
			price := prices[si][ii]
			if price == nil {
				continue
			}
			aoq.Lines = append(aoq.Lines, model.AOQLine{
				ID:         uuid.New(),
				AOQID:      aoq.ID,
				PRItemID:   items[ii].ID,
				SupplierID: supplier.ID,
				UnitPrice:  *price,
				Responsive: price.IsPositive(),
				PRItem:     &items[ii],
				Supplier:   supplier,
			})
		}
	}
	f.aoqRepo.aoqs[aoq.ID] = aoq
	return aoq
}

func dptr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func namedSupplier(name string) *model.Supplier {
	return &model.Supplier{ID: uuid.New(), Name: name, Accredited: true}
}

// ── Build ─────────────────────────────────────────────────────────────────────

func TestBuildFromBids_SkipsWithdrawnAndDerivesResponsive(t *testing.T) {
	f := buildAOQSvc()
	ctx := context.Background()

	itemID := uuid.New()
	pr := &model.PurchaseRequest{
		ID:    uuid.New(),
		Items: []model.PRItem{{ID: itemID, Description: "Toner", Quantity: 5, Unit: "pc", UnitCost: decimal.NewFromInt(3000)}},
	}
	prID := pr.ID
	rfq := &model.RequestForQuotation{
		ID:                uuid.New(),
		RFQNumber:         ptr("RFQ-10-0001-25 Clinic"),
		PurchaseRequestID: &prID,
		PurchaseRequest:   pr,
	}
	f.rfqRepo.rfqs[rfq.ID] = rfq

	active := namedSupplier("Acme Trading")
	gone := namedSupplier("Ghost Corp")
	f.bidRepo.bids[uuid.New()] = &model.Bid{
		ID: uuid.New(), RFQID: rfq.ID, SupplierID: active.ID, Status: model.BidStatusSubmitted,
		Lines: []model.BidLine{{PRItemID: itemID, UnitPrice: decimal.NewFromInt(2800), Compliant: true}},
	}
	f.bidRepo.bids[uuid.New()] = &model.Bid{
		ID: uuid.New(), RFQID: rfq.ID, SupplierID: gone.ID, Status: model.BidStatusWithdrawn,
		Lines: []model.BidLine{{PRItemID: itemID, UnitPrice: decimal.NewFromInt(2500), Compliant: true}},
	}

	resp, err := f.svc.BuildFromBids(ctx, procurementStaff(), rfq.ID)
	require.NoError(t, err)
	require.NotNil(t, resp.AOQNumber)
	assert.Equal(t, "AOQ-RFQ-10-0001-25 Clinic", *resp.AOQNumber)
	require.Len(t, resp.Lines, 1, "withdrawn bids carry no lines into the abstract")
	assert.Equal(t, active.ID.String(), resp.Lines[0].SupplierID)
	assert.True(t, resp.Lines[0].Responsive)

	// Second build on the same RFQ is rejected.
	_, err = f.svc.BuildFromBids(ctx, procurementStaff(), rfq.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already has an abstract")
}

func TestBuildFromBids_NoBids(t *testing.T) {
	f := buildAOQSvc()
	rfq := &model.RequestForQuotation{ID: uuid.New()}
	f.rfqRepo.rfqs[rfq.ID] = rfq

	_, err := f.svc.BuildFromBids(context.Background(), procurementStaff(), rfq.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no bids")
}

// ── Tabulation ────────────────────────────────────────────────────────────────

func TestTabulate_LCRBTieKeepsFirstEncountered(t *testing.T) {
	f := buildAOQSvc()
	items := []model.PRItem{{Description: "Diesel", Quantity: 1, Unit: "liter", UnitCost: decimal.NewFromInt(60)}}
	s1, s2, s3, s4 := namedSupplier("Alpha"), namedSupplier("Bravo"), namedSupplier("Charlie"), namedSupplier("Delta")
	aoq := seedAbstract(f, items,
		[]*model.Supplier{s1, s2, s3, s4},
		[][]*decimal.Decimal{{dptr(50)}, {dptr(30)}, {dptr(30)}, {dptr(40)}},
	)

	tab, err := f.svc.Tabulate(context.Background(), aoq.ID)
	require.NoError(t, err)
	require.Len(t, tab.LCRB, 1)
	assert.True(t, tab.LCRB[0].UnitPrice.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, "Bravo", tab.LCRB[0].Supplier, "on a tie the line encountered first wins")
}

func TestTabulate_WinnerMustBeComplete(t *testing.T) {
	f := buildAOQSvc()
	items := []model.PRItem{
		{Description: "Bond paper A4", Quantity: 10, Unit: "ream", UnitCost: decimal.NewFromInt(100)},
		{Description: "Stapler", Quantity: 4, Unit: "pc", UnitCost: decimal.NewFromInt(150)},
	}
	partial := namedSupplier("Partial Supplies") // quotes item 1 only: total 800
	full := namedSupplier("Full Coverage Inc")   // quotes both: total 1200
	aoq := seedAbstract(f, items,
		[]*model.Supplier{partial, full},
		[][]*decimal.Decimal{{dptr(80), nil}, {dptr(100), dptr(50)}},
	)

	tab, err := f.svc.Tabulate(context.Background(), aoq.ID)
	require.NoError(t, err)

	// Ascending totals put the incomplete cheaper supplier first...
	require.Len(t, tab.Suppliers, 2)
	assert.Equal(t, "Partial Supplies", tab.Suppliers[0].Supplier)
	assert.False(t, tab.Suppliers[0].Complete)

	// ...but the award candidate is the first complete responsive one.
	require.NotNil(t, tab.Winner)
	assert.Equal(t, "Full Coverage Inc", tab.Winner.Supplier)
	assert.True(t, tab.Winner.Total.Equal(decimal.NewFromInt(1200)))

	// Savings = PR estimate (10×100 + 4×150 = 1600) − winner (1200)
	assert.True(t, tab.PRTotal.Equal(decimal.NewFromInt(1600)))
	require.NotNil(t, tab.Savings)
	assert.True(t, tab.Savings.Equal(decimal.NewFromInt(400)))
	require.NotNil(t, tab.PercentSavings)
	assert.True(t, tab.PercentSavings.Equal(decimal.NewFromInt(25)))
}

func TestSavings_ZeroEstimate(t *testing.T) {
	winner := &dto.SupplierSummaryResponse{Total: decimal.NewFromInt(500)}
	diff, pct := service.Savings(decimal.Zero, winner)
	require.NotNil(t, diff)
	assert.True(t, diff.Equal(decimal.NewFromInt(-500)))
	require.NotNil(t, pct)
	assert.True(t, pct.IsZero(), "zero estimate yields a zero percentage")

	diff, pct = service.Savings(decimal.NewFromInt(100), nil)
	assert.Nil(t, diff)
	assert.Nil(t, pct)
}

func TestSupplierSummaries_StableSort(t *testing.T) {
	itemID := uuid.New()
	item := model.PRItem{ID: itemID, Description: "Toner", Quantity: 1, UnitCost: decimal.NewFromInt(100)}
	first, second := namedSupplier("First"), namedSupplier("Second")

	aoq := &model.AbstractOfQuotation{Lines: []model.AOQLine{
		{PRItemID: itemID, SupplierID: first.ID, UnitPrice: decimal.NewFromInt(75), Responsive: true, PRItem: &item, Supplier: first},
		{PRItemID: itemID, SupplierID: second.ID, UnitPrice: decimal.NewFromInt(75), Responsive: true, PRItem: &item, Supplier: second},
	}}
	out := service.SupplierSummaries(aoq, []uuid.UUID{itemID})
	require.Len(t, out, 2)
	assert.Equal(t, "First", out[0].Supplier, "equal totals keep first-appearance order")
	assert.Equal(t, "Second", out[1].Supplier)
}

// ── Evaluation ────────────────────────────────────────────────────────────────

func TestUpdateLine(t *testing.T) {
	f := buildAOQSvc()
	ctx := context.Background()
	items := []model.PRItem{{Description: "Toner", Quantity: 5, Unit: "pc", UnitCost: decimal.NewFromInt(3000)}}
	supplier := namedSupplier("Acme Trading")
	aoq := seedAbstract(f, items, []*model.Supplier{supplier}, [][]*decimal.Decimal{{dptr(2800)}})
	lineID := aoq.Lines[0].ID

	neg := decimal.NewFromInt(-1)
	_, err := f.svc.UpdateLine(ctx, procurementStaff(), lineID, dto.AOQLineUpdateRequest{UnitPrice: &neg})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative")

	off := false
	resp, err := f.svc.UpdateLine(ctx, procurementStaff(), lineID, dto.AOQLineUpdateRequest{Responsive: &off})
	require.NoError(t, err)
	assert.False(t, resp.Responsive)
	assert.False(t, aoq.Lines[0].Responsive)

	// Once the abstract is awarded the evaluation is frozen.
	winner := supplier.ID
	aoq.AwardedToID = &winner
	on := true
	_, err = f.svc.UpdateLine(ctx, procurementStaff(), lineID, dto.AOQLineUpdateRequest{Responsive: &on})
	assert.ErrorIs(t, err, service.ErrAlreadyAwarded)
}

// ── Award ─────────────────────────────────────────────────────────────────────

func TestAward_IssuesPOAndMovesPRs(t *testing.T) {
	f := buildAOQSvc()
	ctx := context.Background()
	items := []model.PRItem{{Description: "Toner", Quantity: 5, Unit: "pc", UnitCost: decimal.NewFromInt(3000)}}
	supplier := namedSupplier("Acme Trading")
	aoq := seedAbstract(f, items, []*model.Supplier{supplier}, [][]*decimal.Decimal{{dptr(2800)}})

	bid := &model.Bid{ID: uuid.New(), RFQID: aoq.RFQID, SupplierID: supplier.ID, Status: model.BidStatusSubmitted}
	f.bidRepo.bids[bid.ID] = bid

	po, err := f.svc.Award(ctx, procurementStaff(), aoq.ID, dto.AwardRequest{SupplierID: supplier.ID.String()})
	require.NoError(t, err)

	require.NotNil(t, po.PONumber)
	expected := fmt.Sprintf("PO-%s-1", time.Now().Format("20060102"))
	assert.Equal(t, expected, *po.PONumber)

	// Award is recorded with a bumped version token.
	require.NotNil(t, aoq.AwardedToID)
	assert.Equal(t, supplier.ID, *aoq.AwardedToID)
	assert.Equal(t, 1, aoq.Version)

	// Every covered PR moves to po_issued, the winning bid is marked.
	prID := aoq.RFQ.PurchaseRequest.ID
	assert.Equal(t, model.StatusPOIssued, f.prRepo.prs[prID].Status)
	assert.Equal(t, model.BidStatusAwarded, f.bidRepo.bids[bid.ID].Status)

	// A second award attempt is refused outright.
	_, err = f.svc.Award(ctx, procurementStaff(), aoq.ID, dto.AwardRequest{SupplierID: supplier.ID.String()})
	assert.ErrorIs(t, err, service.ErrAlreadyAwarded)
}

func TestAward_ConcurrentLoserGetsConflict(t *testing.T) {
	f := buildAOQSvc()
	items := []model.PRItem{{Description: "Toner", Quantity: 5, Unit: "pc", UnitCost: decimal.NewFromInt(3000)}}
	supplier := namedSupplier("Acme Trading")
	aoq := seedAbstract(f, items, []*model.Supplier{supplier}, [][]*decimal.Decimal{{dptr(2800)}})

	f.aoqRepo.forceAwardConflict = true
	_, err := f.svc.Award(context.Background(), procurementStaff(), aoq.ID, dto.AwardRequest{SupplierID: supplier.ID.String()})
	assert.ErrorIs(t, err, service.ErrAwardConflict)
}

func TestAward_FailedAwardLeavesBidUntouched(t *testing.T) {
	f := buildAOQSvc()
	items := []model.PRItem{{Description: "Toner", Quantity: 5, Unit: "pc", UnitCost: decimal.NewFromInt(3000)}}
	supplier := namedSupplier("Acme Trading")
	aoq := seedAbstract(f, items, []*model.Supplier{supplier}, [][]*decimal.Decimal{{dptr(2800)}})

	bid := &model.Bid{ID: uuid.New(), RFQID: aoq.RFQID, SupplierID: supplier.ID, Status: model.BidStatusSubmitted}
	f.bidRepo.bids[bid.ID] = bid

	// The bid flip rides the award transaction, so a lost version race must
	// not leave a stray awarded bid behind.
	f.aoqRepo.forceAwardConflict = true
	_, err := f.svc.Award(context.Background(), procurementStaff(), aoq.ID, dto.AwardRequest{SupplierID: supplier.ID.String()})
	assert.ErrorIs(t, err, service.ErrAwardConflict)
	assert.Equal(t, model.BidStatusSubmitted, f.bidRepo.bids[bid.ID].Status)
}

func TestAward_RequiresResponsiveLines(t *testing.T) {
	f := buildAOQSvc()
	items := []model.PRItem{{Description: "Toner", Quantity: 5, Unit: "pc", UnitCost: decimal.NewFromInt(3000)}}
	supplier := namedSupplier("Acme Trading")
	aoq := seedAbstract(f, items, []*model.Supplier{supplier}, [][]*decimal.Decimal{{dptr(2800)}})
	aoq.Lines[0].Responsive = false

	_, err := f.svc.Award(context.Background(), procurementStaff(), aoq.ID, dto.AwardRequest{SupplierID: supplier.ID.String()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no responsive lines")
}

// ── Export ────────────────────────────────────────────────────────────────────

func TestExportCSV(t *testing.T) {
	f := buildAOQSvc()
	items := []model.PRItem{{Description: "Toner", Quantity: 5, Unit: "pc", UnitCost: decimal.NewFromInt(3000)}}
	supplier := namedSupplier("Acme Trading")
	aoq := seedAbstract(f, items, []*model.Supplier{supplier}, [][]*decimal.Decimal{{dptr(2800)}})

	var buf bytes.Buffer
	require.NoError(t, f.svc.ExportCSV(context.Background(), aoq.ID, &buf))
	out := buf.String()
	assert.Contains(t, out, "Supplier,Item,Quantity,Unit,Unit Price,Responsive,Line Total")
	assert.Contains(t, out, "Acme Trading,Toner,5,pc,2800")
}
