package service_test

import (
	"context"
	"testing"

	"procuretrack/internal/dto"
	"procuretrack/internal/model"
	"procuretrack/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildRFQSvc() (service.RFQService, *stubRFQRepo, *stubPRRepo, *stubLogRepo) {
	rfqRepo := newStubRFQRepo()
	prRepo := newStubPRRepo()
	logRepo := &stubLogRepo{}
	return service.NewRFQService(rfqRepo, prRepo, logRepo), rfqRepo, prRepo, logRepo
}

func TestCreateRFQ_DerivesNumberFromPR(t *testing.T) {
	svc, _, prRepo, _ := buildRFQSvc()

	pr := seedPR(prRepo, func(pr *model.PurchaseRequest) {
		pr.PRNumber = ptr("10-0042-25 Records Office")
	})

	resp, err := svc.Create(context.Background(), procurementStaff(), pr.ID, dto.CreateRFQRequest{})
	require.NoError(t, err)
	require.NotNil(t, resp.RFQNumber)
	assert.Equal(t, "RFQ-10-0042-25 Records Office", *resp.RFQNumber)
	assert.False(t, resp.Consolidated)
}

func TestCreateRFQ_DuplicateNumberRejected(t *testing.T) {
	svc, _, prRepo, _ := buildRFQSvc()
	ctx := context.Background()

	first := seedPR(prRepo, func(pr *model.PurchaseRequest) { pr.PRNumber = ptr("10-0001-25 Clinic") })
	second := seedPR(prRepo, nil)

	_, err := svc.Create(ctx, procurementStaff(), first.ID, dto.CreateRFQRequest{})
	require.NoError(t, err)

	_, err = svc.Create(ctx, procurementStaff(), second.ID, dto.CreateRFQRequest{
		RFQNumber: ptr("RFQ-10-0001-25 Clinic"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestCreateRFQ_RejectsConsolidatedPR(t *testing.T) {
	svc, _, prRepo, _ := buildRFQSvc()

	other := uuid.New()
	pr := seedPR(prRepo, func(pr *model.PurchaseRequest) { pr.ConsolidatedInID = &other })

	_, err := svc.Create(context.Background(), procurementStaff(), pr.ID, dto.CreateRFQRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "consolidated")
}

func TestCreateRFQ_RequiresProcurementCapability(t *testing.T) {
	svc, _, prRepo, _ := buildRFQSvc()
	pr := seedPR(prRepo, nil)

	_, err := svc.Create(context.Background(), requisitioner(), pr.ID, dto.CreateRFQRequest{})
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestConsolidate_DerivesNumberAndLinksPRs(t *testing.T) {
	svc, rfqRepo, prRepo, logRepo := buildRFQSvc()
	ctx := context.Background()

	a := seedPR(prRepo, func(pr *model.PurchaseRequest) { pr.PRNumber = ptr("10-0001-25 Motorpool") })
	b := seedPR(prRepo, func(pr *model.PurchaseRequest) { pr.PRNumber = ptr("10-0002-25 Clinic") })

	resp, err := svc.Consolidate(ctx, procurementStaff(), dto.ConsolidateRequest{
		PRIDs:   []string{a.ID.String(), b.ID.String()},
		Remarks: "same supplier category",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.RFQNumber)
	assert.Equal(t, "RFQ-10-0001-25 Motorpool", *resp.RFQNumber, "number derives from the first selected PR")
	assert.True(t, resp.Consolidated)

	rfqID := uuid.MustParse(resp.ID)
	require.NotNil(t, prRepo.prs[a.ID].ConsolidatedInID)
	assert.Equal(t, rfqID, *prRepo.prs[a.ID].ConsolidatedInID)
	require.NotNil(t, prRepo.prs[b.ID].ConsolidatedInID)
	assert.Equal(t, rfqID, *prRepo.prs[b.ID].ConsolidatedInID)

	require.Len(t, rfqRepo.logs, 1)
	assert.Contains(t, rfqRepo.logs[0].PRNumbers, "10-0001-25 Motorpool")
	assert.Contains(t, rfqRepo.logs[0].PRNumbers, "10-0002-25 Clinic")

	require.Len(t, logRepo.entries, 1)
	assert.Equal(t, model.ActionConsolidate, logRepo.entries[0].Action)
}

func TestConsolidate_FirstPRNeedsNumber(t *testing.T) {
	svc, _, prRepo, _ := buildRFQSvc()

	unnumbered := seedPR(prRepo, nil)
	numbered := seedPR(prRepo, func(pr *model.PurchaseRequest) { pr.PRNumber = ptr("10-0003-25 Library") })

	_, err := svc.Consolidate(context.Background(), procurementStaff(), dto.ConsolidateRequest{
		PRIDs: []string{unnumbered.ID.String(), numbered.ID.String()},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no PR number")
}

func TestConsolidate_DuplicateNumberFails(t *testing.T) {
	svc, _, prRepo, _ := buildRFQSvc()
	ctx := context.Background()

	a := seedPR(prRepo, func(pr *model.PurchaseRequest) { pr.PRNumber = ptr("10-0009-25 Registrar") })
	b := seedPR(prRepo, func(pr *model.PurchaseRequest) { pr.PRNumber = ptr("10-0010-25 Registrar") })

	_, err := svc.Consolidate(ctx, procurementStaff(), dto.ConsolidateRequest{PRIDs: []string{a.ID.String(), b.ID.String()}})
	require.NoError(t, err)

	// Re-running the same consolidation derives the same RFQ number.
	c := seedPR(prRepo, func(pr *model.PurchaseRequest) { pr.PRNumber = ptr("10-0009-25 Registrar") })
	_, err = svc.Consolidate(ctx, procurementStaff(), dto.ConsolidateRequest{PRIDs: []string{c.ID.String()}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
