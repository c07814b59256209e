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

func ptr(s string) *string { return &s }

func requisitioner() service.Actor {
	return service.Actor{ID: uuid.New(), Name: "Juan Dela Cruz", Role: model.RoleRequisitioner}
}

func procurementStaff() service.Actor {
	return service.Actor{ID: uuid.New(), Name: "Maria Santos", Role: model.RoleProcurement}
}

func buildPRSvc() (service.PRService, *stubPRRepo, *stubLogRepo) {
	prRepo := newStubPRRepo()
	logRepo := &stubLogRepo{}
	return service.NewPRService(prRepo, logRepo), prRepo, logRepo
}

func TestCreatePR_ComputesTotals(t *testing.T) {
	svc, _, logRepo := buildPRSvc()

	resp, err := svc.Create(context.Background(), requisitioner(), dto.SavePRRequest{
		Purpose: ptr("Office supplies for Q3"),
		Funding: ptr(model.FundingIGF),
		Items: []dto.PRItemRequest{
			{Description: "Bond paper A4", Quantity: 10, Unit: "ream", UnitCost: decimal.NewFromInt(250), BudgetCategory: model.BudgetMOOE},
			{Description: "Ballpen", Quantity: 50, Unit: "pc", UnitCost: decimal.NewFromFloat(12.50)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusDraft, resp.Status)
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(3125)), "10×250 + 50×12.50 = 3125, got %s", resp.TotalAmount)
	// Unspecified budget category defaults to MOOE.
	assert.True(t, resp.Breakdown[model.BudgetMOOE].Equal(decimal.NewFromInt(3125)))

	require.Len(t, logRepo.entries, 1)
	assert.Equal(t, model.ActionCreate, logRepo.entries[0].Action)
}

func TestCreatePR_ZeroValues(t *testing.T) {
	svc, _, _ := buildPRSvc()

	// Items with zero cost contribute zero to the total, not an error.
	resp, err := svc.Create(context.Background(), requisitioner(), dto.SavePRRequest{
		Items: []dto.PRItemRequest{
			{Description: "Donated chairs", Quantity: 5, Unit: "unit", UnitCost: decimal.Zero},
		},
	})
	require.NoError(t, err)
	assert.True(t, resp.TotalAmount.IsZero())
}

func TestCreatePR_RejectsUnknownUnit(t *testing.T) {
	svc, _, _ := buildPRSvc()

	_, err := svc.Create(context.Background(), requisitioner(), dto.SavePRRequest{
		Items: []dto.PRItemRequest{
			{Description: "Widget", Quantity: 1, Unit: "gaggle", UnitCost: decimal.NewFromInt(1)},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown unit of measure")
}

func TestCreatePR_RejectsUnknownMode(t *testing.T) {
	svc, _, _ := buildPRSvc()

	_, err := svc.Create(context.Background(), requisitioner(), dto.SavePRRequest{
		ModeOfProcurement: ptr("Barter"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode of procurement")
}

func TestAssignNumber_ValidatesFormat(t *testing.T) {
	svc, _, _ := buildPRSvc()
	created, err := svc.Create(context.Background(), requisitioner(), dto.SavePRRequest{})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	_, err = svc.AssignNumber(context.Background(), procurementStaff(), id, dto.AssignPRNumberRequest{
		PRNumber: "PR-2025-001",
	})
	require.Error(t, err, "number without the serial-office format must be rejected")

	resp, err := svc.AssignNumber(context.Background(), procurementStaff(), id, dto.AssignPRNumberRequest{
		PRNumber: "10-0042-25 Accounting Office",
		PRDate:   "2025-08-01",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.PRNumber)
	assert.Equal(t, "10-0042-25 Accounting Office", *resp.PRNumber)
}

func TestAssignNumber_DuplicateRejected(t *testing.T) {
	svc, _, _ := buildPRSvc()
	ctx := context.Background()

	first, err := svc.Create(ctx, requisitioner(), dto.SavePRRequest{})
	require.NoError(t, err)
	second, err := svc.Create(ctx, requisitioner(), dto.SavePRRequest{})
	require.NoError(t, err)

	_, err = svc.AssignNumber(ctx, procurementStaff(), uuid.MustParse(first.ID), dto.AssignPRNumberRequest{PRNumber: "10-0001-25 Motorpool"})
	require.NoError(t, err)

	_, err = svc.AssignNumber(ctx, procurementStaff(), uuid.MustParse(second.ID), dto.AssignPRNumberRequest{PRNumber: "10-0001-25 Motorpool"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already in use")
}

func TestAssignNumber_RequiresProcurementCapability(t *testing.T) {
	svc, _, _ := buildPRSvc()
	created, err := svc.Create(context.Background(), requisitioner(), dto.SavePRRequest{})
	require.NoError(t, err)

	_, err = svc.AssignNumber(context.Background(), requisitioner(), uuid.MustParse(created.ID), dto.AssignPRNumberRequest{
		PRNumber: "10-0042-25 Accounting Office",
	})
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestSubmitForVerification_OnlyOnce(t *testing.T) {
	svc, prRepo, _ := buildPRSvc()
	ctx := context.Background()
	actor := requisitioner()

	created, err := svc.Create(ctx, actor, dto.SavePRRequest{})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	resp, err := svc.SubmitForVerification(ctx, actor, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSubmitted, resp.Status)
	assert.Equal(t, model.StatusSubmitted, prRepo.prs[id].Status)

	_, err = svc.SubmitForVerification(ctx, actor, id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already been submitted")
}

func TestSubmitForVerification_ProcurementCannot(t *testing.T) {
	svc, _, _ := buildPRSvc()
	created, err := svc.Create(context.Background(), requisitioner(), dto.SavePRRequest{})
	require.NoError(t, err)

	_, err = svc.SubmitForVerification(context.Background(), procurementStaff(), uuid.MustParse(created.ID))
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestListPRs_FiltersByStatus(t *testing.T) {
	svc, _, _ := buildPRSvc()
	ctx := context.Background()
	actor := requisitioner()

	a, err := svc.Create(ctx, actor, dto.SavePRRequest{})
	require.NoError(t, err)
	_, err = svc.Create(ctx, actor, dto.SavePRRequest{})
	require.NoError(t, err)
	_, err = svc.SubmitForVerification(ctx, actor, uuid.MustParse(a.ID))
	require.NoError(t, err)

	list, err := svc.List(ctx, dto.PRFilter{Status: model.StatusSubmitted})
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, a.ID, list.Data[0].ID)
}
