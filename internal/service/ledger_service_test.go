package service_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/nexorasoft/veterinaria-innobov-server-sub001/internal/apierror"
	"github.com/nexorasoft/veterinaria-innobov-server-sub001/internal/dto"
	"github.com/nexorasoft/veterinaria-innobov-server-sub001/internal/model"
	"github.com/nexorasoft/veterinaria-innobov-server-sub001/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLedgerFixture() (*fakeCashRepo, *fakeMovementRepo, service.LedgerService) {
	cashRepo := newFakeCashRepo()
	movRepo := &fakeMovementRepo{}
	return cashRepo, movRepo, service.NewLedgerService(movRepo, cashRepo)
}

// seedOpenShift inserts an open shift directly, bypassing the service.
func seedOpenShift(r *fakeCashRepo, userID uuid.UUID) *model.Shift {
	reg := r.addRegister("Caja", model.StatusAbierta)
	s := &model.Shift{
		ID:             uuid.New(),
		CashRegisterID: reg.ID,
		UserID:         userID,
		Status:         model.StatusAbierta,
		StartTime:      time.Now(),
		StartAmount:    decimal.RequireFromString("100.00"),
	}
	r.shifts[s.ID] = s
	return s
}

func TestRecordMovement(t *testing.T) {
	cashRepo, movRepo, svc := newLedgerFixture()
	userID := uuid.New()
	shift := seedOpenShift(cashRepo, userID)

	resp, err := svc.RecordMovement(context.Background(), userID, dto.MovementRequest{
		Type:     "INGRESO",
		Category: "PAGO_SERVICIO",
		Amount:   decimal.RequireFromString("50.00"),
	})
	require.NoError(t, err)

	// Bound to the caller's open shift at write time
	assert.Equal(t, shift.ID.String(), resp.ShiftID)
	assert.Equal(t, "INGRESO", resp.Type)
	assert.Equal(t, "50", resp.Amount.String())

	// Concept embeds type, category and id for traceability
	assert.Equal(t, fmt.Sprintf("INGRESO - PAGO_SERVICIO - %s", resp.ID), resp.Concept)

	require.Len(t, movRepo.movements, 1)
}

func TestRecordMovementEgresoStoredPositive(t *testing.T) {
	cashRepo, movRepo, svc := newLedgerFixture()
	userID := uuid.New()
	seedOpenShift(cashRepo, userID)

	resp, err := svc.RecordMovement(context.Background(), userID, dto.MovementRequest{
		Type:     "EGRESO",
		Category: "GASTO_OPERATIVO",
		Amount:   decimal.RequireFromString("30.00"),
	})
	require.NoError(t, err)

	// The sign lives in Type; Amount is always a positive magnitude
	assert.Equal(t, "EGRESO", resp.Type)
	assert.True(t, resp.Amount.IsPositive())
	assert.True(t, movRepo.movements[0].Amount.IsPositive())
}

func TestRecordMovementNoOpenShift(t *testing.T) {
	_, _, svc := newLedgerFixture()

	_, err := svc.RecordMovement(context.Background(), uuid.New(), dto.MovementRequest{
		Type:     "INGRESO",
		Category: "OTRO",
		Amount:   decimal.RequireFromString("10.00"),
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apierror.From(err).Code)
	assert.ErrorContains(t, err, "No hay un turno abierto para el usuario")
}

func TestRecordMovementInvalidCategory(t *testing.T) {
	cashRepo, _, svc := newLedgerFixture()
	userID := uuid.New()
	seedOpenShift(cashRepo, userID)

	_, err := svc.RecordMovement(context.Background(), userID, dto.MovementRequest{
		Type:     "INGRESO",
		Category: "PROPINA",
		Amount:   decimal.RequireFromString("10.00"),
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apierror.From(err).Code)
}

func TestRecordMovementZeroAmount(t *testing.T) {
	cashRepo, _, svc := newLedgerFixture()
	userID := uuid.New()
	seedOpenShift(cashRepo, userID)

	_, err := svc.RecordMovement(context.Background(), userID, dto.MovementRequest{
		Type:     "EGRESO",
		Category: "OTRO",
		Amount:   decimal.Zero,
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apierror.From(err).Code)
	assert.ErrorContains(t, err, "amount debe ser mayor a cero")
}

func TestCurrentShiftMovementsWithoutShift(t *testing.T) {
	_, _, svc := newLedgerFixture()

	page, err := svc.CurrentShiftMovements(context.Background(), uuid.New(), 1, 20)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, int64(0), page.Total)
}

func TestListMovementsClampsPagination(t *testing.T) {
	cashRepo, movRepo, svc := newLedgerFixture()
	userID := uuid.New()
	shift := seedOpenShift(cashRepo, userID)
	for i := 0; i < 3; i++ {
		movRepo.add(shift.ID, userID, model.MovementIngreso, "10.00")
	}

	page, err := svc.ListMovements(context.Background(), userID, 0, 500)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 100, page.Limit)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Items, 3)
}
