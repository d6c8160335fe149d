package service

import (
	"context"
	"errors"

	"github.com/nexorasoft/veterinaria-innobov-server-sub001/internal/apierror"
	"github.com/nexorasoft/veterinaria-innobov-server-sub001/internal/dto"
	"github.com/nexorasoft/veterinaria-innobov-server-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ReconciliationService answers "what should be in the drawer right now".
// It is the authority on expected_amount: callers closing a shift are
// expected to fetch a fresh value here immediately before the close, so the
// close transition stays a pure recording step.
type ReconciliationService interface {
	ExpectedAmount(ctx context.Context, registerID uuid.UUID) (*dto.ExpectedAmountResponse, error)
}

type reconciliationService struct {
	cash repository.CashRepository
	movs repository.MovementRepository
}

func NewReconciliationService(cash repository.CashRepository, movs repository.MovementRepository) ReconciliationService {
	return &reconciliationService{cash: cash, movs: movs}
}

// ExpectedAmount computes start_amount + Σ INGRESO − Σ EGRESO over the open
// shift's movements. A pure read: repeated calls while the shift stays open
// reproduce the same result for the same ledger state.
func (s *reconciliationService) ExpectedAmount(ctx context.Context, registerID uuid.UUID) (*dto.ExpectedAmountResponse, error) {
	shift, err := s.cash.FindOpenShiftByRegister(ctx, registerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("No hay un turno abierto en esta caja")
		}
		log.Error().Err(err).Str("cash_register_id", registerID.String()).Msg("open shift lookup failed")
		return nil, apierror.Internal()
	}

	ingresos, egresos, err := s.movs.SumByType(ctx, shift.ID)
	if err != nil {
		log.Error().Err(err).Str("shift_id", shift.ID.String()).Msg("movement sums failed")
		return nil, apierror.Internal()
	}

	return &dto.ExpectedAmountResponse{
		CashRegisterID: registerID.String(),
		ShiftID:        shift.ID.String(),
		StartAmount:    shift.StartAmount,
		TotalIngresos:  ingresos,
		TotalEgresos:   egresos,
		ExpectedAmount: shift.StartAmount.Add(ingresos).Sub(egresos),
	}, nil
}
