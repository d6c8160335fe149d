package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nexorasoft/veterinaria-innobov-server-sub001/internal/apierror"
	"github.com/nexorasoft/veterinaria-innobov-server-sub001/internal/dto"
	"github.com/nexorasoft/veterinaria-innobov-server-sub001/internal/model"
	"github.com/nexorasoft/veterinaria-innobov-server-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// LedgerService appends immutable movements to the cash ledger and serves
// paginated reads. Corrections are offsetting movements — no edit, no delete.
type LedgerService interface {
	RecordMovement(ctx context.Context, userID uuid.UUID, req dto.MovementRequest) (*dto.MovementResponse, error)
	ListMovements(ctx context.Context, userID uuid.UUID, page, limit int) (*dto.MovementPageResponse, error)
	CurrentShiftMovements(ctx context.Context, userID uuid.UUID, page, limit int) (*dto.MovementPageResponse, error)
}

type ledgerService struct {
	movs repository.MovementRepository
	cash repository.CashRepository
}

func NewLedgerService(movs repository.MovementRepository, cash repository.CashRepository) LedgerService {
	return &ledgerService{movs: movs, cash: cash}
}

func (s *ledgerService) RecordMovement(ctx context.Context, userID uuid.UUID, req dto.MovementRequest) (*dto.MovementResponse, error) {
	movType := model.MovementType(req.Type)
	if !movType.Valid() {
		return nil, apierror.Validation("type inválido: debe ser INGRESO o EGRESO")
	}
	category := model.MovementCategory(req.Category)
	if !category.Valid() {
		return nil, apierror.Validation("category inválida")
	}
	if !req.Amount.IsPositive() {
		return nil, apierror.Validation("amount debe ser mayor a cero")
	}

	// The movement is bound to the caller's currently open shift at write
	// time, so reconciliation never has to infer a time window.
	shifts, err := s.cash.FindOpenShiftsByUser(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("open shift lookup failed")
		return nil, apierror.Internal()
	}
	if len(shifts) == 0 {
		return nil, apierror.NotFound("No hay un turno abierto para el usuario")
	}
	shift := shifts[0]

	mov := &model.Movement{
		ID:       uuid.New(),
		ShiftID:  shift.ID,
		UserID:   userID,
		Type:     movType,
		Category: category,
		Amount:   req.Amount,
		Notes:    req.Notes,
	}
	mov.Concept = fmt.Sprintf("%s - %s - %s", mov.Type, mov.Category, mov.ID)

	if err := s.movs.Create(ctx, mov); err != nil {
		log.Error().Err(err).
			Str("shift_id", shift.ID.String()).
			Str("user_id", userID.String()).
			Msg("create movement failed")
		return nil, apierror.Internal()
	}

	resp := toMovementResponse(mov)
	return &resp, nil
}

func (s *ledgerService) ListMovements(ctx context.Context, userID uuid.UUID, page, limit int) (*dto.MovementPageResponse, error) {
	page, limit = ClampPagination(page, limit)
	movs, total, err := s.movs.ListByUser(ctx, userID, page, limit)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("list movements failed")
		return nil, apierror.Internal()
	}
	return toMovementPage(movs, page, limit, total), nil
}

// CurrentShiftMovements returns an empty page (not an error) when the user
// has no open shift.
func (s *ledgerService) CurrentShiftMovements(ctx context.Context, userID uuid.UUID, page, limit int) (*dto.MovementPageResponse, error) {
	page, limit = ClampPagination(page, limit)

	shifts, err := s.cash.FindOpenShiftsByUser(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("open shift lookup failed")
		return nil, apierror.Internal()
	}
	if len(shifts) == 0 {
		return &dto.MovementPageResponse{Items: []dto.MovementResponse{}, Page: page, Limit: limit}, nil
	}

	movs, total, err := s.movs.ListByShift(ctx, shifts[0].ID, page, limit)
	if err != nil {
		log.Error().Err(err).Str("shift_id", shifts[0].ID.String()).Msg("list shift movements failed")
		return nil, apierror.Internal()
	}
	return toMovementPage(movs, page, limit, total), nil
}

func toMovementResponse(m *model.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:        m.ID.String(),
		ShiftID:   m.ShiftID.String(),
		Type:      string(m.Type),
		Category:  string(m.Category),
		Amount:    m.Amount,
		Concept:   m.Concept,
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
}

func toMovementPage(movs []model.Movement, page, limit int, total int64) *dto.MovementPageResponse {
	items := make([]dto.MovementResponse, 0, len(movs))
	for i := range movs {
		items = append(items, toMovementResponse(&movs[i]))
	}
	return &dto.MovementPageResponse{Items: items, Page: page, Limit: limit, Total: total}
}
