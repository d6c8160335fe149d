package service

import (
	"context"
	"errors"
	"time"

	"github.com/nexorasoft/veterinaria-innobov-server-sub001/internal/apierror"
	"github.com/nexorasoft/veterinaria-innobov-server-sub001/internal/dto"
	"github.com/nexorasoft/veterinaria-innobov-server-sub001/internal/model"
	"github.com/nexorasoft/veterinaria-innobov-server-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ShiftNotification is the payload handed to the notifier after a shift
// opens. Dispatch happens after the transaction commits and is best-effort:
// the notifier must never fail the open.
type ShiftNotification struct {
	ShiftID          string
	CashRegisterID   string
	CashRegisterName string
	Operator         string
	StartAmount      decimal.Decimal
	OpenedAt         time.Time
}

// Notifier delivers out-of-band notifications. Implementations log their own
// failures; callers fire and forget.
type Notifier interface {
	ShiftOpened(ctx context.Context, n ShiftNotification)
}

type CashService interface {
	CreateRegister(ctx context.Context, req dto.CreateRegisterRequest) (*dto.RegisterResponse, error)
	OpenShift(ctx context.Context, userID uuid.UUID, req dto.ShiftRequest) (*dto.ShiftResponse, error)
	CloseShift(ctx context.Context, req dto.ShiftRequest) (*dto.ShiftResponse, error)
	OpenShiftsByUser(ctx context.Context, userID uuid.UUID) ([]dto.ShiftResponse, error)
	CurrentShiftHeader(ctx context.Context, userID uuid.UUID) (*dto.ShiftHeaderResponse, error)
	CurrentShiftKPIs(ctx context.Context, userID uuid.UUID) (*dto.ShiftKPIsResponse, error)
	AvailableRegisters(ctx context.Context) ([]dto.RegisterResponse, error)
	ShiftHistory(ctx context.Context, page, limit int) (*dto.ShiftPageResponse, error)
}

type cashService struct {
	repo     repository.CashRepository
	movs     repository.MovementRepository
	users    repository.UsuarioRepository
	notifier Notifier
}

func NewCashService(repo repository.CashRepository, movs repository.MovementRepository,
	users repository.UsuarioRepository, notifier Notifier) CashService {
	return &cashService{repo: repo, movs: movs, users: users, notifier: notifier}
}

// ── Registry ─────────────────────────────────────────────────────────────────

func (s *cashService) CreateRegister(ctx context.Context, req dto.CreateRegisterRequest) (*dto.RegisterResponse, error) {
	status := model.StatusCerrada
	if req.Status != "" {
		status = model.Status(req.Status)
		if !status.Valid() {
			return nil, apierror.Validation("status inválido: debe ser ABIERTA o CERRADA")
		}
	}
	reg := &model.CashRegister{ID: uuid.New(), Name: req.Name, Status: status}
	if err := s.repo.CreateRegister(ctx, reg); err != nil {
		log.Error().Err(err).Str("name", req.Name).Msg("create register failed")
		return nil, apierror.Internal()
	}
	resp := toRegisterResponse(reg)
	return &resp, nil
}

func (s *cashService) AvailableRegisters(ctx context.Context) ([]dto.RegisterResponse, error) {
	regs, err := s.repo.ListAvailableRegisters(ctx)
	if err != nil {
		log.Error().Err(err).Msg("list available registers failed")
		return nil, apierror.Internal()
	}
	out := make([]dto.RegisterResponse, 0, len(regs))
	for i := range regs {
		out = append(out, toRegisterResponse(&regs[i]))
	}
	return out, nil
}

// ── Shift lifecycle ──────────────────────────────────────────────────────────

func (s *cashService) OpenShift(ctx context.Context, userID uuid.UUID, req dto.ShiftRequest) (*dto.ShiftResponse, error) {
	registerID, err := uuid.Parse(req.CashRegisterID)
	if err != nil {
		return nil, apierror.Validation("cash_register_id es requerido")
	}
	if req.StartAmount == nil {
		return nil, apierror.Validation("start_amount es requerido")
	}
	if req.StartAmount.IsNegative() {
		return nil, apierror.Validation("start_amount no puede ser negativo")
	}

	// One open shift per operator, globally.
	open, err := s.repo.FindOpenShiftsByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("open shifts lookup failed")
		return nil, apierror.Internal()
	}
	if len(open) > 0 {
		return nil, apierror.Conflict("El usuario ya tiene un turno abierto")
	}

	shift := &model.Shift{
		ID:             uuid.New(),
		CashRegisterID: registerID,
		UserID:         userID,
		Status:         model.StatusAbierta,
		StartTime:      time.Now().UTC(),
		StartAmount:    *req.StartAmount,
		Notes:          req.Notes,
	}
	if err := s.repo.OpenShift(ctx, shift); err != nil {
		switch {
		case errors.Is(err, repository.ErrRegisterNotFound):
			return nil, apierror.NotFound("La caja no existe")
		case errors.Is(err, repository.ErrRegisterBusy):
			return nil, apierror.Conflict("Ya existe un turno abierto en esta caja")
		default:
			log.Error().Err(err).
				Str("cash_register_id", registerID.String()).
				Str("user_id", userID.String()).
				Msg("open shift failed")
			return nil, apierror.Internal()
		}
	}

	// Post-commit, fire-and-forget. A notification failure never converts a
	// successful open into an error.
	if s.notifier != nil {
		name := registerID.String()
		if reg, err := s.repo.FindRegisterByID(ctx, registerID); err == nil {
			name = reg.Name
		}
		operator := userID.String()
		if u, err := s.users.FindByID(ctx, userID); err == nil {
			operator = u.Nombre
		}
		s.notifier.ShiftOpened(ctx, ShiftNotification{
			ShiftID:          shift.ID.String(),
			CashRegisterID:   registerID.String(),
			CashRegisterName: name,
			Operator:         operator,
			StartAmount:      shift.StartAmount,
			OpenedAt:         shift.StartTime,
		})
	}

	resp := toShiftResponse(shift)
	return &resp, nil
}

func (s *cashService) CloseShift(ctx context.Context, req dto.ShiftRequest) (*dto.ShiftResponse, error) {
	shiftID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, apierror.Validation("id de turno es requerido")
	}
	if req.ExpectedAmount == nil || req.ActualAmount == nil {
		return nil, apierror.Validation("expected_amount y actual_amount son requeridos")
	}

	// difference is computed exactly once, here, and never recomputed.
	closed, err := s.repo.CloseShift(ctx, shiftID, repository.ShiftClose{
		EndTime:        time.Now().UTC(),
		ExpectedAmount: *req.ExpectedAmount,
		ActualAmount:   *req.ActualAmount,
		Difference:     req.ActualAmount.Sub(*req.ExpectedAmount),
		Notes:          req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrShiftNotFound):
			return nil, apierror.NotFound("El turno no existe")
		case errors.Is(err, repository.ErrShiftClosed):
			return nil, apierror.Conflict("El turno ya está cerrado")
		default:
			log.Error().Err(err).Str("shift_id", shiftID.String()).Msg("close shift failed")
			return nil, apierror.Internal()
		}
	}

	resp := toShiftResponse(closed)
	return &resp, nil
}

// ── Query facade ─────────────────────────────────────────────────────────────

func (s *cashService) OpenShiftsByUser(ctx context.Context, userID uuid.UUID) ([]dto.ShiftResponse, error) {
	shifts, err := s.repo.FindOpenShiftsByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("open shifts lookup failed")
		return nil, apierror.Internal()
	}
	out := make([]dto.ShiftResponse, 0, len(shifts))
	for i := range shifts {
		out = append(out, toShiftResponse(&shifts[i]))
	}
	return out, nil
}

// CurrentShiftHeader returns nil (not an error) when the user has no open
// shift — "no data" is an explicit none result on the read path.
func (s *cashService) CurrentShiftHeader(ctx context.Context, userID uuid.UUID) (*dto.ShiftHeaderResponse, error) {
	shift, err := s.currentShift(ctx, userID)
	if err != nil || shift == nil {
		return nil, err
	}

	name := shift.CashRegisterID.String()
	if reg, err := s.repo.FindRegisterByID(ctx, shift.CashRegisterID); err == nil {
		name = reg.Name
	}
	operator := userID.String()
	if u, err := s.users.FindByID(ctx, userID); err == nil {
		operator = u.Nombre
	}

	return &dto.ShiftHeaderResponse{
		ShiftID:          shift.ID.String(),
		CashRegisterID:   shift.CashRegisterID.String(),
		CashRegisterName: name,
		Operator:         operator,
		Status:           string(shift.Status),
		StartTime:        shift.StartTime.Format(time.RFC3339),
		StartAmount:      shift.StartAmount,
	}, nil
}

func (s *cashService) CurrentShiftKPIs(ctx context.Context, userID uuid.UUID) (*dto.ShiftKPIsResponse, error) {
	shift, err := s.currentShift(ctx, userID)
	if err != nil || shift == nil {
		return nil, err
	}

	ingresos, egresos, err := s.movs.SumByType(ctx, shift.ID)
	if err != nil {
		log.Error().Err(err).Str("shift_id", shift.ID.String()).Msg("movement sums failed")
		return nil, apierror.Internal()
	}
	count, err := s.movs.CountByShift(ctx, shift.ID)
	if err != nil {
		log.Error().Err(err).Str("shift_id", shift.ID.String()).Msg("movement count failed")
		return nil, apierror.Internal()
	}

	return &dto.ShiftKPIsResponse{
		ShiftID:        shift.ID.String(),
		StartAmount:    shift.StartAmount,
		TotalIngresos:  ingresos,
		TotalEgresos:   egresos,
		ExpectedAmount: shift.StartAmount.Add(ingresos).Sub(egresos),
		MovementCount:  count,
		OpenMinutes:    int64(time.Since(shift.StartTime).Minutes()),
	}, nil
}

func (s *cashService) ShiftHistory(ctx context.Context, page, limit int) (*dto.ShiftPageResponse, error) {
	page, limit = ClampPagination(page, limit)
	shifts, total, err := s.repo.ListClosedShifts(ctx, page, limit)
	if err != nil {
		log.Error().Err(err).Msg("shift history failed")
		return nil, apierror.Internal()
	}
	items := make([]dto.ShiftResponse, 0, len(shifts))
	for i := range shifts {
		items = append(items, toShiftResponse(&shifts[i]))
	}
	return &dto.ShiftPageResponse{Items: items, Page: page, Limit: limit, Total: total}, nil
}

// currentShift resolves the user's open shift, or nil when there is none.
func (s *cashService) currentShift(ctx context.Context, userID uuid.UUID) (*model.Shift, error) {
	shifts, err := s.repo.FindOpenShiftsByUser(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("current shift lookup failed")
		return nil, apierror.Internal()
	}
	if len(shifts) == 0 {
		return nil, nil
	}
	return &shifts[0], nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

// ClampPagination normalizes page/limit: page ≥ 1, limit within [1,100].
// Out-of-range values are clamped, not rejected.
func ClampPagination(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func toRegisterResponse(r *model.CashRegister) dto.RegisterResponse {
	return dto.RegisterResponse{ID: r.ID.String(), Name: r.Name, Status: string(r.Status)}
}

func toShiftResponse(s *model.Shift) dto.ShiftResponse {
	resp := dto.ShiftResponse{
		ID:             s.ID.String(),
		CashRegisterID: s.CashRegisterID.String(),
		UserID:         s.UserID.String(),
		Status:         string(s.Status),
		StartTime:      s.StartTime.Format(time.RFC3339),
		StartAmount:    s.StartAmount,
		ExpectedAmount: s.ExpectedAmount,
		ActualAmount:   s.ActualAmount,
		Difference:     s.Difference,
		Notes:          s.Notes,
	}
	if s.EndTime != nil {
		t := s.EndTime.Format(time.RFC3339)
		resp.EndTime = &t
	}
	return resp
}
