package service_test

// In-memory fakes for the repository interfaces. They reproduce the
// conditional-write semantics of the real Postgres implementations (sentinel
// errors included) so the services can be exercised without a database.

import (
	"context"
	"time"

	"github.com/nexorasoft/veterinaria-innobov-server-sub001/internal/model"
	"github.com/nexorasoft/veterinaria-innobov-server-sub001/internal/repository"
	"github.com/nexorasoft/veterinaria-innobov-server-sub001/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Fake CashRepository ──────────────────────────────────────────────────────

type fakeCashRepo struct {
	registers map[uuid.UUID]*model.CashRegister
	shifts    map[uuid.UUID]*model.Shift
}

func newFakeCashRepo() *fakeCashRepo {
	return &fakeCashRepo{
		registers: make(map[uuid.UUID]*model.CashRegister),
		shifts:    make(map[uuid.UUID]*model.Shift),
	}
}

func (r *fakeCashRepo) addRegister(name string, status model.Status) *model.CashRegister {
	reg := &model.CashRegister{ID: uuid.New(), Name: name, Status: status}
	r.registers[reg.ID] = reg
	return reg
}

func (r *fakeCashRepo) CreateRegister(_ context.Context, reg *model.CashRegister) error {
	if reg.ID == uuid.Nil {
		reg.ID = uuid.New()
	}
	r.registers[reg.ID] = reg
	return nil
}

func (r *fakeCashRepo) FindRegisterByID(_ context.Context, id uuid.UUID) (*model.CashRegister, error) {
	reg, ok := r.registers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return reg, nil
}

func (r *fakeCashRepo) ListAvailableRegisters(_ context.Context) ([]model.CashRegister, error) {
	var out []model.CashRegister
	for _, reg := range r.registers {
		if reg.Status == model.StatusCerrada {
			out = append(out, *reg)
		}
	}
	return out, nil
}

func (r *fakeCashRepo) OpenShift(_ context.Context, s *model.Shift) error {
	reg, ok := r.registers[s.CashRegisterID]
	if !ok {
		return repository.ErrRegisterNotFound
	}
	if reg.Status != model.StatusCerrada {
		return repository.ErrRegisterBusy
	}
	reg.Status = model.StatusAbierta
	r.shifts[s.ID] = s
	return nil
}

func (r *fakeCashRepo) CloseShift(_ context.Context, shiftID uuid.UUID, close repository.ShiftClose) (*model.Shift, error) {
	s, ok := r.shifts[shiftID]
	if !ok {
		return nil, repository.ErrShiftNotFound
	}
	if s.Status != model.StatusAbierta {
		return nil, repository.ErrShiftClosed
	}
	end := close.EndTime
	expected, actual, diff := close.ExpectedAmount, close.ActualAmount, close.Difference
	s.Status = model.StatusCerrada
	s.EndTime = &end
	s.ExpectedAmount = &expected
	s.ActualAmount = &actual
	s.Difference = &diff
	s.Notes = close.Notes
	if reg, ok := r.registers[s.CashRegisterID]; ok {
		reg.Status = model.StatusCerrada
	}
	return s, nil
}

func (r *fakeCashRepo) FindShiftByID(_ context.Context, id uuid.UUID) (*model.Shift, error) {
	s, ok := r.shifts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *fakeCashRepo) FindOpenShiftByRegister(_ context.Context, registerID uuid.UUID) (*model.Shift, error) {
	for _, s := range r.shifts {
		if s.CashRegisterID == registerID && s.Status == model.StatusAbierta {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCashRepo) FindOpenShiftsByUser(_ context.Context, userID uuid.UUID) ([]model.Shift, error) {
	var out []model.Shift
	for _, s := range r.shifts {
		if s.UserID == userID && s.Status == model.StatusAbierta {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeCashRepo) ListClosedShifts(_ context.Context, page, limit int) ([]model.Shift, int64, error) {
	var all []model.Shift
	for _, s := range r.shifts {
		if s.Status == model.StatusCerrada {
			all = append(all, *s)
		}
	}
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

var _ repository.CashRepository = (*fakeCashRepo)(nil)

// ── Fake MovementRepository ──────────────────────────────────────────────────

type fakeMovementRepo struct {
	movements []model.Movement
}

func (r *fakeMovementRepo) add(shiftID, userID uuid.UUID, t model.MovementType, amount string) {
	r.movements = append(r.movements, model.Movement{
		ID: uuid.New(), ShiftID: shiftID, UserID: userID,
		Type: t, Category: model.CategoryOtro,
		Amount: decimal.RequireFromString(amount), CreatedAt: time.Now(),
	})
}

func (r *fakeMovementRepo) Create(_ context.Context, m *model.Movement) error {
	m.CreatedAt = time.Now()
	r.movements = append(r.movements, *m)
	return nil
}

func (r *fakeMovementRepo) ListByShift(_ context.Context, shiftID uuid.UUID, page, limit int) ([]model.Movement, int64, error) {
	var all []model.Movement
	for _, m := range r.movements {
		if m.ShiftID == shiftID {
			all = append(all, m)
		}
	}
	return pageOf(all, page, limit)
}

func (r *fakeMovementRepo) ListByUser(_ context.Context, userID uuid.UUID, page, limit int) ([]model.Movement, int64, error) {
	var all []model.Movement
	for _, m := range r.movements {
		if m.UserID == userID {
			all = append(all, m)
		}
	}
	return pageOf(all, page, limit)
}

func pageOf(all []model.Movement, page, limit int) ([]model.Movement, int64, error) {
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *fakeMovementRepo) SumByType(_ context.Context, shiftID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	ingresos, egresos := decimal.Zero, decimal.Zero
	for _, m := range r.movements {
		if m.ShiftID != shiftID {
			continue
		}
		switch m.Type {
		case model.MovementIngreso:
			ingresos = ingresos.Add(m.Amount)
		case model.MovementEgreso:
			egresos = egresos.Add(m.Amount)
		}
	}
	return ingresos, egresos, nil
}

func (r *fakeMovementRepo) CountByShift(_ context.Context, shiftID uuid.UUID) (int64, error) {
	var count int64
	for _, m := range r.movements {
		if m.ShiftID == shiftID {
			count++
		}
	}
	return count, nil
}

var _ repository.MovementRepository = (*fakeMovementRepo)(nil)

// ── Fake UsuarioRepository ───────────────────────────────────────────────────

type fakeUsuarioRepo struct {
	users map[uuid.UUID]*model.Usuario
}

func newFakeUsuarioRepo() *fakeUsuarioRepo {
	return &fakeUsuarioRepo{users: make(map[uuid.UUID]*model.Usuario)}
}

func (r *fakeUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.users {
		if u.Username == username && u.Activo {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

var _ repository.UsuarioRepository = (*fakeUsuarioRepo)(nil)

// ── Fake Notifier ────────────────────────────────────────────────────────────

type fakeNotifier struct {
	sent []service.ShiftNotification
}

func (n *fakeNotifier) ShiftOpened(_ context.Context, notif service.ShiftNotification) {
	n.sent = append(n.sent, notif)
}
