package repository

import (
	"context"
	"errors"
	"time"

	"github.com/nexorasoft/veterinaria-innobov-server-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sentinel errors for the conditional state transitions. The service layer
// maps them onto the API error taxonomy.
var (
	ErrRegisterNotFound = errors.New("caja no encontrada")
	ErrRegisterBusy     = errors.New("la caja ya tiene un turno abierto")
	ErrShiftNotFound    = errors.New("turno no encontrado")
	ErrShiftClosed      = errors.New("el turno ya está cerrado")
)

// ShiftClose carries the four closing fields that must be persisted together.
type ShiftClose struct {
	EndTime        time.Time
	ExpectedAmount decimal.Decimal
	ActualAmount   decimal.Decimal
	Difference     decimal.Decimal
	Notes          *string
}

type CashRepository interface {
	CreateRegister(ctx context.Context, r *model.CashRegister) error
	FindRegisterByID(ctx context.Context, id uuid.UUID) (*model.CashRegister, error)
	ListAvailableRegisters(ctx context.Context) ([]model.CashRegister, error)

	// OpenShift atomically flips the register CERRADA→ABIERTA and inserts the
	// shift in one transaction. Returns ErrRegisterBusy when the register
	// already has an open shift, ErrRegisterNotFound when it does not exist.
	OpenShift(ctx context.Context, s *model.Shift) error
	// CloseShift atomically sets the closing fields and status CERRADA on a
	// shift that is still ABIERTA, and flips its register back to CERRADA.
	// Returns ErrShiftClosed when the shift was already closed,
	// ErrShiftNotFound when it does not exist.
	CloseShift(ctx context.Context, shiftID uuid.UUID, close ShiftClose) (*model.Shift, error)

	FindShiftByID(ctx context.Context, id uuid.UUID) (*model.Shift, error)
	FindOpenShiftByRegister(ctx context.Context, registerID uuid.UUID) (*model.Shift, error)
	FindOpenShiftsByUser(ctx context.Context, userID uuid.UUID) ([]model.Shift, error)
	ListClosedShifts(ctx context.Context, page, limit int) ([]model.Shift, int64, error)
}

type cashRepo struct{ db *gorm.DB }

func NewCashRepository(db *gorm.DB) CashRepository { return &cashRepo{db: db} }

func (r *cashRepo) CreateRegister(ctx context.Context, reg *model.CashRegister) error {
	return r.db.WithContext(ctx).Create(reg).Error
}

func (r *cashRepo) FindRegisterByID(ctx context.Context, id uuid.UUID) (*model.CashRegister, error) {
	var reg model.CashRegister
	err := r.db.WithContext(ctx).First(&reg, "id = ?", id).Error
	return &reg, err
}

func (r *cashRepo) ListAvailableRegisters(ctx context.Context) ([]model.CashRegister, error) {
	var regs []model.CashRegister
	err := r.db.WithContext(ctx).
		Where("status = ?", model.StatusCerrada).
		Order("name ASC").
		Find(&regs).Error
	return regs, err
}

func (r *cashRepo) OpenShift(ctx context.Context, s *model.Shift) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Conditional write: the status check and the flip are one statement,
		// so two concurrent opens cannot both observe CERRADA and proceed.
		res := tx.Model(&model.CashRegister{}).
			Where("id = ? AND status = ?", s.CashRegisterID, model.StatusCerrada).
			Update("status", model.StatusAbierta)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&model.CashRegister{}).
				Where("id = ?", s.CashRegisterID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrRegisterNotFound
			}
			return ErrRegisterBusy
		}
		return tx.Create(s).Error
	})
}

func (r *cashRepo) CloseShift(ctx context.Context, shiftID uuid.UUID, close ShiftClose) (*model.Shift, error) {
	var shift model.Shift
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Shift{}).
			Where("id = ? AND status = ?", shiftID, model.StatusAbierta).
			Updates(map[string]interface{}{
				"status":          model.StatusCerrada,
				"end_time":        close.EndTime,
				"expected_amount": close.ExpectedAmount,
				"actual_amount":   close.ActualAmount,
				"difference":      close.Difference,
				"notes":           close.Notes,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&model.Shift{}).
				Where("id = ?", shiftID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrShiftNotFound
			}
			return ErrShiftClosed
		}
		if err := tx.First(&shift, "id = ?", shiftID).Error; err != nil {
			return err
		}
		return tx.Model(&model.CashRegister{}).
			Where("id = ?", shift.CashRegisterID).
			Update("status", model.StatusCerrada).Error
	})
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *cashRepo) FindShiftByID(ctx context.Context, id uuid.UUID) (*model.Shift, error) {
	var s model.Shift
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	return &s, err
}

func (r *cashRepo) FindOpenShiftByRegister(ctx context.Context, registerID uuid.UUID) (*model.Shift, error) {
	var s model.Shift
	err := r.db.WithContext(ctx).
		Where("cash_register_id = ? AND status = ?", registerID, model.StatusAbierta).
		First(&s).Error
	return &s, err
}

func (r *cashRepo) FindOpenShiftsByUser(ctx context.Context, userID uuid.UUID) ([]model.Shift, error) {
	var shifts []model.Shift
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, model.StatusAbierta).
		Order("start_time DESC").
		Find(&shifts).Error
	return shifts, err
}

func (r *cashRepo) ListClosedShifts(ctx context.Context, page, limit int) ([]model.Shift, int64, error) {
	var shifts []model.Shift
	var total int64
	q := r.db.WithContext(ctx).Model(&model.Shift{}).Where("status = ?", model.StatusCerrada)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("end_time DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&shifts).Error
	return shifts, total, err
}
