package repository

import (
	"context"

	"github.com/nexorasoft/veterinaria-innobov-server-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MovementRepository is append-only by construction: no Update or Delete
// method exists, so ledger immutability is a compile-time guarantee.
type MovementRepository interface {
	Create(ctx context.Context, m *model.Movement) error
	ListByShift(ctx context.Context, shiftID uuid.UUID, page, limit int) ([]model.Movement, int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Movement, int64, error)
	// SumByType returns the INGRESO and EGRESO totals for a shift as positive
	// magnitudes. This aggregation is the one place raw SQL arithmetic is
	// trusted to be exact.
	SumByType(ctx context.Context, shiftID uuid.UUID) (ingresos, egresos decimal.Decimal, err error)
	CountByShift(ctx context.Context, shiftID uuid.UUID) (int64, error)
}

type movementRepo struct{ db *gorm.DB }

func NewMovementRepository(db *gorm.DB) MovementRepository { return &movementRepo{db: db} }

func (r *movementRepo) Create(ctx context.Context, m *model.Movement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *movementRepo) ListByShift(ctx context.Context, shiftID uuid.UUID, page, limit int) ([]model.Movement, int64, error) {
	return r.list(ctx, "shift_id = ?", shiftID, page, limit)
}

func (r *movementRepo) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Movement, int64, error) {
	return r.list(ctx, "user_id = ?", userID, page, limit)
}

func (r *movementRepo) list(ctx context.Context, cond string, arg uuid.UUID, page, limit int) ([]model.Movement, int64, error) {
	var movs []model.Movement
	var total int64
	q := r.db.WithContext(ctx).Model(&model.Movement{}).Where(cond, arg)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&movs).Error
	return movs, total, err
}

func (r *movementRepo) SumByType(ctx context.Context, shiftID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	rows, err := r.db.WithContext(ctx).
		Model(&model.Movement{}).
		Select("type, COALESCE(SUM(amount), 0) AS total").
		Where("shift_id = ?", shiftID).
		Group("type").
		Rows()
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	defer rows.Close()

	ingresos, egresos := decimal.Zero, decimal.Zero
	for rows.Next() {
		var t string
		var total decimal.Decimal
		if err := rows.Scan(&t, &total); err != nil {
			return decimal.Zero, decimal.Zero, err
		}
		switch model.MovementType(t) {
		case model.MovementIngreso:
			ingresos = total
		case model.MovementEgreso:
			egresos = total
		}
	}
	return ingresos, egresos, rows.Err()
}

func (r *movementRepo) CountByShift(ctx context.Context, shiftID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Movement{}).
		Where("shift_id = ?", shiftID).
		Count(&count).Error
	return count, err
}
