package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType carries the sign of a movement; Amount is always a positive
// magnitude.
type MovementType string

const (
	MovementIngreso MovementType = "INGRESO"
	MovementEgreso  MovementType = "EGRESO"
)

func (t MovementType) Valid() bool {
	return t == MovementIngreso || t == MovementEgreso
}

// MovementCategory classifies manual cash movements.
type MovementCategory string

const (
	CategoryPagoServicio   MovementCategory = "PAGO_SERVICIO"
	CategoryPagoSalario    MovementCategory = "PAGO_SALARIO"
	CategoryGastoOperativo MovementCategory = "GASTO_OPERATIVO"
	CategoryOtro           MovementCategory = "OTRO"
)

func (c MovementCategory) Valid() bool {
	switch c {
	case CategoryPagoServicio, CategoryPagoSalario, CategoryGastoOperativo, CategoryOtro:
		return true
	}
	return false
}

// Movement is an immutable event in the cash ledger. Movements are NEVER
// modified or deleted — corrections are recorded as offsetting movements.
// ShiftID is set at write time from the caller's currently open shift, so
// reconciliation is a filtered sum with no time-window inference.
type Movement struct {
	ID       uuid.UUID        `gorm:"type:uuid;primaryKey"`
	ShiftID  uuid.UUID        `gorm:"type:uuid;not null;index"`
	UserID   uuid.UUID        `gorm:"type:uuid;not null;index"`
	Type     MovementType     `gorm:"type:varchar(10);not null"`
	Category MovementCategory `gorm:"type:varchar(20);not null"`
	Amount   decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	// Concept is generated at creation and embeds type, category and id for
	// traceability.
	Concept   string `gorm:"not null"`
	Notes     *string
	CreatedAt time.Time
}
