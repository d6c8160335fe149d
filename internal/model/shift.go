package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Shift is one operator's custody period over a register.
// Estado: ABIERTA → CERRADA, terminal. The four closing fields
// (EndTime, ExpectedAmount, ActualAmount, Difference) are set together in a
// single atomic update at close and never touched again.
type Shift struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CashRegisterID uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status         Status          `gorm:"type:varchar(20);not null;default:'ABIERTA'"`
	StartTime      time.Time       `gorm:"not null"`
	EndTime        *time.Time
	StartAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// ExpectedAmount is the reconciliation output the caller fetched right
	// before closing; Difference = ActualAmount − ExpectedAmount.
	ExpectedAmount *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ActualAmount   *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Difference     *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Notes          *string

	Movements []Movement `gorm:"foreignKey:ShiftID"`
}
