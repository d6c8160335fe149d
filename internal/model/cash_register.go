package model

import (
	"time"

	"github.com/google/uuid"
)

// Status is the two-valued lifecycle state shared by registers and shifts.
// Anything outside ABIERTA/CERRADA is rejected at the boundary — no raw
// status strings travel past the DTO layer.
type Status string

const (
	StatusAbierta Status = "ABIERTA"
	StatusCerrada Status = "CERRADA"
)

// Valid reports whether s is one of the two known states.
func (s Status) Valid() bool {
	return s == StatusAbierta || s == StatusCerrada
}

// CashRegister is a physical cash drawer. Status ABIERTA means some shift is
// currently open against it; a register in CERRADA has no open shift.
type CashRegister struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	Status    Status    `gorm:"type:varchar(20);not null;default:'CERRADA'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
