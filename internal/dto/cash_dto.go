package dto

import "github.com/shopspring/decimal"

// ─── Envelope ────────────────────────────────────────────────────────────────

// Envelope is the uniform response shape for every endpoint, success or
// failure. Code mirrors the HTTP status so clients can branch on it without
// parsing Message.
type Envelope struct {
	Success bool        `json:"success"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateRegisterRequest struct {
	Name   string `json:"name"   validate:"required,min=1,max=100"`
	Status string `json:"status" validate:"omitempty,oneof=ABIERTA CERRADA"`
}

// ShiftRequest drives both transitions of the shift state machine:
// status=ABIERTA opens a shift on cash_register_id, status=CERRADA closes
// the shift identified by id.
type ShiftRequest struct {
	ID             string           `json:"id"               validate:"omitempty,uuid"`
	CashRegisterID string           `json:"cash_register_id" validate:"omitempty,uuid"`
	Status         string           `json:"status"           validate:"required,oneof=ABIERTA CERRADA"`
	StartAmount    *decimal.Decimal `json:"start_amount"`
	ExpectedAmount *decimal.Decimal `json:"expected_amount"`
	ActualAmount   *decimal.Decimal `json:"actual_amount"`
	Notes          *string          `json:"notes"`
}

type MovementRequest struct {
	Type     string          `json:"type"     validate:"required,oneof=INGRESO EGRESO"`
	Category string          `json:"category" validate:"required,oneof=PAGO_SERVICIO PAGO_SALARIO GASTO_OPERATIVO OTRO"`
	Amount   decimal.Decimal `json:"amount"   validate:"required,gt=0"`
	Notes    *string         `json:"notes"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type RegisterResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type ShiftResponse struct {
	ID             string           `json:"id"`
	CashRegisterID string           `json:"cash_register_id"`
	UserID         string           `json:"user_id"`
	Status         string           `json:"status"`
	StartTime      string           `json:"start_time"`
	EndTime        *string          `json:"end_time"`
	StartAmount    decimal.Decimal  `json:"start_amount"`
	ExpectedAmount *decimal.Decimal `json:"expected_amount"`
	ActualAmount   *decimal.Decimal `json:"actual_amount"`
	Difference     *decimal.Decimal `json:"difference"`
	Notes          *string          `json:"notes"`
}

type MovementResponse struct {
	ID        string          `json:"id"`
	ShiftID   string          `json:"shift_id"`
	Type      string          `json:"type"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Concept   string          `json:"concept"`
	Notes     *string         `json:"notes"`
	CreatedAt string          `json:"created_at"`
}

type MovementPageResponse struct {
	Items []MovementResponse `json:"items"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
	Total int64              `json:"total"`
}

// ExpectedAmountResponse is the reconciliation read: the balance the drawer
// should hold right now, plus its component sums for display.
type ExpectedAmountResponse struct {
	CashRegisterID string          `json:"cash_register_id"`
	ShiftID        string          `json:"shift_id"`
	StartAmount    decimal.Decimal `json:"start_amount"`
	TotalIngresos  decimal.Decimal `json:"total_ingresos"`
	TotalEgresos   decimal.Decimal `json:"total_egresos"`
	ExpectedAmount decimal.Decimal `json:"expected_amount"`
}

type ShiftHeaderResponse struct {
	ShiftID          string          `json:"shift_id"`
	CashRegisterID   string          `json:"cash_register_id"`
	CashRegisterName string          `json:"cash_register_name"`
	Operator         string          `json:"operator"`
	Status           string          `json:"status"`
	StartTime        string          `json:"start_time"`
	StartAmount      decimal.Decimal `json:"start_amount"`
}

type ShiftKPIsResponse struct {
	ShiftID        string          `json:"shift_id"`
	StartAmount    decimal.Decimal `json:"start_amount"`
	TotalIngresos  decimal.Decimal `json:"total_ingresos"`
	TotalEgresos   decimal.Decimal `json:"total_egresos"`
	ExpectedAmount decimal.Decimal `json:"expected_amount"`
	MovementCount  int64           `json:"movement_count"`
	OpenMinutes    int64           `json:"open_minutes"`
}

type ShiftPageResponse struct {
	Items []ShiftResponse `json:"items"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
	Total int64           `json:"total"`
}
