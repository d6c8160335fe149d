package handler

import (
	"net/http"

	"github.com/nexorasoft/veterinaria-innobov-server-sub001/internal/apierror"
	"github.com/nexorasoft/veterinaria-innobov-server-sub001/internal/dto"
	"github.com/nexorasoft/veterinaria-innobov-server-sub001/internal/middleware"
	"github.com/nexorasoft/veterinaria-innobov-server-sub001/internal/model"
	"github.com/nexorasoft/veterinaria-innobov-server-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CashHandler struct {
	cash   service.CashService
	ledger service.LedgerService
	recon  service.ReconciliationService
}

func NewCashHandler(cash service.CashService, ledger service.LedgerService,
	recon service.ReconciliationService) *CashHandler {
	return &CashHandler{cash: cash, ledger: ledger, recon: recon}
}

// operatorID extracts the authenticated operator identity. The body is never
// trusted for user_id once authentication is present.
func operatorID(c *gin.Context) (uuid.UUID, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		respondError(c, apierror.Unauthorized("Autenticación requerida"))
		return uuid.Nil, false
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		respondError(c, apierror.Unauthorized("Identidad de operador inválida"))
		return uuid.Nil, false
	}
	return id, true
}

// CreateRegister godoc
// @Summary Crea una caja registradora
// @Tags cash
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateRegisterRequest true "Datos de la caja"
// @Success 201 {object} dto.Envelope
// @Failure 400 {object} dto.Envelope
// @Router /cash [post]
func (h *CashHandler) CreateRegister(c *gin.Context) {
	var req dto.CreateRegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.cash.CreateRegister(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Caja creada", resp)
}

// Shift godoc
// @Summary Abre o cierra un turno de caja
// @Description status=ABIERTA abre un turno sobre cash_register_id; status=CERRADA cierra el turno id.
// @Tags cash
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ShiftRequest true "Transición de turno"
// @Success 200 {object} dto.Envelope
// @Success 201 {object} dto.Envelope
// @Failure 400 {object} dto.Envelope
// @Failure 409 {object} dto.Envelope
// @Router /cash/shift [post]
func (h *CashHandler) Shift(c *gin.Context) {
	var req dto.ShiftRequest
	if !bindAndValidate(c, &req) {
		return
	}

	switch model.Status(req.Status) {
	case model.StatusAbierta:
		userID, ok := operatorID(c)
		if !ok {
			return
		}
		resp, err := h.cash.OpenShift(c.Request.Context(), userID, req)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusCreated, "Turno abierto", resp)
	case model.StatusCerrada:
		resp, err := h.cash.CloseShift(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, "Turno cerrado", resp)
	default:
		respondError(c, apierror.Validation("status inválido: debe ser ABIERTA o CERRADA"))
	}
}

// DepositMoney godoc
// @Summary Registra un ingreso manual de efectivo
// @Tags cash
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.MovementRequest true "Movimiento"
// @Success 201 {object} dto.Envelope
// @Failure 400 {object} dto.Envelope
// @Router /cash/deposit-money [post]
func (h *CashHandler) DepositMoney(c *gin.Context) {
	h.recordMovement(c, model.MovementIngreso)
}

// WithdrawMoney godoc
// @Summary Registra un egreso manual de efectivo
// @Tags cash
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.MovementRequest true "Movimiento"
// @Success 201 {object} dto.Envelope
// @Failure 400 {object} dto.Envelope
// @Router /cash/withdraw-money [post]
func (h *CashHandler) WithdrawMoney(c *gin.Context) {
	h.recordMovement(c, model.MovementEgreso)
}

// recordMovement enforces endpoint intent: the deposit endpoint only accepts
// INGRESO and the withdraw endpoint only EGRESO — the ledger never infers
// intent from the amount sign.
func (h *CashHandler) recordMovement(c *gin.Context, want model.MovementType) {
	var req dto.MovementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if model.MovementType(req.Type) != want {
		respondError(c, apierror.Validation("type debe ser "+string(want)+" en este endpoint"))
		return
	}
	userID, ok := operatorID(c)
	if !ok {
		return
	}
	resp, err := h.ledger.RecordMovement(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Movimiento registrado", resp)
}

// ExpectedAmount godoc
// @Summary Calcula el monto esperado del turno abierto de una caja
// @Tags cash
// @Produce json
// @Security BearerAuth
// @Param registerId path string true "ID de caja"
// @Success 200 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope
// @Router /cash/expected-amount/{registerId} [get]
func (h *CashHandler) ExpectedAmount(c *gin.Context) {
	registerID, err := uuid.Parse(c.Param("registerId"))
	if err != nil {
		respondError(c, apierror.Validation("registerId inválido"))
		return
	}
	resp, err := h.recon.ExpectedAmount(c.Request.Context(), registerID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Monto esperado calculado", resp)
}

// OpenShiftsByUser returns the authenticated operator's open shifts.
func (h *CashHandler) OpenShiftsByUser(c *gin.Context) {
	userID, ok := operatorID(c)
	if !ok {
		return
	}
	resp, err := h.cash.OpenShiftsByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Turnos abiertos", resp)
}

// CurrentShiftHeader returns the open shift header, or data=null when the
// operator has no open shift.
func (h *CashHandler) CurrentShiftHeader(c *gin.Context) {
	userID, ok := operatorID(c)
	if !ok {
		return
	}
	resp, err := h.cash.CurrentShiftHeader(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if resp == nil {
		respond(c, http.StatusOK, "Sin turno abierto", nil)
		return
	}
	respond(c, http.StatusOK, "Encabezado de turno", resp)
}

// CurrentShiftKPIs returns the open shift KPIs, or data=null when the
// operator has no open shift.
func (h *CashHandler) CurrentShiftKPIs(c *gin.Context) {
	userID, ok := operatorID(c)
	if !ok {
		return
	}
	resp, err := h.cash.CurrentShiftKPIs(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if resp == nil {
		respond(c, http.StatusOK, "Sin turno abierto", nil)
		return
	}
	respond(c, http.StatusOK, "KPIs de turno", resp)
}

// CurrentShiftMovements returns a page of the open shift's movements,
// newest first.
func (h *CashHandler) CurrentShiftMovements(c *gin.Context) {
	userID, ok := operatorID(c)
	if !ok {
		return
	}
	page, limit := pagination(c)
	resp, err := h.ledger.CurrentShiftMovements(c.Request.Context(), userID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Movimientos del turno", resp)
}

// Movements returns a page of the operator's own movements, newest first.
func (h *CashHandler) Movements(c *gin.Context) {
	userID, ok := operatorID(c)
	if !ok {
		return
	}
	page, limit := pagination(c)
	resp, err := h.ledger.ListMovements(c.Request.Context(), userID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Movimientos", resp)
}

// AvailableRegisters lists registers with no open shift.
func (h *CashHandler) AvailableRegisters(c *gin.Context) {
	resp, err := h.cash.AvailableRegisters(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Cajas disponibles", resp)
}

// ShiftHistory lists closed shifts, paginated (supervisors).
func (h *CashHandler) ShiftHistory(c *gin.Context) {
	page, limit := pagination(c)
	resp, err := h.cash.ShiftHistory(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Historial de turnos", resp)
}
