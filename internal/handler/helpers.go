package handler

import (
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/nexorasoft/veterinaria-innobov-server-sub001/internal/apierror"
	"github.com/nexorasoft/veterinaria-innobov-server-sub001/internal/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// respond writes the uniform envelope. HTTP status mirrors code.
func respond(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, dto.Envelope{
		Success: code < http.StatusBadRequest,
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// respondError maps any service error onto the envelope via the taxonomy.
func respondError(c *gin.Context, err error) {
	e := apierror.From(err)
	respond(c, e.Code, e.Message, nil)
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error envelope if validation fails — the
// caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respond(c, http.StatusBadRequest, "JSON inválido: "+err.Error(), nil)
		return false
	}
	if err := validate.Struct(req); err != nil {
		var fields []string
		for _, fe := range err.(validator.ValidationErrors) {
			fields = append(fields, fe.Field()+":"+fe.Tag())
		}
		respond(c, http.StatusBadRequest, "Error de validación: "+strings.Join(fields, ", "), nil)
		return false
	}
	return true
}

// pagination parses page/limit query params; out-of-range values are clamped
// downstream, never rejected.
func pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	return page, limit
}
