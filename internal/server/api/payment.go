package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/arenax/arenax/internal/server/biz"
)

type PaymentHandlersParams struct {
	fx.In

	PaymentService *biz.PaymentService
}

func NewPaymentHandlers(params PaymentHandlersParams) *PaymentHandlers {
	return &PaymentHandlers{
		PaymentService: params.PaymentService,
	}
}

type PaymentHandlers struct {
	PaymentService *biz.PaymentService
}

// InitiateCharge starts a mobile money charge for a team registration.
func (h *PaymentHandlers) InitiateCharge(c *gin.Context) {
	var input biz.ChargeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		JSONError(c, http.StatusBadRequest, errInvalidRequest)
		return
	}

	result, err := h.PaymentService.InitiateCharge(c.Request.Context(), input)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// VerifyByReference answers with a negative result, not an error, when the
// reference is missing.
func (h *PaymentHandlers) VerifyByReference(c *gin.Context) {
	v, err := h.PaymentService.VerifyByReference(c.Request.Context(), c.Query("reference"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, v)
}

func (h *PaymentHandlers) VerifyByID(c *gin.Context) {
	v, err := h.PaymentService.VerifyByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, v)
}
