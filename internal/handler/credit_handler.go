package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"insight-engine/internal/domain"
	"insight-engine/internal/service"
	"insight-engine/pkg/logger"
	"insight-engine/pkg/response"
)

type CreditCheckHandler struct {
	service service.CreditCheckService
}

func NewCreditCheckHandler(service service.CreditCheckService) *CreditCheckHandler {
	return &CreditCheckHandler{service: service}
}

type CreditCheckRequestBody struct {
	Email       string                 `json:"email" binding:"required,email"`
	ExternalRef string                 `json:"external_ref"`
	Payload     map[string]interface{} `json:"payload"`
}

// CheckCredit godoc
// @Summary Run a credit check
// @Description Relay a credit-check request to the downstream bureau with bounded retries
// @Tags credit
// @Accept json
// @Produce json
// @Param request body CreditCheckRequestBody true "Credit check request"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /api/v1/credit-checks [post]
func (h *CreditCheckHandler) CheckCredit(c *gin.Context) {
	var body CreditCheckRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	outcome, err := h.service.CheckCredit(c.Request.Context(), domain.CreditCheckRequest{
		Email:       body.Email,
		ExternalRef: body.ExternalRef,
		Payload:     body.Payload,
	})
	if err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	if !outcome.Success {
		logger.GetLogger().WithFields(map[string]interface{}{
			"status_code": outcome.StatusCode,
			"attempts":    outcome.Attempts,
		}).Warn("Credit check failed")
		response.BadGateway(c, "Credit check failed", outcome)
		return
	}

	response.Success(c, http.StatusOK, "Credit check completed successfully", outcome)
}
