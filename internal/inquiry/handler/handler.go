package handler

import (
	"net/http"

	"github.com/closespark/vrm-properties-demo-site/internal/config"
	"github.com/closespark/vrm-properties-demo-site/internal/inquiry/service"
	"github.com/closespark/vrm-properties-demo-site/internal/inquiry/transport"
	"github.com/closespark/vrm-properties-demo-site/platform/apperr"
	"github.com/closespark/vrm-properties-demo-site/platform/httpkit"
	"github.com/closespark/vrm-properties-demo-site/platform/logger"
	"github.com/closespark/vrm-properties-demo-site/platform/validator"

	"github.com/gin-gonic/gin"
)

const msgProcessingFailed = "Failed to process your request. Please try again later."

// Handler exposes the inquiry workflow over HTTP.
type Handler struct {
	service     *service.Service
	val         *validator.Validator
	phoneRegion string
	log         *logger.Logger
}

func New(svc *service.Service, val *validator.Validator, cfg config.PhoneConfig, log *logger.Logger) *Handler {
	return &Handler{
		service:     svc,
		val:         val,
		phoneRegion: cfg.GetDefaultPhoneRegion(),
		log:         log,
	}
}

// HandleRequestInfo validates an inquiry payload and runs it through the CRM
// workflow.
// POST /api/request-info
func (h *Handler) HandleRequestInfo(c *gin.Context) {
	var req transport.InquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if fields := transport.BindFieldErrors(err); len(fields) > 0 {
			httpkit.ValidationFailed(c, fields)
			return
		}
		httpkit.Error(c, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	// Normalize before validating so whitespace-only fields fail "required".
	req.Normalize(h.phoneRegion)

	if fields := h.val.StructFields(&req); len(fields) > 0 {
		httpkit.ValidationFailed(c, fields)
		return
	}

	result, err := h.service.Process(c.Request.Context(), req)
	if err != nil {
		h.log.WithContext(c.Request.Context()).Error("inquiry processing failed", "error", err)
		httpkit.JSON(c, apperr.HTTPStatus(err), transport.InquiryResponse{
			Success: false,
			Message: msgProcessingFailed,
			Details: &transport.InquiryDetails{},
		})
		return
	}

	httpkit.OK(c, transport.InquiryResponse{
		Success: result.Success,
		Message: result.Message,
		Details: &result.Details,
	})
}
