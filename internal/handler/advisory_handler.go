package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/shobhit-APP/smart-agriculture-backend/internal/advisory"
	"github.com/shobhit-APP/smart-agriculture-backend/internal/dto"
	"github.com/shobhit-APP/smart-agriculture-backend/pkg/response"
)

// AdvisoryHandler proxies advisory requests to the ML backends
type AdvisoryHandler struct {
	client *advisory.Client
}

// NewAdvisoryHandler creates a new AdvisoryHandler
func NewAdvisoryHandler(client *advisory.Client) *AdvisoryHandler {
	return &AdvisoryHandler{client: client}
}

func advisoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, advisory.ErrAdvisoryBadRequest):
		response.BadRequest(c, "advisory backend rejected the request")
	case errors.Is(err, advisory.ErrAdvisoryUnavailable):
		response.Error(c, 503, "SERVICE_UNAVAILABLE", "advisory backend unavailable", "")
	default:
		response.InternalError(c, err)
	}
}

// CropAdvice returns generative guidance for a crop
// POST /api/v1/advisory/crop-advice
func (h *AdvisoryHandler) CropAdvice(c *gin.Context) {
	var req dto.CropAdviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.client.CropAdvice(c.Request.Context(), &req)
	if err != nil {
		advisoryError(c, err)
		return
	}

	response.Success(c, result)
}

// DiseaseDetect classifies a plant image
// POST /api/v1/advisory/disease-detect
func (h *AdvisoryHandler) DiseaseDetect(c *gin.Context) {
	var req dto.DiseaseDetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.client.DiseaseDetect(c.Request.Context(), &req)
	if err != nil {
		advisoryError(c, err)
		return
	}

	response.Success(c, result)
}

// Weather returns the public weather summary for a province
// GET /api/v1/advisory/weather?province=
func (h *AdvisoryHandler) Weather(c *gin.Context) {
	province := c.Query("province")
	if province == "" {
		response.BadRequest(c, "province is required")
		return
	}

	result, err := h.client.Weather(c.Request.Context(), province)
	if err != nil {
		advisoryError(c, err)
		return
	}

	response.Success(c, result)
}
