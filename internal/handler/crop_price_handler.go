package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shobhit-APP/smart-agriculture-backend/internal/dto"
	"github.com/shobhit-APP/smart-agriculture-backend/internal/repository"
	"github.com/shobhit-APP/smart-agriculture-backend/internal/service"
	"github.com/shobhit-APP/smart-agriculture-backend/pkg/response"
)

// CropPriceHandler handles market price HTTP requests
type CropPriceHandler struct {
	prices *service.CropPriceService
}

// NewCropPriceHandler creates a new CropPriceHandler
func NewCropPriceHandler(prices *service.CropPriceService) *CropPriceHandler {
	return &CropPriceHandler{prices: prices}
}

// Create records a new price observation
// POST /api/v1/crop-prices
func (h *CropPriceHandler) Create(c *gin.Context) {
	var req dto.CreateCropPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	price, err := h.prices.Create(c.Request.Context(), &req)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Created(c, price)
}

// List returns price records with optional filters
// GET /api/v1/crop-prices?crop_name=&market=&province=&limit=&offset=
func (h *CropPriceHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	prices, err := h.prices.List(c.Request.Context(), repository.CropPriceFilter{
		CropName: c.Query("crop_name"),
		Market:   c.Query("market"),
		Province: c.Query("province"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		response.InternalError(c, err)
		return
	}

	response.Success(c, prices)
}

// Get returns one price record
// GET /api/v1/crop-prices/:id
func (h *CropPriceHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid price id")
		return
	}

	price, err := h.prices.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrCropPriceNotFound) {
			response.NotFound(c, "crop price not found")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Success(c, price)
}

// Update modifies a price record
// PUT /api/v1/crop-prices/:id
func (h *CropPriceHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid price id")
		return
	}

	var req dto.UpdateCropPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	price, err := h.prices.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrCropPriceNotFound) {
			response.NotFound(c, "crop price not found")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Success(c, price)
}

// Delete removes a price record
// DELETE /api/v1/crop-prices/:id
func (h *CropPriceHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid price id")
		return
	}

	if err := h.prices.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrCropPriceNotFound) {
			response.NotFound(c, "crop price not found")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "deleted"})
}
