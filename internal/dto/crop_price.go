package dto

import "time"

// CreateCropPriceRequest records a new market price observation.
type CreateCropPriceRequest struct {
	CropName   string  `json:"crop_name" binding:"required,max=128"`
	Market     string  `json:"market" binding:"required,max=128"`
	Province   string  `json:"province" binding:"required,max=128"`
	PricePerKg float64 `json:"price_per_kg" binding:"required,gt=0"`
	RecordedAt string  `json:"recorded_at,omitempty"`
}

// UpdateCropPriceRequest updates an existing price record.
type UpdateCropPriceRequest struct {
	CropName   string  `json:"crop_name,omitempty"`
	Market     string  `json:"market,omitempty"`
	Province   string  `json:"province,omitempty"`
	PricePerKg float64 `json:"price_per_kg,omitempty"`
}

// CropPriceResponse is the public view of a price record.
type CropPriceResponse struct {
	ID         int64     `json:"id"`
	CropName   string    `json:"crop_name"`
	Market     string    `json:"market"`
	Province   string    `json:"province"`
	PricePerKg float64   `json:"price_per_kg"`
	RecordedAt time.Time `json:"recorded_at"`
}
