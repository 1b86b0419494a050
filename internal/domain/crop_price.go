package domain

import "time"

// CropPrice is a market price record for a crop.
type CropPrice struct {
	ID         int64
	CropName   string
	Market     string
	Province   string
	PricePerKg float64
	RecordedAt time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
