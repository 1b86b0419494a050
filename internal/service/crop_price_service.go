package service

import (
	"context"
	"errors"
	"time"

	"github.com/shobhit-APP/smart-agriculture-backend/internal/domain"
	"github.com/shobhit-APP/smart-agriculture-backend/internal/dto"
	"github.com/shobhit-APP/smart-agriculture-backend/internal/repository"
)

// CropPriceService errors
var (
	ErrCropPriceNotFound = errors.New("crop price not found")
)

// CropPriceService manages market price records.
type CropPriceService struct {
	prices repository.CropPriceRepository
	now    func() time.Time
}

// NewCropPriceService creates the service.
func NewCropPriceService(prices repository.CropPriceRepository) *CropPriceService {
	return &CropPriceService{prices: prices, now: time.Now}
}

// Create records a new price observation.
func (s *CropPriceService) Create(ctx context.Context, req *dto.CreateCropPriceRequest) (*domain.CropPrice, error) {
	recordedAt := s.now()
	if req.RecordedAt != "" {
		t, err := time.Parse(time.RFC3339, req.RecordedAt)
		if err != nil {
			return nil, errors.New("invalid recorded_at format, expected RFC 3339")
		}
		recordedAt = t
	}

	now := s.now()
	price := &domain.CropPrice{
		CropName:   req.CropName,
		Market:     req.Market,
		Province:   req.Province,
		PricePerKg: req.PricePerKg,
		RecordedAt: recordedAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.prices.Create(ctx, price); err != nil {
		return nil, err
	}
	return price, nil
}

// Get returns one record.
func (s *CropPriceService) Get(ctx context.Context, id int64) (*domain.CropPrice, error) {
	price, err := s.prices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if price == nil {
		return nil, ErrCropPriceNotFound
	}
	return price, nil
}

// List returns records matching the filter.
func (s *CropPriceService) List(ctx context.Context, filter repository.CropPriceFilter) ([]*domain.CropPrice, error) {
	return s.prices.List(ctx, filter)
}

// Update applies non-zero fields from the request.
func (s *CropPriceService) Update(ctx context.Context, id int64, req *dto.UpdateCropPriceRequest) (*domain.CropPrice, error) {
	price, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CropName != "" {
		price.CropName = req.CropName
	}
	if req.Market != "" {
		price.Market = req.Market
	}
	if req.Province != "" {
		price.Province = req.Province
	}
	if req.PricePerKg > 0 {
		price.PricePerKg = req.PricePerKg
	}

	if err := s.prices.Update(ctx, price); err != nil {
		return nil, err
	}
	return price, nil
}

// Delete removes a record.
func (s *CropPriceService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.prices.Delete(ctx, id)
}
