package repository

import (
	"context"

	"github.com/shobhit-APP/smart-agriculture-backend/internal/domain"
)

// UserRepository is the credential store boundary.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdateStatus(ctx context.Context, id int64, status domain.AccountStatus) error
	UpdateVerification(ctx context.Context, id int64, verification domain.VerificationStatus) error
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
}

// VerificationTokenRepository stores single-use email verification
// link tokens.
type VerificationTokenRepository interface {
	Create(ctx context.Context, token *domain.VerificationToken) error
	Get(ctx context.Context, token string) (*domain.VerificationToken, error)
	Delete(ctx context.Context, token string) error
}

// CropPriceFilter narrows crop price listings.
type CropPriceFilter struct {
	CropName string
	Market   string
	Province string
	Limit    int
	Offset   int
}

// CropPriceRepository persists market price records.
type CropPriceRepository interface {
	Create(ctx context.Context, price *domain.CropPrice) error
	GetByID(ctx context.Context, id int64) (*domain.CropPrice, error)
	List(ctx context.Context, filter CropPriceFilter) ([]*domain.CropPrice, error)
	Update(ctx context.Context, price *domain.CropPrice) error
	Delete(ctx context.Context, id int64) error
}
