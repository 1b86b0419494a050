// Package di wires the application graph: repositories over the
// database pool, services over the cache and the codec, handlers over
// the services.
package di

import (
	"go.uber.org/zap"

	"github.com/shobhit-APP/smart-agriculture-backend/internal/advisory"
	"github.com/shobhit-APP/smart-agriculture-backend/internal/cache"
	"github.com/shobhit-APP/smart-agriculture-backend/internal/handler"
	"github.com/shobhit-APP/smart-agriculture-backend/internal/middleware"
	"github.com/shobhit-APP/smart-agriculture-backend/internal/notify"
	"github.com/shobhit-APP/smart-agriculture-backend/internal/repository"
	"github.com/shobhit-APP/smart-agriculture-backend/internal/service"
	"github.com/shobhit-APP/smart-agriculture-backend/internal/token"
	"github.com/shobhit-APP/smart-agriculture-backend/pkg/config"
	"github.com/shobhit-APP/smart-agriculture-backend/pkg/database"
	"github.com/shobhit-APP/smart-agriculture-backend/pkg/redis"
)

// ContainerConfig carries the external resources the container composes.
type ContainerConfig struct {
	Config   *config.Config
	DB       *database.PostgresDB
	Redis    *redis.Client
	Producer notify.Producer
	Log      *zap.Logger
}

// Container holds every wired component the HTTP layer needs.
type Container struct {
	Codec     *token.Codec
	Blocklist *service.Blocklist
	Gate      *middleware.AuthGate

	AuthService      *service.AuthService
	AdminService     *service.UserAdminService
	CropPriceService *service.CropPriceService

	AuthHandler      *handler.AuthHandler
	AdminHandler     *handler.AdminHandler
	CropPriceHandler *handler.CropPriceHandler
	AdvisoryHandler  *handler.AdvisoryHandler
	HealthHandler    *handler.HealthHandler
}

// PublicPaths are the routes the gate lets through without a token.
// The auth subtree is listed per-path because logout, me, and
// validateReferenceToken stay protected.
var PublicPaths = []string{
	"/health",
	"/ready",
	"/api/v1/advisory/weather",
	"/api/v1/auth/register",
	"/api/v1/auth/login",
	"/api/v1/auth/login-otp",
	"/api/v1/auth/verify-otp",
	"/api/v1/auth/verify-otp-for-reset",
	"/api/v1/auth/forget-password",
	"/api/v1/auth/reset-password",
	"/api/v1/auth/verify",
}

// PublicPrefixes are route subtrees open without a token.
var PublicPrefixes []string

// NewContainer builds the application graph.
func NewContainer(cfg *ContainerConfig) *Container {
	conf := cfg.Config
	log := cfg.Log

	userRepo := repository.NewPostgresUserRepository(cfg.DB.Pool())
	verifyTokenRepo := repository.NewPostgresVerificationTokenRepository(cfg.DB.Pool())
	cropPriceRepo := repository.NewPostgresCropPriceRepository(cfg.DB.Pool())

	cacheClient := cache.New(cfg.Redis, &cache.Config{
		OpTimeout: conf.Auth.CacheTimeout,
	})

	codec := token.NewCodec(conf.JWT.Secret, conf.JWT.TokenTTL, conf.JWT.Issuer)
	blocklist := service.NewBlocklist(cacheClient, log)
	refTokens := service.NewReferenceTokenService(cacheClient, conf.Auth.ReferenceTokenTTL)
	otp := service.NewOTPService(cacheClient, conf.Auth.OTPTTL)
	notifier := notify.NewDispatcher(cfg.Producer, conf.Kafka.NotificationTopic, log)

	authService := service.NewAuthService(userRepo, verifyTokenRepo, codec, refTokens, otp, blocklist, notifier, log, service.AuthServiceConfig{
		BcryptCost:     conf.Auth.BcryptCost,
		VerifyTokenTTL: conf.Auth.VerifyTokenTTL,
	})
	adminService := service.NewUserAdminService(userRepo, blocklist, log)
	cropPriceService := service.NewCropPriceService(cropPriceRepo)

	advisoryClient := advisory.NewClient(advisory.Config{
		AdvisoryURL:  conf.Services.AdvisoryURL,
		InferenceURL: conf.Services.InferenceURL,
	}, log)

	gate := middleware.NewAuthGate(codec, blocklist, PublicPaths, PublicPrefixes, log)

	return &Container{
		Codec:     codec,
		Blocklist: blocklist,
		Gate:      gate,

		AuthService:      authService,
		AdminService:     adminService,
		CropPriceService: cropPriceService,

		AuthHandler:      handler.NewAuthHandler(authService),
		AdminHandler:     handler.NewAdminHandler(adminService),
		CropPriceHandler: handler.NewCropPriceHandler(cropPriceService),
		AdvisoryHandler:  handler.NewAdvisoryHandler(advisoryClient),
		HealthHandler:    handler.NewHealthHandler(cfg.DB, cfg.Redis, conf.App.Version),
	}
}
