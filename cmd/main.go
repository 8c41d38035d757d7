package main

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/Utfprpb-oficina-20251/server-sub001/api/handler"
	apiMiddleware "github.com/Utfprpb-oficina-20251/server-sub001/api/middleware"
	"github.com/Utfprpb-oficina-20251/server-sub001/api/routes"
	"github.com/Utfprpb-oficina-20251/server-sub001/config"
	"github.com/Utfprpb-oficina-20251/server-sub001/internal/entity"
	"github.com/Utfprpb-oficina-20251/server-sub001/internal/repository"
	"github.com/Utfprpb-oficina-20251/server-sub001/internal/service"
	"github.com/Utfprpb-oficina-20251/server-sub001/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	db := config.ConnectionDb()
	validate := validator.New()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	accessSecret := []byte(os.Getenv("JWT_SECRET"))
	issuer := os.Getenv("JWT_ISSUER")
	if len(accessSecret) == 0 {
		logger.Fatal("JWT_SECRET is required")
	}

	accessManager := utils.JWTManager{
		Secret:         accessSecret,
		Issuer:         issuer,
		AccessTokenTTL: 15 * time.Minute,
	}

	userRepo := repository.NewUserRepository(db)
	codeRepo := repository.NewVerificationCodeRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	clock := service.RealClock{}
	otpConfig := otpConfigFromEnv()

	codeIssuer := service.NewCodeIssuer(codeRepo, clock, otpConfig)
	codeValidator := service.NewCodeValidator(codeRepo, clock)
	emailProvider := service.NewEmailCodeProvider(codeValidator, userRepo, auditRepo, logger)
	providers := service.NewProviderRegistry(emailProvider)

	emailSender := service.NewResendEmailSender(os.Getenv("RESEND_API_KEY"), os.Getenv("MAIL_FROM"))

	authService := service.NewAuthService(
		codeIssuer,
		providers,
		userRepo,
		auditRepo,
		emailSender,
		service.JWTAccessIssuer{Manager: &accessManager},
		logger,
	)

	authHandler := handler.NewAuthHandler(authService, validate)

	app := echo.New()
	app.HideBanner = true
	app.HidePort = true
	app.Use(echoMiddleware.Recover())
	app.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogStatus:   true,
		LogMethod:   true,
		LogURI:      true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"status": v.Status,
				"method": v.Method,
				"uri":    v.URI,
				"ip":     v.RemoteIP,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))

	authMiddleware := apiMiddleware.AuthMiddleware{JWT: &accessManager}
	router := routes.NewRouter(app, authHandler, authMiddleware)
	router.RegisterRoutes()

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	server := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.WithField("addr", addr).Info("server started")
	if err := app.StartServer(server); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}

func otpConfigFromEnv() service.OTPConfig {
	policies := map[entity.CodePurpose]service.PurposePolicy{
		entity.PurposeAuthentication: {TTL: envDuration("OTP_AUTH_TTL", 5*time.Minute)},
		entity.PurposeRegistration:   {TTL: envDuration("OTP_REGISTRATION_TTL", 15*time.Minute)},
		entity.PurposeRecovery:       {TTL: envDuration("OTP_RECOVERY_TTL", 10*time.Minute)},
	}
	length := envInt("OTP_CODE_LENGTH", 6)
	maxPerWindow := envInt("OTP_MAX_PER_WINDOW", 3)
	window := envDuration("OTP_THROTTLE_WINDOW", 15*time.Minute)
	for purpose, policy := range policies {
		policy.CodeLength = length
		policy.MaxPerWindow = maxPerWindow
		policy.ThrottleWindow = window
		policies[purpose] = policy
	}
	return service.OTPConfig{Policies: policies}
}

func envDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
