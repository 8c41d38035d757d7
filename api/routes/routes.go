package routes

import (
	"time"

	"github.com/Utfprpb-oficina-20251/server-sub001/api/handler"
	"github.com/Utfprpb-oficina-20251/server-sub001/api/middleware"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type Router struct {
	Echo           *echo.Echo
	Auth           *handler.AuthHandler
	AuthMiddleware middleware.AuthMiddleware
	RequestRate    *middleware.RateLimiter
	VerifyRate     *middleware.RateLimiter
}

func NewRouter(e *echo.Echo, authHandler *handler.AuthHandler, authMiddleware middleware.AuthMiddleware) *Router {
	return &Router{
		Echo:           e,
		Auth:           authHandler,
		AuthMiddleware: authMiddleware,
		RequestRate:    middleware.NewRateLimiter(rate.Limit(2), 4, 10*time.Minute),
		VerifyRate:     middleware.NewRateLimiter(rate.Limit(5), 10, 5*time.Minute),
	}
}

func (r *Router) RegisterRoutes() {
	e := r.Echo

	e.POST("/auth/code/request", r.Auth.RequestCode, r.RequestRate.Middleware())
	e.POST("/auth/code/verify", r.Auth.Authenticate, r.VerifyRate.Middleware())

	e.GET("/me", r.Auth.Me, r.AuthMiddleware.RequireAuth)
	e.GET("/admin/users", r.Auth.AdminListUsers, r.AuthMiddleware.RequireAuth, middleware.RequireRole("admin"))
}
