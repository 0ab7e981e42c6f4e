package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/lrms/access-portal/internal/api/handler"
	"github.com/lrms/access-portal/internal/api/metrics"
	"github.com/lrms/access-portal/internal/api/middleware"
	"github.com/lrms/access-portal/internal/core/domain"
	"github.com/lrms/access-portal/internal/core/guard"
	"github.com/lrms/access-portal/internal/core/ports"
	"github.com/lrms/access-portal/internal/infrastructure/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, store ports.UserStore, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("portal"))

	// --- Store-backed gauges ---
	store.SubscribeUsers(func(users []domain.User) {
		metrics.UsersTotal.Set(float64(len(users)))
	})
	store.SubscribeSession(func(u *domain.User) {
		if u == nil {
			metrics.SessionActive.Set(0)
		} else {
			metrics.SessionActive.Set(1)
		}
	})

	// --- Guards ---
	ev := guard.NewEvaluator(store, log)
	authGuard := middleware.Guard("auth", guard.NewAuthGuard(ev))
	adminGuard := middleware.Guard("admin", guard.NewAdminGuard(ev))
	moderatorGuard := middleware.Guard("role", guard.NewRoleGuard(ev, domain.RoleModerator, domain.RoleAdmin))

	// --- Views ---
	pages := handler.NewPageHandler(store)

	e.GET("/", redirectTo("/dashboard"))
	e.GET(domain.LoginPath, pages.Login)
	e.GET(domain.UnauthorizedPath, pages.Unauthorized)

	e.GET("/dashboard", pages.Dashboard, authGuard)
	e.GET("/forms", pages.Page("forms", "Reactive Forms Demo - LRMS"), authGuard)
	e.GET("/pipes", pages.Page("pipes", "Pipes Demo - LRMS"), authGuard)
	e.GET("/services", pages.Page("services", "Services Demo - LRMS"), authGuard)
	e.GET("/protected", pages.Page("protected", "Protected Area - LRMS"), authGuard)
	e.GET("/profile", pages.Page("profile", "User Profile - LRMS"), authGuard)
	e.GET("/admin", pages.Admin, adminGuard)
	e.GET("/moderator", pages.Page("moderator", "Moderator Area - LRMS"), moderatorGuard)

	// Unknown paths fall back to the dashboard, whose guard takes over.
	e.RouteNotFound("/*", redirectTo("/dashboard"))

	// --- Auth API ---
	authHandler := handler.NewAuthHandler(store, cfg.JWTSecret, cfg.TokenTTL)
	apiGroup := e.Group("/api")
	apiGroup.POST("/auth/login", authHandler.Login)
	apiGroup.POST("/auth/logout", authHandler.Logout)
	apiGroup.GET("/auth/me", authHandler.Me)

	// --- User management API ---
	userHandler := handler.NewUserHandler(store, log)
	requireAdmin := []echo.MiddlewareFunc{
		middleware.Auth(cfg.JWTSecret),
		middleware.RBAC(domain.RoleAdmin),
	}
	apiGroup.GET("/users", userHandler.List)
	apiGroup.GET("/users/search", userHandler.Search)
	apiGroup.GET("/users/stats", userHandler.Stats)
	apiGroup.GET("/users/:id", userHandler.Get)
	apiGroup.POST("/users", userHandler.Create, requireAdmin...)
	apiGroup.PUT("/users/:id", userHandler.Update, requireAdmin...)
	apiGroup.DELETE("/users/:id", userHandler.Delete, requireAdmin...)
	apiGroup.POST("/users/:id/toggle", userHandler.Toggle, requireAdmin...)

	// --- Profile editor (deactivation-guarded view) ---
	editor := handler.NewProfileEditor()
	store.SubscribeSession(editor.Reset)
	profileHandler := handler.NewProfileHandler(store, editor, log)
	apiGroup.GET("/profile", profileHandler.Get)
	apiGroup.PUT("/profile", profileHandler.Edit)
	apiGroup.POST("/profile/save", profileHandler.Save)
	apiGroup.POST("/profile/discard", profileHandler.Discard)
	apiGroup.POST("/profile/leave", profileHandler.Leave)

	// --- Transform catalog demo ---
	apiGroup.GET("/transforms", handler.NewTransformHandler().Demo)

	// --- Demo update stream (CORS open, as the standalone server was) ---
	streamHandler := handler.NewStreamHandler(cfg.Stream.Interval, log)
	streamGroup := e.Group("/stream", echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderContentType},
	}))
	streamGroup.GET("", streamHandler.Events)
	streamGroup.GET("/ws", streamHandler.EventsWS)

	// --- Probes & metrics ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}

func redirectTo(path string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.Redirect(http.StatusFound, path)
	}
}
