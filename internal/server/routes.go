package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "github.com/Toufik-CHAARI/Front-Semantic-Image-Segmentation/internal/errors"
	"github.com/Toufik-CHAARI/Front-Semantic-Image-Segmentation/web"
)

const (
	predictRatePerSecond = 1
	predictBurst         = 5

	csrfCookieMaxAge = int(12 * time.Hour / time.Second)
)

func (s *Server) registerRoutes() {
	s.echo.Use(s.setupRequestLoggerMiddleware())
	s.echo.Use(middleware.Recover())
	s.echo.Use(correlationMiddleware)
	s.echo.Use(apperrors.Middleware())
	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		// Result images are embedded as data URIs, so img-src must allow data:.
		ContentSecurityPolicy: "default-src 'self'; " +
			"img-src 'self' data:; " +
			"style-src 'self' 'unsafe-inline'; " +
			"frame-ancestors 'none'",
		ReferrerPolicy: "strict-origin-when-cross-origin",
	}))
	// Transport cap sits one megabyte above the domain cap so oversize
	// uploads reach the orchestrator and fail with the typed error.
	s.echo.Use(middleware.BodyLimit(fmt.Sprintf("%dM", s.config.MaxFileSizeMB+1)))

	csrfMiddleware := s.setupCSRFMiddleware()
	predictLimiter := newRateLimiter(predictRatePerSecond, predictBurst)

	s.echo.GET("/", s.handleIndex, csrfMiddleware)
	s.echo.POST("/predict", s.handlePredict, predictLimiter, csrfMiddleware)

	s.registerImageRoutes()
	s.registerAPIRoutes()
	s.registerHealthRoutes()

	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.echo.StaticFS("/static", echo.MustSubFS(web.StaticFiles, "static"))
}

func (s *Server) setupRequestLoggerMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			slog.InfoContext(c.Request().Context(), "Request", attrs...)
			return nil
		},
	})
}

func (s *Server) setupCSRFMiddleware() echo.MiddlewareFunc {
	secure := s.config.AppEnv == "production"

	return middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    "form:csrf_token,header:X-CSRF-Token",
		CookieName:     "csrf_token",
		CookiePath:     "/",
		CookieMaxAge:   csrfCookieMaxAge,
		CookieHTTPOnly: true,
		CookieSecure:   secure,
		CookieSameSite: http.SameSiteStrictMode,
	})
}
