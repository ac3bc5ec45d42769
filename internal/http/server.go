package http

import (
	"context"
	"net/http"
	"slices"

	"github.com/jmehdipour/eventhub-gateway/internal/config"
	"github.com/jmehdipour/eventhub-gateway/internal/logger"
	"github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/bytes"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const defaultBodyLimit = 2 << 20

var allMethods = []string{
	http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
	http.MethodPatch, http.MethodDelete, http.MethodOptions,
}

type Server struct {
	e   *echo.Echo
	log *zap.Logger
}

func NewServer(cfg config.Config, fwd Forwarder, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	bodyLimit, err := bytes.Parse(cfg.HTTP.BodyLimit)
	if err != nil || bodyLimit <= 0 {
		bodyLimit = defaultBodyLimit
	}

	// echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(logger.EchoLevel(cfg.Log.Level))
	e.Use(echoMid.Recover(), requestLogger(log), echoMid.CORSWithConfig(corsConfig(cfg.HTTP.CORS)))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// health
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	// routes
	e.POST("/send-events", sendEventsHandler(fwd, log, bodyLimit, cfg.HTTP.StrictStatus))

	return &Server{e: e, log: log}
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler { return s.e }

func (s *Server) Start(addr string) error {
	s.log.Info("http: listening", zap.String("addr", addr))
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }

func requestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return echoMid.RequestLoggerWithConfig(echoMid.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echoMid.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
			}
			if v.Error != nil {
				log.Warn("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			log.Info("request", fields...)
			return nil
		},
	})
}

// corsConfig maps the config onto echo's CORS middleware. "*" in methods
// expands to every method; "*" in headers echoes the requested headers back.
// A wildcard origin with credentials reflects the caller's Origin, since
// browsers reject "*" together with credentials.
func corsConfig(c config.CORSConfig) echoMid.CORSConfig {
	cc := echoMid.CORSConfig{
		AllowOrigins:     c.AllowOrigins,
		AllowCredentials: c.AllowCredentials,
		MaxAge:           c.MaxAge,
	}
	if len(cc.AllowOrigins) == 0 {
		cc.AllowOrigins = []string{"*"}
	}
	if c.AllowCredentials && slices.Contains(cc.AllowOrigins, "*") {
		cc.UnsafeWildcardOriginWithAllowCredentials = true
	}

	if len(c.AllowMethods) == 0 || slices.Contains(c.AllowMethods, "*") {
		cc.AllowMethods = allMethods
	} else {
		cc.AllowMethods = c.AllowMethods
	}

	if !slices.Contains(c.AllowHeaders, "*") {
		cc.AllowHeaders = c.AllowHeaders
	}

	return cc
}
