// Package server exposes inference and validation over HTTP.
//
//	POST /infer     body: one or more JSON documents; responds with the inferred schema
//	POST /validate  body: {"data": "...", "schema": "..."}; responds with {"validation", "info"}
//	GET  /health    liveness
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	inferskema "github.com/reoring/inferskema"
	"github.com/reoring/inferskema/internal/validation"
	js "github.com/reoring/inferskema/jsonschema"
)

const shutdownTimeout = 10 * time.Second

// ValidationRequest is the body of POST /validate. Both fields carry raw JSON
// text.
type ValidationRequest struct {
	Data   string `json:"data"`
	Schema string `json:"schema"`
}

// ValidationResponse is the body returned by POST /validate.
type ValidationResponse struct {
	Validation bool   `json:"validation"`
	Info       string `json:"info"`
}

// Server wires the HTTP routes to the inference library and the validator.
type Server struct {
	e         *echo.Echo
	log       *logrus.Logger
	validator *validation.Validator
	opt       inferskema.Options
}

// New builds a Server. opt applies to every /infer request.
func New(log *logrus.Logger, v *validation.Validator, opt inferskema.Options) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{e: e, log: log, validator: v, opt: opt}
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.Recover())
	e.Use(s.logRequests)

	e.GET("/health", s.health)
	e.POST("/infer", s.infer)
	e.POST("/validate", s.validate)
	// The root path keeps the contract of the standalone validators.
	e.POST("/", s.validate)
	return s
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler { return s.e }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.WithField("addr", addr).Info("listening")
		if err := s.e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.e.Shutdown(sctx)
	})
	return g.Wait()
}

func (s *Server) health(c echo.Context) error { return c.NoContent(http.StatusOK) }

func (s *Server) infer(c echo.Context) error {
	b := inferskema.NewBuilder(s.opt)
	n, err := b.AddStream(c.Request().Body)
	if err != nil {
		iss, ok := inferskema.AsIssues(err)
		if !ok {
			iss = inferskema.Issues{{Code: inferskema.CodeParseError, Message: err.Error(), Offset: -1}}
		}
		return c.JSON(http.StatusBadRequest, map[string]any{"issues": iss})
	}
	schema, err := b.Schema()
	if err != nil {
		return err
	}
	s.logger(c).WithField("samples", n).Debug("schema inferred")

	if c.QueryParam("format") == "yaml" {
		out, err := js.MarshalYAML(schema)
		if err != nil {
			return err
		}
		return c.Blob(http.StatusOK, "application/yaml", out)
	}
	out, err := js.MarshalIndent(schema)
	if err != nil {
		return err
	}
	return c.JSONBlob(http.StatusOK, out)
}

func (s *Server) validate(c echo.Context) error {
	var req ValidationRequest
	if err := c.Bind(&req); err != nil || req.Data == "" || req.Schema == "" {
		return c.JSON(http.StatusBadRequest, ValidationResponse{Info: "invalid request, needs 'data' and 'schema' fields."})
	}
	res, err := s.validator.Validate([]byte(req.Data), []byte(req.Schema))
	if err != nil {
		if errors.Is(err, validation.ErrBrokenDocument) || errors.Is(err, validation.ErrCompile) {
			return c.JSON(http.StatusBadRequest, ValidationResponse{Info: err.Error()})
		}
		return err
	}
	info := "successful validation"
	if !res.Valid {
		info = res.Info
	}
	return c.JSON(http.StatusOK, ValidationResponse{Validation: res.Valid, Info: info})
}

func (s *Server) logRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		s.logger(c).WithFields(logrus.Fields{
			"method":  c.Request().Method,
			"path":    c.Path(),
			"status":  c.Response().Status,
			"latency": time.Since(start),
		}).Info("request")
		return nil
	}
}

func (s *Server) logger(c echo.Context) *logrus.Entry {
	return s.log.WithField("request_id", c.Response().Header().Get(echo.HeaderXRequestID))
}
