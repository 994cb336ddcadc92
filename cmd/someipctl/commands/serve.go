package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/marmos91/someip/internal/logger"
	"github.com/marmos91/someip/internal/telemetry"
	"github.com/marmos91/someip/pkg/config"
	"github.com/marmos91/someip/pkg/dynamic"
	"github.com/marmos91/someip/pkg/metrics"
	"github.com/marmos91/someip/pkg/options"
	"github.com/marmos91/someip/pkg/schema"
	"github.com/spf13/cobra"

	_ "github.com/marmos91/someip/pkg/metrics/prometheus"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local HTTP codec service",
	Long: `Serve starts an HTTP server exposing /v1/encode and /v1/decode
against a schema file, plus /metrics when metrics are enabled in
config. It wires the same logger, telemetry, and metrics stack as the
one-shot encode/decode commands.`,
	RunE: runServe,
}

var serveSchemaFile string

func init() {
	serveCmd.Flags().StringVar(&serveSchemaFile, "schema", "", "path to the schema YAML file (required)")
	_ = serveCmd.MarkFlagRequired("schema")
}

func runServe(cmd *cobra.Command, args []string) error {
	configFile := GetConfigFile()
	cfg, err := config.MustLoad(configFile)
	if err != nil {
		return err
	}

	if err := logger.Init(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Output: cfg.Logging.Output}); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	telemetryShutdown, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "someipctl",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer func() {
		if err := telemetryShutdown(ctx); err != nil {
			logger.Error("telemetry shutdown error", logger.Err(err))
		}
	}()

	profilingShutdown, err := telemetry.InitProfiling(telemetry.ProfilingConfig{
		Enabled:        cfg.Telemetry.Profiling.Enabled,
		ServiceName:    "someipctl",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Profiling.Endpoint,
		ProfileTypes:   cfg.Telemetry.Profiling.ProfileTypes,
	})
	if err != nil {
		return fmt.Errorf("initializing profiling: %w", err)
	}
	defer func() {
		if err := profilingShutdown(); err != nil {
			logger.Error("profiling shutdown error", logger.Err(err))
		}
	}()

	metrics.Init(cfg.Metrics.Enabled)

	opts, err := cfg.Codec.Options()
	if err != nil {
		return fmt.Errorf("resolving codec options: %w", err)
	}

	data, err := os.ReadFile(serveSchemaFile)
	if err != nil {
		return fmt.Errorf("reading schema file %s: %w", serveSchemaFile, err)
	}
	types, err := schema.LoadYAML(data)
	if err != nil {
		return fmt.Errorf("parsing schema file %s: %w", serveSchemaFile, err)
	}

	srv := &codecServer{opts: opts, types: types, maxBody: cfg.Serve.MaxRequestBody.Int64()}
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(srv.instrument)
	router.Post("/v1/encode/{type}", srv.handleEncode)
	router.Post("/v1/decode/{type}", srv.handleDecode)
	if cfg.Metrics.Enabled {
		if h := metrics.Handler(); h != nil {
			router.Handle("/metrics", h)
		}
	}

	httpSrv := &http.Server{
		Addr:         cfg.Serve.Address,
		Handler:      router,
		ReadTimeout:  cfg.Serve.ReadTimeout,
		WriteTimeout: cfg.Serve.WriteTimeout,
		IdleTimeout:  cfg.Serve.IdleTimeout,
	}

	serverDone := make(chan error, 1)
	go func() {
		logger.Info("someipctl serve listening", "address", cfg.Serve.Address)
		serverDone <- httpSrv.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		signal.Stop(sigChan)
		logger.Info("shutdown signal received, draining connections")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Serve.ShutdownTimeout)
		defer shutdownCancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down server: %w", err)
		}
		logger.Info("server stopped gracefully")
		return nil
	case err := <-serverDone:
		signal.Stop(sigChan)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}

type codecServer struct {
	opts    options.Options
	types   map[string]*schema.Type
	maxBody int64
}

func (s *codecServer) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		metrics.RecordRequestBody(metrics.NewHTTPMetrics(), route, int(r.ContentLength))
		next.ServeHTTP(sw, r)
		metrics.RecordRequest(metrics.NewHTTPMetrics(), r.Method, route, sw.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (s *codecServer) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		return nil, fmt.Errorf("reading request body: %w", err)
	}
	return raw, nil
}

func (s *codecServer) lookupType(w http.ResponseWriter, r *http.Request) (*schema.Type, string, bool) {
	name := chi.URLParam(r, "type")
	t, ok := s.types[name]
	if !ok {
		writeJSONError(w, http.StatusNotFound, fmt.Sprintf("unknown type %q", name))
		return nil, name, false
	}
	return t, name, true
}

func (s *codecServer) handleEncode(w http.ResponseWriter, r *http.Request) {
	t, name, ok := s.lookupType(w, r)
	if !ok {
		return
	}
	ctx, span := telemetry.StartHTTPSpan(r.Context(), telemetry.SpanHTTPEncode, r.Method, "/v1/encode/{type}")
	defer span.End()

	var value any
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.UseNumber()
	if err := dec.Decode(&value); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	start := time.Now()
	raw, err := dynamic.Encode(s.opts, t, value)
	metrics.RecordEncode(metrics.NewCodecMetrics(), name, len(raw), time.Since(start), err)
	if err != nil {
		telemetry.RecordError(ctx, err)
		logger.ErrorCtx(ctx, "encode failed", logger.Schema(name), logger.Err(err))
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(raw)
}

func (s *codecServer) handleDecode(w http.ResponseWriter, r *http.Request) {
	t, name, ok := s.lookupType(w, r)
	if !ok {
		return
	}
	ctx, span := telemetry.StartHTTPSpan(r.Context(), telemetry.SpanHTTPDecode, r.Method, "/v1/decode/{type}")
	defer span.End()

	raw, err := s.readBody(w, r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	value, err := dynamic.Decode(s.opts, t, raw)
	metrics.RecordDecode(metrics.NewCodecMetrics(), name, len(raw), time.Since(start), err)
	if err != nil {
		telemetry.RecordError(ctx, err)
		logger.ErrorCtx(ctx, "decode failed", logger.Schema(name), logger.Err(err))
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	_ = enc.Encode(value)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
