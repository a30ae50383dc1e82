package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crazytosser25/goit-web-hw-04/internal/config"
	"github.com/crazytosser25/goit-web-hw-04/internal/metrics"
	"github.com/crazytosser25/goit-web-hw-04/internal/protocol"
	"github.com/crazytosser25/goit-web-hw-04/internal/relay"
	"github.com/crazytosser25/goit-web-hw-04/internal/static"
)

// staticRoutes maps GET paths to files served by the static provider.
// Every other GET path gets the error page with a 404.
var staticRoutes = map[string]string{
	"/":             "index.html",
	"/message.html": "message.html",
	"/logo.png":     "logo.png",
	"/style.css":    "style.css",
}

// HTTPServer serves the site and relays posted forms to the UDP back end.
type HTTPServer struct {
	server  *http.Server
	logger  *slog.Logger
	client  *relay.Client
	static  *static.Provider
	udp     *UDPServer
	metrics *metrics.Metrics

	startTime time.Time
}

// NewHTTPServer creates the HTTP listener. The relay client carries posted
// submissions to the UDP back end; udp is only consulted for health counters.
func NewHTTPServer(cfg *config.HTTPConfig, logger *slog.Logger,
	client *relay.Client, provider *static.Provider, udp *UDPServer, m *metrics.Metrics) *HTTPServer {

	h := &HTTPServer{
		logger:    logger,
		client:    client,
		static:    provider,
		udp:       udp,
		metrics:   m,
		startTime: time.Now(),
	}

	mux := http.NewServeMux()
	h.setupRoutes(mux)

	h.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.BindAddress, cfg.Port),
		Handler:      mux,
		ReadTimeout:  cfg.GetReadTimeoutDuration(),
		WriteTimeout: cfg.GetWriteTimeoutDuration(),
		IdleTimeout:  cfg.GetIdleTimeoutDuration(),
	}

	return h
}

// setupRoutes configures HTTP routes
func (h *HTTPServer) setupRoutes(mux *http.ServeMux) {
	// Health check endpoint
	mux.HandleFunc("/health", h.withMetrics("/health", h.handleHealth))

	// Prometheus metrics endpoint
	mux.Handle("/metrics", promhttp.Handler())

	// Everything else: the site and the form relay
	mux.HandleFunc("/", h.withMetrics("/", h.handleSite))
}

// withMetrics wraps an HTTP handler with metrics collection
func (h *HTTPServer) withMetrics(endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()

		// Capture the status code written by the handler
		ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		handler(ww, r)

		duration := time.Since(startTime).Seconds()
		statusCode := fmt.Sprintf("%d", ww.statusCode)

		h.metrics.RecordHTTPRequest(r.Method, endpoint, statusCode, duration)

		if ww.statusCode >= 400 {
			errorType := "client_error"
			if ww.statusCode >= 500 {
				errorType = "server_error"
			}
			h.metrics.RecordHTTPError(r.Method, endpoint, errorType)
		}
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Start starts the HTTP server
func (h *HTTPServer) Start() error {
	h.logger.Info("Starting HTTP listener",
		slog.String("address", h.server.Addr),
	)

	go func() {
		if err := h.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			h.logger.Error("HTTP server error", slog.String("error", err.Error()))
		}
	}()

	return nil
}

// Stop gracefully stops the HTTP server, waiting for in-flight requests up
// to the context's deadline.
func (h *HTTPServer) Stop(ctx context.Context) error {
	h.logger.Info("Stopping HTTP listener...")

	return h.server.Shutdown(ctx)
}

// handleSite dispatches by method: GET serves static content, POST relays
// the form body to the UDP back end.
func (h *HTTPServer) handleSite(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleStatic(w, r)
	case http.MethodPost:
		h.handleSubmit(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleStatic serves the site's files; unrecognized paths get the error
// page with a 404.
func (h *HTTPServer) handleStatic(w http.ResponseWriter, r *http.Request) {
	name, ok := staticRoutes[r.URL.Path]
	status := http.StatusOK

	var (
		data     []byte
		mimeType string
		err      error
	)
	if ok {
		data, mimeType, err = h.static.Content(name)
	} else {
		status = http.StatusNotFound
		data, mimeType, err = h.static.ErrorPage()
	}
	if err != nil {
		h.logger.Error("Failed to load static content",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", mimeType)
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		h.logger.Warn("Failed to write response", slog.String("error", err.Error()))
	}
}

// handleSubmit reads the posted form, relays it as a datagram, and redirects
// back to the index. The redirect is issued regardless of the send outcome:
// the response never blocks on best-effort delivery.
func (h *HTTPServer) handleSubmit(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Error("Failed to read request body", slog.String("error", err.Error()))
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	submission := protocol.ParseForm(body)

	h.logger.Debug("Form submission received",
		slog.String("path", r.URL.Path),
		slog.Int("fields", len(submission)),
	)

	if sent, err := h.client.Send(submission); err != nil {
		// Fire and forget: log the failed relay and redirect anyway.
		h.metrics.RecordSendError()
		h.logger.Error("Failed to relay submission", slog.String("error", err.Error()))
	} else {
		h.metrics.RecordDatagramSent(sent)
	}

	w.Header().Set("Location", "/")
	w.WriteHeader(http.StatusFound)
}

// handleHealth implements the /health endpoint
func (h *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(h.startTime)
	udpStats := h.udp.Statistics()

	udpStatus := "stopped"
	if h.udp.Running() {
		udpStatus = "running"
	}

	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"uptime":    uptime.String(),
		"components": map[string]interface{}{
			"udp_server": map[string]interface{}{
				"status":             udpStatus,
				"datagrams_received": udpStats.DatagramsReceived,
				"datagrams_stored":   udpStats.DatagramsStored,
				"decode_errors":      udpStats.DecodeErrors,
				"append_errors":      udpStats.AppendErrors,
			},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}
