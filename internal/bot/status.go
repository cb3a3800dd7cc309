package bot

import (
	"context"
	"errors"
	"net/http"
	"time"

	"discord-gban/internal/logger"
)

// StatusServer serves a plain-text status report for operators.
type StatusServer struct {
	server    *http.Server
	mux       *http.ServeMux
	debugPath string
}

// NewStatusServer creates the server; call Handle before Start.
func NewStatusServer(listenPort, debugPath string) *StatusServer {
	// Set default values
	if listenPort == "" {
		listenPort = "8080"
		logger.Infof("Using default status listen port: %s", listenPort)
	}
	if debugPath == "" {
		debugPath = "/debug"
	}

	mux := http.NewServeMux()
	return &StatusServer{
		server: &http.Server{
			Addr:              "0.0.0.0:" + listenPort,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		mux:       mux,
		debugPath: debugPath,
	}
}

// Handle registers report as the body of the debug path.
func (ss *StatusServer) Handle(report func() string) {
	ss.mux.HandleFunc(ss.debugPath, statusHandler(report))
}

func statusHandler(report func() string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger.Debugf("Status endpoint accessed: %s %s", r.Method, r.URL.Path)

		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(report()))
	}
}

// Start blocks serving until Shutdown.
func (ss *StatusServer) Start() error {
	logger.Infof("Starting status server on %s%s", ss.server.Addr, ss.debugPath)
	if err := ss.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (ss *StatusServer) Shutdown(ctx context.Context) error {
	return ss.server.Shutdown(ctx)
}
