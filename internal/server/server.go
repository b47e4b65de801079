package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"society-dashboard/internal/common/config"
)

type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
}

func NewServer(cfg config.ServerConfig, h *Handlers) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      Routes(h),
			ReadTimeout:  config.GetDuration(cfg.ReadTimeout),
			WriteTimeout: config.GetDuration(cfg.WriteTimeout),
			IdleTimeout:  60 * time.Second,
		},
		shutdownTimeout: config.GetDuration(cfg.ShutdownTimeout),
	}
}

// Routes builds the full route table for the dashboard API.
func Routes(h *Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	if h != nil {
		mux.HandleFunc("GET /health", h.Health)

		mux.HandleFunc("POST /wizard", h.CreateWizard)
		mux.HandleFunc("GET /wizard/{id}", h.WizardState)
		mux.HandleFunc("POST /wizard/{id}/loan-details", h.LoanDetails)
		mux.HandleFunc("POST /wizard/{id}/bank-details", h.BankDetails)
		mux.HandleFunc("POST /wizard/{id}/pdc-details", h.PDCDetails)
		mux.HandleFunc("POST /wizard/{id}/guarantor-details", h.GuarantorDetails)
		mux.HandleFunc("POST /wizard/{id}/back", h.Back)
		mux.HandleFunc("POST /wizard/{id}/submit", h.Submit)
		mux.HandleFunc("POST /wizard/{id}/reset", h.Reset)

		mux.HandleFunc("POST /cheques/preview", h.ChequePreview)

		mux.HandleFunc("GET /members", h.ListMembers)
		mux.HandleFunc("GET /members/{id}/report", h.Report)
		mux.HandleFunc("GET /members/{id}/report/export", h.ReportExport)
	}
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}

func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		return s.httpServer.Shutdown(shCtx)
	case err := <-errCh:
		return err
	}
}
