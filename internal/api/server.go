package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/realestate-crm-analytics/internal/api/handler"
	"github.com/vfg2006/realestate-crm-analytics/internal/api/handler/router"
	"github.com/vfg2006/realestate-crm-analytics/internal/config"
	"github.com/vfg2006/realestate-crm-analytics/internal/usecases/authenticating"
	"github.com/vfg2006/realestate-crm-analytics/internal/usecases/reporting"
	"github.com/vfg2006/realestate-crm-analytics/pkg/middleware"
)

type Server struct {
	httpServer *http.Server
	onShutdown []func(ctx context.Context) error
}

func New(
	config *config.Config,
	reportService reporting.Reporter,
	authenticator authenticating.Authenticator,
	store handler.Pinger,
	reportExportService handler.SyncJob,
) (*Server, error) {
	cronServices := handler.CronJobServices{
		ReportExportService: reportExportService,
	}

	rt := router.New(
		router.WithRoutes(handler.Healthcheck(store)...),
		router.WithRoutes(handler.Reports(reportService)...),
		router.WithRoutes(handler.CronJobs(cronServices)...),
	)

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           Handler(rt, authenticator, config.Server.AllowedOrigins),
			ReadHeaderTimeout: 2 * time.Second,
		},
	}, nil
}

// Handler encadeia os middlewares globais na frente das rotas
func Handler(rt http.Handler, authenticator authenticating.Authenticator, allowedOrigins []string) http.Handler {
	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(allowedOrigins),
		middleware.AuthMiddleware(authenticator),
	}

	return alice.New(middlewares...).Then(rt)
}

// OnShutdown registra uma função de limpeza executada após o servidor HTTP parar
func (s *Server) OnShutdown(fn func(ctx context.Context) error) {
	s.onShutdown = append(s.onShutdown, fn)
}

func (s *Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	// Canal para aguardar sinais de término
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	// Aguardar pelo sinal ou pelo cancelamento do contexto
	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	// Define timeout para desligamento
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Log de início do desligamento
	logrus.WithFields(logrus.Fields{
		"timeout": "15s",
	}).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		return err
	}

	logrus.Info("Servidor HTTP desligado com sucesso")

	logrus.Info("Executando operações de limpeza")
	for _, fn := range s.onShutdown {
		if err := fn(ctx); err != nil {
			logrus.WithError(err).Warn("Erro durante operação de limpeza")
		}
	}

	return nil
}
