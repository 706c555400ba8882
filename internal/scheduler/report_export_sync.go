package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/realestate-crm-analytics/infrastructure/export"
	"github.com/vfg2006/realestate-crm-analytics/internal/config"
	"github.com/vfg2006/realestate-crm-analytics/internal/domain"
	"github.com/vfg2006/realestate-crm-analytics/internal/usecases/reporting"
)

const defaultExportConcurrency = 3

// ReportExportConfig representa a configuração do agendador de exportação de relatórios
type ReportExportConfig struct {
	CronSchedule      string
	SyncEnabled       bool
	Tenants           []string
	Range             string
	MaxConcurrentJobs int
}

// ReportExportService gera periodicamente o relatório de cada tenant configurado e grava o JSON em disco
type ReportExportService struct {
	scheduler           *gocron.Scheduler
	config              ReportExportConfig
	reporter            reporting.Reporter
	writer              export.ReportWriter
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastExported        int
	lastFailed          int
}

// NewReportExportService cria uma nova instância do serviço de exportação agendada
func NewReportExportService(
	reporter reporting.Reporter,
	writer export.ReportWriter,
	appConfig *config.Config,
) *ReportExportService {
	exportConfig := ReportExportConfig{
		CronSchedule:      appConfig.ReportExport.CronSchedule,
		SyncEnabled:       appConfig.ReportExport.Enabled,
		Tenants:           cleanTenants(appConfig.ReportExport.Tenants),
		Range:             appConfig.ReportExport.Range,
		MaxConcurrentJobs: defaultExportConcurrency,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": exportConfig.CronSchedule,
		"sync_enabled":  exportConfig.SyncEnabled,
		"tenants":       len(exportConfig.Tenants),
		"range":         exportConfig.Range,
	}).Info("Configuração do agendador de exportação de relatórios carregada")

	return &ReportExportService{
		scheduler: scheduler,
		config:    exportConfig,
		reporter:  reporter,
		writer:    writer,
	}
}

// Start inicia o agendador
func (s *ReportExportService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Exportação agendada de relatórios desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de exportação de relatórios")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.exportReports(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar exportação de relatórios: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de exportação de relatórios")
		s.scheduler.Stop()
	}()

	return nil
}

// exportReports exporta o relatório de todos os tenants configurados
func (s *ReportExportService) exportReports(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Exportação de relatórios já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	startTime := time.Now()
	s.lastSyncStartedAt = startTime
	s.syncMutex.Unlock()

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.syncMutex.Unlock()
	}()

	if len(s.config.Tenants) == 0 {
		logrus.Info("Nenhum tenant configurado para exportação de relatórios")
		return
	}

	logrus.WithField("tenants", len(s.config.Tenants)).Info("Iniciando exportação de relatórios")

	exported, failed := s.processTenants(ctx, s.config.Tenants)

	s.syncMutex.Lock()
	s.lastSyncCompletedAt = time.Now()
	s.lastExported = exported
	s.lastFailed = failed
	s.syncMutex.Unlock()

	logrus.WithFields(logrus.Fields{
		"duration": time.Since(startTime).String(),
		"exported": exported,
		"failed":   failed,
	}).Info("Exportação de relatórios concluída")
}

// processTenants exporta os tenants com concorrência limitada e retorna os totais
func (s *ReportExportService) processTenants(ctx context.Context, tenants []string) (int, int) {
	semaphore := make(chan struct{}, s.maxConcurrentJobs())

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		exported int
		failed   int
	)

	for _, tenantID := range tenants {
		wg.Add(1)
		semaphore <- struct{}{} // Adquirir semáforo

		go func(tenant string) {
			defer func() {
				<-semaphore // Liberar semáforo
				wg.Done()
			}()

			path, err := s.exportTenant(ctx, tenant)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				failed++
				logrus.WithError(err).WithField("tenant_id", tenant).Error("Erro ao exportar relatório do tenant")
				return
			}

			exported++
			logrus.WithFields(logrus.Fields{
				"tenant_id": tenant,
				"path":      path,
			}).Info("Relatório exportado com sucesso")
		}(tenantID)
	}

	wg.Wait()

	return exported, failed
}

func (s *ReportExportService) exportTenant(ctx context.Context, tenantID string) (string, error) {
	file, err := s.reporter.ExportReport(ctx, domain.ReportRequest{
		TenantID:         tenantID,
		Range:            domain.DateRangeInput{Preset: s.config.Range},
		ConsultantFilter: domain.ConsultantFilterAll,
	})
	if err != nil {
		return "", err
	}

	return s.writer.Write(file)
}

func (s *ReportExportService) maxConcurrentJobs() int {
	if s.config.MaxConcurrentJobs <= 0 {
		return 1
	}
	return s.config.MaxConcurrentJobs
}

// TriggerManualSync inicia manualmente uma exportação de relatórios
func (s *ReportExportService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Exportação de relatórios já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando exportação manual de relatórios")
	go s.exportReports(context.Background())
}

// GetStatus retorna o status atual da exportação
func (s *ReportExportService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_running":           s.syncRunning,
		"sync_cron":              s.config.CronSchedule,
		"sync_enabled":           s.config.SyncEnabled,
		"tenants":                len(s.config.Tenants),
		"range":                  s.config.Range,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_exported":          s.lastExported,
		"last_failed":            s.lastFailed,
	}
}

func cleanTenants(tenants []string) []string {
	out := make([]string, 0, len(tenants))
	seen := make(map[string]struct{}, len(tenants))
	for _, tenant := range tenants {
		tenant = strings.TrimSpace(tenant)
		if tenant == "" {
			continue
		}
		if _, dup := seen[tenant]; dup {
			continue
		}
		seen[tenant] = struct{}{}
		out = append(out, tenant)
	}
	return out
}
