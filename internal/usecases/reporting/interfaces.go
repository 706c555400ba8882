package reporting

//go:generate mockgen -source=interfaces.go -destination=mocks/reporter.go -package=mocks

import (
	"context"

	"github.com/vfg2006/realestate-crm-analytics/internal/domain"
)

// Reporter define a interface do pipeline de relatórios consumida pela API e pelo agendador
type Reporter interface {
	// GenerateReport carrega os registros do tenant e calcula o relatório completo
	GenerateReport(ctx context.Context, req domain.ReportRequest) (*domain.Report, error)

	// ExportReport gera o relatório e o serializa em JSON pronto para download
	ExportReport(ctx context.Context, req domain.ReportRequest) (*domain.ReportExport, error)
}
