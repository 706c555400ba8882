package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/realestate-crm-analytics/infrastructure/repository"
	"github.com/vfg2006/realestate-crm-analytics/internal/config"
	"github.com/vfg2006/realestate-crm-analytics/internal/domain"
	"github.com/vfg2006/realestate-crm-analytics/pkg/log"
	"github.com/vfg2006/realestate-crm-analytics/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const exportContentType = "application/json"

// Service implementa Reporter encadeando carga, agregação e as análises derivadas
type Service struct {
	loader          *Loader
	aggregator      *Aggregator
	forecast        *ForecastEngine
	detector        *AnomalyDetector
	scorer          *LeadScorer
	recommendations *RecommendationGenerator
	now             func() time.Time
	newID           func() (string, error)
}

// NewService cria uma nova instância do serviço de relatórios
func NewService(cfg *config.Config, store repository.RecordStore) Reporter {
	return newService(cfg.Analytics, store, time.Now)
}

func newService(cfg config.Analytics, store repository.RecordStore, now func() time.Time) *Service {
	return &Service{
		loader:          NewLoader(store, cfg.LoadTimeout),
		aggregator:      NewAggregator(cfg),
		forecast:        NewForecastEngine(cfg),
		detector:        NewAnomalyDetector(cfg),
		scorer:          NewLeadScorer(cfg),
		recommendations: NewRecommendationGenerator(cfg),
		now:             now,
		newID:           utils.GenerateID,
	}
}

func (s *Service) GenerateReport(ctx context.Context, req domain.ReportRequest) (*domain.Report, error) {
	if strings.TrimSpace(req.TenantID) == "" {
		return nil, NewReportError(ErrDataUnavailable, CodeDataUnavailable, ErrTenantRequired.Error())
	}

	now := s.now().UTC()

	dateRange, err := ResolveDateRange(req.Range, now)
	if err != nil {
		return nil, err
	}

	consultant := strings.TrimSpace(req.ConsultantFilter)
	if consultant == "" {
		consultant = domain.ConsultantFilterAll
	}

	logger := log.ForContext(ctx).WithFields(log.Fields{
		"tenant_id":  req.TenantID,
		"range":      dateRange.Preset,
		"consultant": consultant,
	})

	records, err := s.loader.Load(ctx, req.TenantID, dateRange, consultant)
	if err != nil {
		return nil, err
	}

	metrics := s.aggregator.Aggregate(records, now)

	predictions := s.forecast.ForecastDeals(
		DailyDealSeries(records.Deals),
		metrics.Financial.AvgDealValue,
		metrics.Summary.TotalDeals,
		metrics.Financial.TotalDealValue,
	)

	anomalies := s.detector.Detect(DealValueSeries(records.Deals))
	scoring := s.scorer.ScoreLeads(records.Leads)

	recommendations := s.recommendations.Generate(RecommendationInput{
		Metrics:     metrics,
		Predictions: predictions,
		Anomalies:   anomalies,
		LeadScoring: scoring,
	})

	id, err := s.newID()
	if err != nil {
		logger.WithError(err).Error("Erro ao gerar ID do relatório")
		return nil, NewReportErrorWithTenant(ErrGenerateID, CodeExport, req.TenantID, err.Error())
	}

	logger.Infof("Relatório %s gerado: %d recomendações, %d anomalias", id, len(recommendations), len(anomalies))

	return &domain.Report{
		ID:               id,
		TenantID:         req.TenantID,
		GeneratedAt:      now,
		DateRange:        dateRange,
		ConsultantFilter: consultant,
		Summary:          metrics.Summary,
		Conversions:      metrics.Conversions,
		Financial:        metrics.Financial,
		Predictions:      predictions,
		Recommendations:  recommendations,
		LeadScoring:      scoring,
		Anomalies:        anomalies,
	}, nil
}

func (s *Service) ExportReport(ctx context.Context, req domain.ReportRequest) (*domain.ReportExport, error) {
	report, err := s.GenerateReport(ctx, req)
	if err != nil {
		return nil, err
	}

	content, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, NewReportErrorWithTenant(ErrExportReport, CodeExport, req.TenantID, err.Error())
	}

	return &domain.ReportExport{
		FileName:    ExportFileName(report),
		ContentType: exportContentType,
		Content:     content,
	}, nil
}

// ExportFileName segue o padrão relatorio-<tenant>-<inicio>-<fim>-<id>.json
func ExportFileName(report *domain.Report) string {
	return fmt.Sprintf("relatorio-%s-%s-%s-%s.json",
		sanitizeFileToken(report.TenantID),
		report.DateRange.Start.Format(utils.DateLayout),
		report.DateRange.End.Format(utils.DateLayout),
		report.ID,
	)
}

func sanitizeFileToken(value string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, value)
}
