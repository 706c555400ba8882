package reporting

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/realestate-crm-analytics/infrastructure/repository/mocks"
	"github.com/vfg2006/realestate-crm-analytics/internal/config"
	"github.com/vfg2006/realestate-crm-analytics/internal/domain"
	"go.uber.org/mock/gomock"
)

func fixedClock() time.Time {
	return time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
}

func crmFixture() map[string][]domain.Document {
	leads := make([]domain.Document, 0, 10)
	for i := 0; i < 10; i++ {
		leads = append(leads, domain.Document{"id": "L" + string(rune('A'+i)), "source": "cold", "interestType": "aluguel", "consultantId": "ana"})
	}
	leads[0] = domain.Document{"id": "LHOT", "source": "hot", "interestType": "investimento", "budget": 400000, "interactions": 6, "consultantId": "ana"}

	return map[string][]domain.Document{
		domain.CollectionLeads: leads,
		domain.CollectionClients: {
			{"id": "C1", "consultantId": "ana"}, {"id": "C2", "consultantId": "ana"}, {"id": "C3", "consultantId": "bruno"},
		},
		domain.CollectionOpportunities: {
			{"id": "O1", "estimatedValue": 30000, "probability": 40, "consultantId": "ana"},
			{"id": "O2", "estimatedValue": 20000, "probability": 60, "consultantId": "ana"},
		},
		domain.CollectionDeals: {
			{"id": "D1", "totalValue": 50000, "commissionPercentage": 3, "status": "won", "consultantId": "ana",
				"createdAt": "2024-05-10T10:00:00Z", "closedAt": "2024-05-20T10:00:00Z"},
		},
		domain.CollectionTasks: {
			{"id": "T1", "status": "pending", "dueDate": "2024-05-25", "assignedTo": "ana"},
		},
	}
}

func TestService_GenerateReport(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockRecordStore(ctrl)
	service := newService(config.DefaultAnalytics(), store, fixedClock)
	service.newID = func() (string, error) { return "abc123", nil }

	var seenRange domain.DateRange
	fixture := crmFixture()
	store.EXPECT().
		FetchCollection(gomock.Any(), gomock.Any(), "tenant-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, collection string, _ string, dr domain.DateRange) ([]domain.Document, error) {
			seenRange = dr
			return fixture[collection], nil
		}).
		Times(len(domain.Collections))

	report, err := service.GenerateReport(context.Background(), domain.ReportRequest{
		TenantID: "tenant-1",
		Range:    domain.DateRangeInput{Preset: "30d"},
	})
	require.NoError(t, err)

	assert.Equal(t, "abc123", report.ID)
	assert.Equal(t, "tenant-1", report.TenantID)
	assert.Equal(t, fixedClock(), report.GeneratedAt)
	assert.Equal(t, domain.ConsultantFilterAll, report.ConsultantFilter)
	assert.Equal(t, seenRange, report.DateRange)
	assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), report.DateRange.Start)

	assert.Equal(t, 10, report.Summary.TotalLeads)
	assert.Equal(t, 30.0, report.Conversions.LeadToClient)
	assert.Equal(t, 50000.0, report.Financial.TotalPipelineValue)
	assert.Equal(t, 50000.0, report.Financial.AvgDealValue)
	assert.Equal(t, 1500.0, report.Financial.ProjectedCommission)
	assert.Equal(t, 10.0, report.Financial.AvgSalesCycleDays)
	assert.Equal(t, 1, report.Summary.OverdueTasks)

	// Um único dia com negócios: previsão pelo fallback
	assert.Equal(t, domain.ForecastMethodHeuristic, report.Predictions.Method)
	assert.Empty(t, report.Anomalies)

	assert.Equal(t, 1, report.LeadScoring.Distribution.Hot)
	require.Len(t, report.LeadScoring.TopLeads, 1)
	assert.Equal(t, "LHOT", report.LeadScoring.TopLeads[0].LeadID)

	kinds := make([]domain.RecommendationKind, 0, len(report.Recommendations))
	for _, rec := range report.Recommendations {
		kinds = append(kinds, rec.Kind())
	}
	assert.ElementsMatch(t, []domain.RecommendationKind{
		domain.KindPipeline, domain.KindForecast, domain.KindTasks, domain.KindLeadOpportunity,
	}, kinds)
}

func TestService_GenerateReportConsultantFilter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockRecordStore(ctrl)
	service := newService(config.DefaultAnalytics(), store, fixedClock)

	fixture := crmFixture()
	store.EXPECT().
		FetchCollection(gomock.Any(), gomock.Any(), "tenant-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, collection string, _ string, _ domain.DateRange) ([]domain.Document, error) {
			return fixture[collection], nil
		}).
		Times(len(domain.Collections))

	report, err := service.GenerateReport(context.Background(), domain.ReportRequest{
		TenantID:         "tenant-1",
		ConsultantFilter: "ana",
	})
	require.NoError(t, err)

	assert.Equal(t, "ana", report.ConsultantFilter)
	assert.Equal(t, 10, report.Summary.TotalLeads)
	assert.Equal(t, 2, report.Summary.TotalClients)
	assert.Equal(t, 20.0, report.Conversions.LeadToClient)
}

func TestService_GenerateReportErrors(t *testing.T) {
	tests := []struct {
		name  string
		req   domain.ReportRequest
		setup func(store *mocks.MockRecordStore)
		err   error
	}{
		{
			name: "Sem tenant",
			req:  domain.ReportRequest{},
			err:  ErrDataUnavailable,
		},
		{
			name: "Período inválido",
			req:  domain.ReportRequest{TenantID: "tenant-1", Range: domain.DateRangeInput{StartDate: "2024-05-10", EndDate: "2024-05-01"}},
			err:  ErrInvalidDateRange,
		},
		{
			name: "Armazenamento indisponível",
			req:  domain.ReportRequest{TenantID: "tenant-1"},
			setup: func(store *mocks.MockRecordStore) {
				store.EXPECT().
					FetchCollection(gomock.Any(), gomock.Any(), "tenant-1", gomock.Any()).
					Return(nil, errors.New("no reachable servers")).
					AnyTimes()
			},
			err: ErrDataUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			store := mocks.NewMockRecordStore(ctrl)
			if tt.setup != nil {
				tt.setup(store)
			}

			report, err := newService(config.DefaultAnalytics(), store, fixedClock).GenerateReport(context.Background(), tt.req)

			assert.Nil(t, report)
			assert.True(t, errors.Is(err, tt.err), "erro inesperado: %v", err)
		})
	}
}

func TestService_ExportReport(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockRecordStore(ctrl)
	service := newService(config.DefaultAnalytics(), store, fixedClock)
	service.newID = func() (string, error) { return "xyz789", nil }

	fixture := crmFixture()
	store.EXPECT().
		FetchCollection(gomock.Any(), gomock.Any(), "tenant/1", gomock.Any()).
		DoAndReturn(func(_ context.Context, collection string, _ string, _ domain.DateRange) ([]domain.Document, error) {
			return fixture[collection], nil
		}).
		Times(2 * len(domain.Collections))

	req := domain.ReportRequest{TenantID: "tenant/1", Range: domain.DateRangeInput{Preset: "7d"}}

	exported, err := service.ExportReport(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "relatorio-tenant_1-2024-05-25-2024-06-01-xyz789.json", exported.FileName)
	assert.Equal(t, "application/json", exported.ContentType)
	assert.True(t, strings.HasPrefix(string(exported.Content), "{"))

	// O JSON exportado volta idêntico ao relatório gerado
	var decoded domain.Report
	require.NoError(t, json.Unmarshal(exported.Content, &decoded))

	report, err := service.GenerateReport(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, *report, decoded)
}
