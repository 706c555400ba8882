package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/realestate-crm-analytics/internal/domain"
	"github.com/vfg2006/realestate-crm-analytics/internal/usecases/reporting"
	"github.com/vfg2006/realestate-crm-analytics/internal/usecases/reporting/mocks"
	"github.com/vfg2006/realestate-crm-analytics/pkg/middleware"
	"go.uber.org/mock/gomock"
)

func requestWithClaims(method, target string, claims *domain.Claims) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	if claims != nil {
		req = req.WithContext(middleware.WithClaims(req.Context(), claims))
	}
	return req
}

func TestGetReport(t *testing.T) {
	manager := &domain.Claims{TenantID: "imob-1", UserRoleID: domain.RoleManager}
	consultant := &domain.Claims{TenantID: "imob-1", ConsultantID: "c-1", UserRoleID: domain.RoleConsultant}

	tests := []struct {
		name       string
		target     string
		claims     *domain.Claims
		setup      func(m *mocks.MockReporter)
		wantStatus int
		wantBody   string
	}{
		{
			name:   "gestor escolhe consultor e período",
			target: "/v1/reports?range=7d&consultant=c-2",
			claims: manager,
			setup: func(m *mocks.MockReporter) {
				m.EXPECT().
					GenerateReport(gomock.Any(), domain.ReportRequest{
						TenantID:         "imob-1",
						Range:            domain.DateRangeInput{Preset: "7d"},
						ConsultantFilter: "c-2",
					}).
					Return(&domain.Report{ID: "abc123", TenantID: "imob-1", GeneratedAt: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"id":"abc123"`,
		},
		{
			name:   "consultor é forçado à própria carteira",
			target: "/v1/reports?start_date=2024-05-01&end_date=2024-05-31",
			claims: consultant,
			setup: func(m *mocks.MockReporter) {
				m.EXPECT().
					GenerateReport(gomock.Any(), domain.ReportRequest{
						TenantID:         "imob-1",
						Range:            domain.DateRangeInput{StartDate: "2024-05-01", EndDate: "2024-05-31"},
						ConsultantFilter: "c-1",
					}).
					Return(&domain.Report{ID: "def456"}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"id":"def456"`,
		},
		{
			name:       "consultor pedindo outro consultor",
			target:     "/v1/reports?consultant=c-2",
			claims:     consultant,
			setup:      func(m *mocks.MockReporter) {},
			wantStatus: http.StatusForbidden,
			wantBody:   "AUTH_008",
		},
		{
			name:       "sem usuário autenticado",
			target:     "/v1/reports",
			setup:      func(m *mocks.MockReporter) {},
			wantStatus: http.StatusUnauthorized,
			wantBody:   "AUTH_006",
		},
		{
			name:   "período inválido",
			target: "/v1/reports?range=ontem",
			claims: manager,
			setup: func(m *mocks.MockReporter) {
				m.EXPECT().GenerateReport(gomock.Any(), gomock.Any()).
					Return(nil, reporting.NewReportError(reporting.ErrInvalidDateRange, reporting.CodeInvalidDateRange, "preset desconhecido"))
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   "REP_002",
		},
		{
			name:   "fonte indisponível",
			target: "/v1/reports",
			claims: manager,
			setup: func(m *mocks.MockReporter) {
				m.EXPECT().GenerateReport(gomock.Any(), gomock.Any()).
					Return(nil, reporting.NewReportErrorWithTenant(reporting.ErrDataUnavailable, reporting.CodeDataUnavailable, "imob-1", context.DeadlineExceeded.Error()))
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "REP_001",
		},
		{
			name:   "erro sem código",
			target: "/v1/reports",
			claims: manager,
			setup: func(m *mocks.MockReporter) {
				m.EXPECT().GenerateReport(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   "SRV_001",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := mocks.NewMockReporter(ctrl)
			tt.setup(service)

			rec := httptest.NewRecorder()
			GetReport(service).ServeHTTP(rec, requestWithClaims(http.MethodGet, tt.target, tt.claims))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestExportReport(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := mocks.NewMockReporter(ctrl)
	service.EXPECT().
		ExportReport(gomock.Any(), domain.ReportRequest{
			TenantID:         "imob-1",
			Range:            domain.DateRangeInput{Preset: "30d"},
			ConsultantFilter: "",
		}).
		Return(&domain.ReportExport{
			FileName:    "relatorio-imob-1-2024-05-02-2024-06-01-abc123.json",
			ContentType: "application/json",
			Content:     []byte(`{"id":"abc123"}`),
		}, nil)

	rec := httptest.NewRecorder()
	req := requestWithClaims(http.MethodGet, "/v1/reports/export?range=30d", &domain.Claims{TenantID: "imob-1", UserRoleID: domain.RoleAdmin})
	ExportReport(service).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="relatorio-imob-1-2024-05-02-2024-06-01-abc123.json"`, rec.Header().Get("Content-Disposition"))
	assert.JSONEq(t, `{"id":"abc123"}`, rec.Body.String())
}

func TestExportReport_Erro(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := mocks.NewMockReporter(ctrl)
	service.EXPECT().ExportReport(gomock.Any(), gomock.Any()).
		Return(nil, reporting.NewReportError(reporting.ErrExportReport, reporting.CodeExport, "json"))

	rec := httptest.NewRecorder()
	ExportReport(service).ServeHTTP(rec, requestWithClaims(http.MethodGet, "/v1/reports/export", &domain.Claims{TenantID: "imob-1", UserRoleID: domain.RoleAdmin}))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "REP_004")
}
