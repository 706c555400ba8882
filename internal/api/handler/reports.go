package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/vfg2006/realestate-crm-analytics/internal/domain"
	"github.com/vfg2006/realestate-crm-analytics/internal/usecases/reporting"
	"github.com/vfg2006/realestate-crm-analytics/pkg/apiErrors"
	"github.com/vfg2006/realestate-crm-analytics/pkg/log"
	"github.com/vfg2006/realestate-crm-analytics/pkg/middleware"
)

// GetReport gera o relatório analítico do tenant autenticado
func GetReport(service reporting.Reporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		req, ok := reportRequestFromHTTP(w, r)
		if !ok {
			return
		}

		logger.WithFields(log.Fields{
			"tenant_id":  req.TenantID,
			"range":      req.Range.Preset,
			"start_date": req.Range.StartDate,
			"end_date":   req.Range.EndDate,
			"consultant": req.ConsultantFilter,
		}).Info("reports: generating report")

		report, err := service.GenerateReport(r.Context(), req)
		if err != nil {
			writeReportError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")

		if err := json.NewEncoder(w).Encode(report); err != nil {
			logger.WithError(err).Error("reports: failed to encode response")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao codificar resposta", nil)
		}
	})
}

// ExportReport devolve o relatório como arquivo JSON para download
func ExportReport(service reporting.Reporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		req, ok := reportRequestFromHTTP(w, r)
		if !ok {
			return
		}

		file, err := service.ExportReport(r.Context(), req)
		if err != nil {
			writeReportError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", file.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))

		if _, err := w.Write(file.Content); err != nil {
			logger.WithError(err).Error("reports: failed to write export")
		}
	})
}

// reportRequestFromHTTP monta a requisição a partir das claims e da query string
func reportRequestFromHTTP(w http.ResponseWriter, r *http.Request) (domain.ReportRequest, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
		return domain.ReportRequest{}, false
	}

	query := r.URL.Query()

	consultant := strings.TrimSpace(query.Get("consultant"))
	if claims.IsConsultant() {
		// Consultor só enxerga a própria carteira
		if consultant != "" && consultant != claims.ConsultantID {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Consultores só podem consultar os próprios registros", nil)
			return domain.ReportRequest{}, false
		}
		consultant = claims.ConsultantID
	}

	return domain.ReportRequest{
		TenantID: claims.TenantID,
		Range: domain.DateRangeInput{
			Preset:    query.Get("range"),
			StartDate: query.Get("start_date"),
			EndDate:   query.Get("end_date"),
		},
		ConsultantFilter: consultant,
	}, true
}

func writeReportError(w http.ResponseWriter, r *http.Request, err error) {
	logger := log.ForContext(r.Context()).WithError(err)

	var reportErr *reporting.ReportError
	if errors.As(err, &reportErr) {
		if reportErr.Code == reporting.CodeDataUnavailable {
			logger.Error("reports: record store unavailable")
		} else {
			logger.Warn("reports: invalid report request")
		}
		apiErrors.WriteError(w, reportErr.Code, reportErr.Error(), nil)
		return
	}

	switch {
	case errors.Is(err, reporting.ErrDataUnavailable):
		logger.Error("reports: record store unavailable")
		apiErrors.WriteError(w, apiErrors.ErrReportDataUnavailable, "Fonte de registros indisponível", nil)
	case errors.Is(err, reporting.ErrInvalidDateRange):
		apiErrors.WriteError(w, apiErrors.ErrReportDateRange, "Período inválido", nil)
	case errors.Is(err, reporting.ErrInvalidRequest), errors.Is(err, reporting.ErrTenantRequired):
		apiErrors.WriteError(w, apiErrors.ErrReportRequest, "Requisição de relatório inválida", nil)
	default:
		logger.Error("reports: unexpected error")
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao gerar relatório", nil)
	}
}
