package reporting

import (
	"errors"
	"fmt"
)

// Erros específicos para o contexto de relatórios
var (
	// Erros de carga
	ErrDataUnavailable = errors.New("data unavailable")
	ErrTenantRequired  = errors.New("tenant ID is required")

	// Erros de validação
	ErrInvalidDateRange = errors.New("invalid date range")
	ErrInvalidRequest   = errors.New("invalid report request")

	// Erros de exportação
	ErrExportReport = errors.New("error exporting report")
	ErrGenerateID   = errors.New("error generating report ID")
)

// Códigos de erro expostos pela API
const (
	CodeDataUnavailable  = "REP_001"
	CodeInvalidDateRange = "REP_002"
	CodeInvalidRequest   = "REP_003"
	CodeExport           = "REP_004"
)

// ReportError é um erro com contexto adicional para relatórios
type ReportError struct {
	Err      error  // Erro base
	Code     string // Código de erro para API
	TenantID string // Tenant envolvido (quando aplicável)
	Details  string // Detalhes adicionais
}

// Error implementa a interface error
func (e *ReportError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *ReportError) Unwrap() error {
	return e.Err
}

// NewReportError cria um novo ReportError
func NewReportError(err error, code string, details string) *ReportError {
	return &ReportError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}

// NewReportErrorWithTenant cria um novo ReportError com o tenant
func NewReportErrorWithTenant(err error, code string, tenantID string, details string) *ReportError {
	return &ReportError{
		Err:      err,
		Code:     code,
		TenantID: tenantID,
		Details:  details,
	}
}

func dataUnavailable(tenantID string, err error) *ReportError {
	return NewReportErrorWithTenant(ErrDataUnavailable, CodeDataUnavailable, tenantID, err.Error())
}
