package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/vfg2006/realestate-crm-analytics/internal/domain"
	"github.com/vfg2006/realestate-crm-analytics/pkg/utils"
)

var presetAliases = map[string]string{
	domain.RangeToday:      domain.RangeToday,
	domain.RangeLast7Days:  domain.RangeLast7Days,
	"last7days":            domain.RangeLast7Days,
	domain.RangeLast30Days: domain.RangeLast30Days,
	"last30days":           domain.RangeLast30Days,
	domain.RangeLast90Days: domain.RangeLast90Days,
	"last90days":           domain.RangeLast90Days,
}

var presetDays = map[string]int{
	domain.RangeToday:      0,
	domain.RangeLast7Days:  7,
	domain.RangeLast30Days: 30,
	domain.RangeLast90Days: 90,
}

// ResolveDateRange converte o período pedido em instantes concretos relativos a now.
// Datas explícitas têm prioridade sobre o preset; sem nenhum dos dois usa 30 dias.
func ResolveDateRange(in domain.DateRangeInput, now time.Time) (domain.DateRange, error) {
	if in.StartDate != "" || in.EndDate != "" {
		return resolveCustomRange(in.StartDate, in.EndDate, now)
	}

	preset := strings.ToLower(strings.TrimSpace(in.Preset))
	if preset == "" {
		preset = domain.RangeLast30Days
	}

	canonical, ok := presetAliases[preset]
	if !ok {
		return domain.DateRange{}, NewReportError(ErrInvalidDateRange, CodeInvalidDateRange,
			fmt.Sprintf("período desconhecido: %s", in.Preset))
	}

	end := utils.EndOfDay(now)
	start := utils.StartOfDay(now.AddDate(0, 0, -presetDays[canonical]))

	return domain.DateRange{Preset: canonical, Start: start, End: end}, nil
}

func resolveCustomRange(startDate, endDate string, now time.Time) (domain.DateRange, error) {
	if startDate == "" || endDate == "" {
		return domain.DateRange{}, NewReportError(ErrInvalidDateRange, CodeInvalidDateRange,
			"start_date e end_date devem ser informados juntos")
	}

	start, err := utils.ParseDateIn(startDate, now.Location())
	if err != nil {
		return domain.DateRange{}, NewReportError(ErrInvalidDateRange, CodeInvalidDateRange,
			fmt.Sprintf("start_date inválida: %s", startDate))
	}

	end, err := utils.ParseDateIn(endDate, now.Location())
	if err != nil {
		return domain.DateRange{}, NewReportError(ErrInvalidDateRange, CodeInvalidDateRange,
			fmt.Sprintf("end_date inválida: %s", endDate))
	}

	if start.After(end) {
		return domain.DateRange{}, NewReportError(ErrInvalidDateRange, CodeInvalidDateRange,
			"a data de início não pode ser posterior à data de fim")
	}

	return domain.DateRange{
		Preset: domain.RangeCustom,
		Start:  utils.StartOfDay(start),
		End:    utils.EndOfDay(end),
	}, nil
}
