package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vfg2006/realestate-crm-analytics/infrastructure/repository"
	"github.com/vfg2006/realestate-crm-analytics/internal/domain"
	"github.com/vfg2006/realestate-crm-analytics/pkg/log"
	"golang.org/x/sync/errgroup"
)

const defaultLoadTimeout = 20 * time.Second

// Loader busca em paralelo as coleções do tenant e normaliza os documentos
type Loader struct {
	store   repository.RecordStore
	timeout time.Duration
}

func NewLoader(store repository.RecordStore, timeout time.Duration) *Loader {
	if timeout <= 0 {
		timeout = defaultLoadTimeout
	}

	return &Loader{
		store:   store,
		timeout: timeout,
	}
}

// Load carrega todas as coleções ou nenhuma: qualquer falha de busca invalida a carga inteira
func (l *Loader) Load(ctx context.Context, tenantID string, dateRange domain.DateRange, consultantFilter string) (*domain.RecordSet, error) {
	if strings.TrimSpace(tenantID) == "" {
		return nil, NewReportError(ErrDataUnavailable, CodeDataUnavailable, ErrTenantRequired.Error())
	}

	logger := log.ForContext(ctx).WithFields(log.Fields{
		"tenant_id": tenantID,
		"start":     dateRange.Start,
		"end":       dateRange.End,
	})

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	results := make([][]domain.Document, len(domain.Collections))

	g, gctx := errgroup.WithContext(ctx)
	for i, collection := range domain.Collections {
		i, collection := i, collection
		g.Go(func() error {
			docs, err := l.store.FetchCollection(gctx, collection, tenantID, dateRange)
			if err != nil {
				return fmt.Errorf("coleção %s: %w", collection, err)
			}
			results[i] = docs
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("Erro ao carregar registros do tenant")
		return nil, dataUnavailable(tenantID, err)
	}

	set := &domain.RecordSet{
		Leads:         decodeAll[domain.Lead](ctx, domain.CollectionLeads, results[0]),
		Clients:       decodeAll[domain.Client](ctx, domain.CollectionClients, results[1]),
		Visits:        decodeAll[domain.Visit](ctx, domain.CollectionVisits, results[2]),
		Opportunities: decodeAll[domain.Opportunity](ctx, domain.CollectionOpportunities, results[3]),
		Deals:         decodeAll[domain.Deal](ctx, domain.CollectionDeals, results[4]),
		Tasks:         decodeAll[domain.Task](ctx, domain.CollectionTasks, results[5]),
	}

	set = FilterByConsultant(set, consultantFilter)

	logger.Debugf("Registros carregados: %v", set.Counts())

	return set, nil
}

// FilterByConsultant mantém apenas os registros do consultor informado.
// Tarefas são filtradas pelo responsável (AssignedTo).
func FilterByConsultant(set *domain.RecordSet, consultant string) *domain.RecordSet {
	consultant = strings.TrimSpace(consultant)
	if set == nil || consultant == "" || strings.EqualFold(consultant, domain.ConsultantFilterAll) {
		return set
	}

	return &domain.RecordSet{
		Leads:         keep(set.Leads, func(l *domain.Lead) bool { return l.ConsultantID == consultant }),
		Clients:       keep(set.Clients, func(c *domain.Client) bool { return c.ConsultantID == consultant }),
		Visits:        keep(set.Visits, func(v *domain.Visit) bool { return v.ConsultantID == consultant }),
		Opportunities: keep(set.Opportunities, func(o *domain.Opportunity) bool { return o.ConsultantID == consultant }),
		Deals:         keep(set.Deals, func(d *domain.Deal) bool { return d.ConsultantID == consultant }),
		Tasks:         keep(set.Tasks, func(t *domain.Task) bool { return t.AssignedTo == consultant }),
	}
}

func keep[T any](items []*T, match func(*T) bool) []*T {
	out := make([]*T, 0, len(items))
	for _, item := range items {
		if match(item) {
			out = append(out, item)
		}
	}
	return out
}
