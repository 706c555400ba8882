package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/realestate-crm-analytics/pkg/apiErrors"
)

// Pinger verifica a disponibilidade da fonte de registros
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthcheckHandler(store Pinger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if store != nil {
			if err := store.Ping(r.Context()); err != nil {
				logrus.WithError(err).Warn("healthcheck: record store unreachable")
				apiErrors.WriteError(w, apiErrors.ErrReportDataUnavailable, "Fonte de registros indisponível", nil)
				return
			}
		}

		_, err := w.Write([]byte(time.Now().String()))
		if err != nil {
			logrus.WithError(err).Warn("error responding to healthcheck")
		}
	})
}
