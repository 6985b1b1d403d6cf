package query

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeRows     = "rows"
	outcomeStatus   = "status"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)

type Metrics struct {
	queries *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	queries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cryptodb_queries_total",
		Help: "Dispatched statements by outcome",
	}, []string{"kind"})

	if err := reg.Register(queries); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, fmt.Errorf("register queries metric: %w", err)
		}
		queries = are.ExistingCollector.(*prometheus.CounterVec)
	}

	return &Metrics{queries: queries}, nil
}

func (m *Metrics) observe(outcome string) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(outcome).Inc()
}
