package service

import (
	"errors"
	"sync"
	"time"

	"negotiation-api/internal/entity"
	"negotiation-api/internal/negotiation"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	transitions *prometheus.CounterVec
	lazyExpiry  prometheus.Counter
	duration    *prometheus.HistogramVec
}

var metricsSingleton = sync.OnceValue(func() *Metrics {
	return NewMetrics(prometheus.DefaultRegisterer)
})

// DefaultMetrics registers with the default prometheus registry, once.
func DefaultMetrics() *Metrics {
	return metricsSingleton()
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "negotiation",
			Name:      "transitions_total",
			Help:      "Inquiry actions by outcome.",
		}, []string{"action", "result"}),
		lazyExpiry: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "negotiation",
			Name:      "lazy_expiry_total",
			Help:      "Lapsed deadlines committed by a reader or an action.",
		}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "negotiation",
			Name:      "action_duration_seconds",
			Help:      "Time spent handling an inquiry action, storage included.",
			Buckets: []float64{
				0.001, 0.005, 0.01,
				0.025, 0.05, 0.1,
				0.25, 0.5, 1,
			},
		}, []string{"action"}),
	}
}

func (m *Metrics) observe(action entity.Action, started time.Time, err error) {
	if m == nil {
		return
	}

	m.transitions.WithLabelValues(string(action), resultLabel(err)).Inc()
	m.duration.WithLabelValues(string(action)).Observe(time.Since(started).Seconds())
}

func (m *Metrics) expired() {
	if m == nil {
		return
	}

	m.lazyExpiry.Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, negotiation.ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(err, negotiation.ErrInvalidOffer):
		return "invalid_offer"
	case errors.Is(err, negotiation.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, negotiation.ErrInquiryExpired):
		return "expired"
	case errors.Is(err, negotiation.ErrStaleRound):
		return "stale_round"
	case errors.Is(err, negotiation.ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrInquiryNotFound):
		return "not_found"
	default:
		return "error"
	}
}
