package transport

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeSuccess         = "success"
	outcomeRetried         = "retried"
	outcomeUnauthenticated = "unauthenticated"
	outcomeRequestFailed   = "request_failed"
	outcomeSessionExpired  = "session_expired"

	refreshSuccess = "success"
	refreshFailure = "failure"
)

// Metrics counts executor outcomes.
type Metrics struct {
	Requests  *prometheus.CounterVec
	Refreshes *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them when registerer is not nil.
func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	ret := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashclient",
			Name:      "authenticated_requests_total",
			Help:      "Authenticated calls by final outcome.",
		}, []string{"outcome"}),
		Refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashclient",
			Name:      "token_refreshes_total",
			Help:      "Token refresh endpoint calls by result.",
		}, []string{"result"}),
	}
	if registerer == nil {
		return ret, nil
	}
	for _, collector := range []prometheus.Collector{ret.Requests, ret.Refreshes} {
		if err := registerer.Register(collector); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

func (m *Metrics) observeRequest(outcome string) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeRefresh(result string) {
	if m == nil {
		return
	}
	m.Refreshes.WithLabelValues(result).Inc()
}
