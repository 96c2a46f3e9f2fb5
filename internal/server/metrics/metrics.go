// Package metrics counts token lifecycle events.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Reasons a refresh attempt is rejected. Callers only ever see an invalid
// token error; the reason is for operators.
const (
	ReasonNotFound    = "not_found"
	ReasonExpired     = "expired"
	ReasonRevoked     = "revoked"
	ReasonRace        = "race"
	ReasonUserMissing = "user_missing"
)

// Recorder receives token lifecycle events.
type Recorder interface {
	TokenIssued()
	TokenRefreshed()
	TokenRevoked()
	RefreshRejected(reason string)
	RefreshReplay()
}

// NopRecorder drops every event.
type NopRecorder struct{}

func (NopRecorder) TokenIssued()           {}
func (NopRecorder) TokenRefreshed()        {}
func (NopRecorder) TokenRevoked()          {}
func (NopRecorder) RefreshRejected(string) {}
func (NopRecorder) RefreshReplay()         {}

// PrometheusRecorder exports events as Prometheus counters.
type PrometheusRecorder struct {
	issued    prometheus.Counter
	refreshed prometheus.Counter
	revoked   prometheus.Counter
	rejected  *prometheus.CounterVec
	replay    prometheus.Counter
}

// NewPrometheusRecorder creates the counters and registers them on reg.
func NewPrometheusRecorder(reg prometheus.Registerer) (*PrometheusRecorder, error) {
	r := &PrometheusRecorder{
		issued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tokens_issued_total",
			Help: "Total number of token pairs issued",
		}),
		refreshed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tokens_refreshed_total",
			Help: "Total number of successful refresh token rotations",
		}),
		revoked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tokens_revoked_total",
			Help: "Total number of refresh tokens revoked by logout",
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "refresh_rejected_total",
			Help: "Total number of rejected refresh attempts by reason",
		}, []string{"reason"}),
		replay: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "refresh_replay_total",
			Help: "Total number of refresh attempts with an already rotated token",
		}),
	}

	for _, c := range []prometheus.Collector{r.issued, r.refreshed, r.revoked, r.rejected, r.replay} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *PrometheusRecorder) TokenIssued() {
	r.issued.Inc()
}

func (r *PrometheusRecorder) TokenRefreshed() {
	r.refreshed.Inc()
}

func (r *PrometheusRecorder) TokenRevoked() {
	r.revoked.Inc()
}

func (r *PrometheusRecorder) RefreshRejected(reason string) {
	r.rejected.WithLabelValues(reason).Inc()
}

func (r *PrometheusRecorder) RefreshReplay() {
	r.replay.Inc()
}
