// Package metrics exposes Prometheus collectors for the HTTP surface and the
// account lifecycle.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dtroode/vidtube-server/internal/model"
)

const namespace = "vidtube"

const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelOperation = "operation"
	LabelResult    = "result"
	LabelKind      = "kind"
)

// Account operations counted by AccountOperations.
const (
	OpRegister       = "register"
	OpLogin          = "login"
	OpLogout         = "logout"
	OpRefresh        = "refresh"
	OpChangePassword = "change_password"
	OpUpdateAccount  = "update_account"
	OpUpdateAvatar   = "update_avatar"
	OpUpdateCover    = "update_cover_image"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Current number of HTTP requests being served",
		},
	)
)

// Business Metrics
var (
	AccountOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "account_operations_total",
			Help:      "Account lifecycle operations by outcome",
		},
		[]string{LabelOperation, LabelResult},
	)

	BlobUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blob_uploads_total",
			Help:      "Media uploads forwarded to the object store by outcome",
		},
		[]string{LabelKind, LabelResult},
	)
)

// Result maps an operation error onto a low-cardinality label value.
func Result(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, model.ErrValidation):
		return "validation"
	case errors.Is(err, model.ErrAuth):
		return "auth"
	case errors.Is(err, model.ErrExpiredToken):
		return "expired_token"
	case errors.Is(err, model.ErrNotFound):
		return "not_found"
	case errors.Is(err, model.ErrUpload):
		return "upload"
	default:
		return "internal"
	}
}

// ObserveOperation counts one account operation.
func ObserveOperation(op string, err error) {
	AccountOperations.WithLabelValues(op, Result(err)).Inc()
}

// ObserveUpload counts one media upload of the given kind.
func ObserveUpload(kind string, err error) {
	BlobUploads.WithLabelValues(kind, Result(err)).Inc()
}
