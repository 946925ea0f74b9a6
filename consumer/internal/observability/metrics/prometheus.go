package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/medeiros-dev/notification-template-service/pkg/notiftemplate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "notification"

// 1ms .. 30s; SES and SNS calls dominate the upper buckets.
var durationBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}

func channelCounter(name, help string) *prometheus.CounterVec {
	return promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "consumer",
		Name:      name,
		Help:      help,
	}, []string{"channel"})
}

func templateCounter(name, help string) *prometheus.CounterVec {
	return promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "template",
		Name:      name,
		Help:      help,
	}, []string{"type"})
}

var (
	MessagesReceived = channelCounter("messages_received_total",
		"Messages decoded from the broker, by channel.")
	MessagesProcessed = channelCounter("messages_processed_total",
		"Messages delivered and acknowledged, by channel.")
	// MessagesFailed counts first-attempt failures only; retries of the same
	// message are not counted again.
	MessagesFailed = channelCounter("messages_failed_total",
		"Messages whose first delivery attempt failed, by channel.")
	MessagesRetried = channelCounter("messages_retried_total",
		"Messages republished for another attempt, by channel.")
	MessagesDLQ = channelCounter("messages_dlq_total",
		"Messages moved to the dead letter topic, by channel.")
	MessagesDuplicate = channelCounter("messages_duplicate_total",
		"Redelivered messages acknowledged without sending, by channel.")

	ProcessingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "consumer",
		Name:      "message_processing_duration_seconds",
		Help:      "Duration of one processing attempt, by channel and outcome.",
		Buckets:   durationBuckets,
	}, []string{"channel", "success"})

	TemplatePlaceholders = templateCounter("placeholders_total",
		"Template placeholders parsed, by placeholder type.")
	TemplateUnresolvedSpans = templateCounter("unresolved_spans_total",
		"Template placeholders left without a text range, by placeholder type.")
)

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// ObserveDuration records the time since start for one processing attempt.
func ObserveDuration(channelType string, success bool, start time.Time) {
	ProcessingDuration.
		WithLabelValues(channelType, strconv.FormatBool(success)).
		Observe(time.Since(start).Seconds())
}

// ObserveSpans records placeholder and unresolved span counts by type.
func ObserveSpans(spans []notiftemplate.PlaceholderSpan) {
	for _, s := range spans {
		label := spanTypeLabel(s.Type)
		TemplatePlaceholders.WithLabelValues(label).Inc()
		if !s.Resolved() {
			TemplateUnresolvedSpans.WithLabelValues(label).Inc()
		}
	}
}

func spanTypeLabel(t notiftemplate.PlaceholderType) string {
	if t == notiftemplate.TypeUnknown {
		return "unknown"
	}
	return string(t)
}
