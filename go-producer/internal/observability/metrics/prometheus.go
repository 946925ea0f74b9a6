package metrics

import (
	"net/http"
	"sync"

	"github.com/medeiros-dev/notification-template-service/pkg/notiftemplate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "go_producer"

func counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help}, labels)
}

var (
	HttpRequestsTotal = counterVec("http_requests_total",
		"HTTP requests served, by route and status code.", "endpoint", "status")
	HttpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency, by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})

	KafkaPublishTotal = counterVec("kafka_publish_total",
		"Kafka publish attempts, by result.", "result")
	KafkaPublishDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "kafka_publish_duration_seconds",
		Help:      "Time spent writing one notification to Kafka.",
		Buckets:   prometheus.DefBuckets,
	})
	ErrorTotal = counterVec("error_total", "Errors, by type.", "type")

	MessagesReceivedTotal = counterVec("messages_received_total",
		"Channel deliveries accepted for publishing, by channel_type.", "channel_type")
	MessagesSentSuccessTotal = counterVec("messages_sent_success_total",
		"Channel deliveries published to Kafka, by channel_type.", "channel_type")
	MessagesSentFailedTotal = counterVec("messages_sent_failed_total",
		"Channel deliveries that failed to publish, by channel_type.", "channel_type")

	TemplatePlaceholdersTotal = counterVec("template_placeholders_total",
		"Template placeholders parsed, by placeholder type.", "type")
	TemplateUnresolvedSpansTotal = counterVec("template_unresolved_spans_total",
		"Template placeholders whose text could not be located, by placeholder type.", "type")

	InboxReadsTotal = counterVec("inbox_reads_total", "Inbox feed reads, by result.", "result")
)

var registerOnce sync.Once

// InitMetrics registers the producer collectors with the default registry.
// Later calls are no-ops.
func InitMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HttpRequestsTotal, HttpRequestDuration,
			KafkaPublishTotal, KafkaPublishDuration, ErrorTotal,
			MessagesReceivedTotal, MessagesSentSuccessTotal, MessagesSentFailedTotal,
			TemplatePlaceholdersTotal, TemplateUnresolvedSpansTotal,
			InboxReadsTotal,
		)
	})
}

// ObserveSpans counts parsed placeholders and the ones left unresolved.
func ObserveSpans(spans []notiftemplate.PlaceholderSpan) {
	for _, s := range spans {
		label := string(s.Type)
		if s.Type == notiftemplate.TypeUnknown {
			label = "unknown"
		}
		TemplatePlaceholdersTotal.WithLabelValues(label).Inc()
		if !s.Resolved() {
			TemplateUnresolvedSpansTotal.WithLabelValues(label).Inc()
		}
	}
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
