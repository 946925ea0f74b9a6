package broker

import (
	"strconv"

	"github.com/medeiros-dev/notification-template-service/consumer/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	RetryHeader      = "x-retry-count"
	retryDelayHeader = "x-retry-delay"
	dlqReasonHeader  = "x-dlq-reason"
)

// getRetryCount reads the retry header; a missing or invalid header counts as 0.
func getRetryCount(headers []kafka.Header) int {
	for _, h := range headers {
		if h.Key != RetryHeader {
			continue
		}
		count, err := strconv.Atoi(string(h.Value))
		if err != nil {
			logger.L().Warn("Invalid retry header value",
				zap.ByteString("headerValue", h.Value),
				zap.Error(err),
			)
			return 0
		}
		return count
	}
	return 0
}

func updateRetryHeader(headers []kafka.Header, retryCount int) []kafka.Header {
	return setHeader(headers, RetryHeader, strconv.Itoa(retryCount))
}

// setHeader returns a copy of headers with key set to value.
func setHeader(headers []kafka.Header, key, value string) []kafka.Header {
	out := make([]kafka.Header, 0, len(headers)+1)
	found := false
	for _, h := range headers {
		if h.Key == key {
			out = append(out, kafka.Header{Key: key, Value: []byte(value)})
			found = true
			continue
		}
		out = append(out, h)
	}
	if !found {
		out = append(out, kafka.Header{Key: key, Value: []byte(value)})
	}
	return out
}
