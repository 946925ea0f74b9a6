// Package notificationspans resolves a text/template pair on request, for
// clients that render notifications they did not receive through the feed.
package notificationspans

import (
	"context"

	"github.com/medeiros-dev/notification-template-service/go-producer/internal/observability/metrics"
	"github.com/medeiros-dev/notification-template-service/go-producer/internal/observability/tracing"
	"github.com/medeiros-dev/notification-template-service/pkg/notiftemplate"
	"go.opentelemetry.io/otel/attribute"
)

type ResolveSpansUseCase interface {
	Execute(ctx context.Context, input ResolveSpansInputDTO) ResolveSpansOutputDTO
}

type resolveSpansUseCase struct {
	classPrefix string
}

// NewResolveSpansUseCase uses classPrefix for the CSS classes of HTML output.
func NewResolveSpansUseCase(classPrefix string) ResolveSpansUseCase {
	return &resolveSpansUseCase{classPrefix: classPrefix}
}

func (u *resolveSpansUseCase) Execute(ctx context.Context, input ResolveSpansInputDTO) ResolveSpansOutputDTO {
	_, span := tracing.Tracer.Start(ctx, "ResolveSpansUseCase.Execute")
	defer span.End()

	spans := notiftemplate.Parse(input.Text, input.Template)
	metrics.ObserveSpans(spans)
	unresolved := len(spans) - len(notiftemplate.Resolved(spans))
	span.SetAttributes(
		attribute.Int("notification.placeholders", len(spans)),
		attribute.Int("notification.unresolved_placeholders", unresolved),
	)

	return ResolveSpansOutputDTO{
		Spans:       notiftemplate.ForClient(input.Text, spans),
		Highlighted: notiftemplate.Highlight(input.Text, spans, u.highlighter(input.Format)),
		Unresolved:  unresolved,
	}
}

func (u *resolveSpansUseCase) highlighter(format string) notiftemplate.Highlighter {
	if format == "" || format == "html" {
		return notiftemplate.HTML(u.classPrefix)
	}
	return notiftemplate.HighlighterFor(format)
}
