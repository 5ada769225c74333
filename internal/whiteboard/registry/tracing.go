package registry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"whiteboard/internal/whiteboard/models"
)

const (
	traceScopeRegistry = "whiteboard.registry"

	traceSpanAddContext    = "whiteboard.registry.add_context"
	traceSpanRemoveContext = "whiteboard.registry.remove_context"
	traceSpanAddService    = "whiteboard.registry.add_service"
	traceSpanRemoveService = "whiteboard.registry.remove_service"
	traceSpanStart         = "whiteboard.registry.start"
	traceSpanStop          = "whiteboard.registry.stop"

	traceAttrDeclarationID = "whiteboard.declaration_id"
	traceAttrKind          = "whiteboard.kind"
	traceAttrContextName   = "whiteboard.context_name"
	traceAttrStatus        = "whiteboard.status"
)

func (m *Manager) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func declarationAttrs(id models.ServiceID, kind string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int64(traceAttrDeclarationID, int64(id)),
		attribute.String(traceAttrKind, kind),
	}
}

func markSpanResult(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String(traceAttrStatus, "error"))
		return
	}
	span.SetStatus(codes.Ok, "")
	span.SetAttributes(attribute.String(traceAttrStatus, "success"))
}
