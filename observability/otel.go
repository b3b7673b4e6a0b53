// Copyright 2026 The JazzPetri Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName is the instrumentation scope of checker spans.
const tracerName = "github.com/jazzpetri/probcheck"

// OtelTracer adapts an OpenTelemetry tracer provider to Tracer.
type OtelTracer struct {
	tracer trace.Tracer
	ctx    context.Context
}

// NewOtelTracer creates a tracer from tp. A nil tp selects the global
// provider registered with otel.SetTracerProvider.
func NewOtelTracer(tp trace.TracerProvider) *OtelTracer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &OtelTracer{tracer: tp.Tracer(tracerName), ctx: context.Background()}
}

// WithContext returns a tracer whose spans are children of the span in ctx.
func (t *OtelTracer) WithContext(ctx context.Context) *OtelTracer {
	return &OtelTracer{tracer: t.tracer, ctx: ctx}
}

// StartSpan starts an OpenTelemetry span.
func (t *OtelTracer) StartSpan(name string) Span {
	_, span := t.tracer.Start(t.ctx, name)
	return &otelSpan{span: span}
}

type otelSpan struct {
	span trace.Span
}

func (s *otelSpan) End() {
	s.span.End()
}

func (s *otelSpan) SetAttribute(key string, value interface{}) {
	s.span.SetAttributes(toAttribute(key, value))
}

func (s *otelSpan) RecordError(err error) {
	if err == nil {
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

func toAttribute(key string, value interface{}) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case bool:
		return attribute.Bool(key, v)
	case float64:
		return attribute.Float64(key, v)
	case fmt.Stringer:
		return attribute.String(key, v.String())
	default:
		return attribute.String(key, fmt.Sprint(v))
	}
}
