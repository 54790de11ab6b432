package audit2pdf

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// instrumentationName identifies this package's spans.
const instrumentationName = "github.com/alnah/go-audit2pdf"

// Generator runs the report pipeline: decode, validate, render, rasterize.
// It holds no per-request state and is safe for concurrent use.
type Generator struct {
	renderer  *Renderer
	converter Converter
	geometry  Geometry
	tracer    trace.Tracer
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithTracerProvider records pipeline spans with tp.
func WithTracerProvider(tp trace.TracerProvider) GeneratorOption {
	return func(g *Generator) {
		if tp != nil {
			g.tracer = tp.Tracer(instrumentationName)
		}
	}
}

// WithGeometry overrides the page geometry. Intended for tests.
func WithGeometry(geo Geometry) GeneratorOption {
	return func(g *Generator) {
		g.geometry = geo
	}
}

// NewGenerator creates a Generator.
func NewGenerator(renderer *Renderer, converter Converter, opts ...GeneratorOption) *Generator {
	g := &Generator{
		renderer:  renderer,
		converter: converter,
		geometry:  A4Geometry,
		tracer:    noop.NewTracerProvider().Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Parse decodes and validates a request body.
// Errors match ErrInvalidJSON or ErrValidation.
func (g *Generator) Parse(ctx context.Context, body []byte) (*Report, error) {
	_, span := g.tracer.Start(ctx, "audit2pdf.decode",
		trace.WithAttributes(attribute.Int("body.bytes", len(body))))
	data, err := DecodeJSON(body)
	endSpan(span, err)
	if err != nil {
		return nil, err
	}

	_, span = g.tracer.Start(ctx, "audit2pdf.validate")
	report, err := Validate(data)
	if err == nil {
		span.SetAttributes(
			attribute.Int("report.blocks", len(report.Blocks)),
			attribute.Int("report.issues", report.IssueCount()),
		)
	}
	endSpan(span, err)
	return report, err
}

// HTML renders the report document.
func (g *Generator) HTML(ctx context.Context, report *Report) string {
	_, span := g.tracer.Start(ctx, "audit2pdf.render")
	defer span.End()

	markup := g.renderer.Render(report)
	span.SetAttributes(attribute.Int("html.bytes", len(markup)))
	return markup
}

// PDF renders the report and rasterizes it in a browser session.
func (g *Generator) PDF(ctx context.Context, report *Report) (pdf []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			pdf, err = nil, panicError(r)
		}
	}()

	markup := g.HTML(ctx, report)

	ctx, span := g.tracer.Start(ctx, "audit2pdf.rasterize")
	defer func() {
		if r := recover(); r != nil {
			pdf, err = nil, panicError(r)
		}
		if err == nil {
			span.SetAttributes(attribute.Int("pdf.bytes", len(pdf)))
		}
		endSpan(span, err)
	}()

	return g.converter.ToPDF(ctx, markup, g.geometry)
}

func panicError(r any) error {
	return fmt.Errorf("%w: internal panic: %v", ErrPDFGeneration, r)
}

// Generate runs the whole pipeline on a raw request body. The report is
// returned whenever validation succeeded, even if rasterizing failed.
func (g *Generator) Generate(ctx context.Context, body []byte) (*Report, []byte, error) {
	report, err := g.Parse(ctx, body)
	if err != nil {
		return nil, nil, err
	}
	pdf, err := g.PDF(ctx, report)
	return report, pdf, err
}

// endSpan records err on span and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
