// Package audit2pdf turns a structured SEO audit report into an A4 PDF
// rendered by headless Chrome.
//
// # Quick Start
//
// Build a generator once at startup and reuse it for every request:
//
//	strategy, err := audit2pdf.NewStrategy("local", "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	engine := audit2pdf.NewEngine(strategy, audit2pdf.WithSessionLimit(0))
//	gen := audit2pdf.NewGenerator(audit2pdf.NewRenderer(css), engine)
//
//	report, pdf, err := gen.Generate(ctx, body)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(audit2pdf.ASCIIFilename(report.Domain), pdf, 0644)
//
// # Pipeline
//
// A document goes through four stages:
//
//  1. JSON decoding with numbers kept exact (DecodeJSON)
//  2. Schema validation collecting every violation (Validate)
//  3. Deterministic HTML rendering with an inlined style sheet (Renderer)
//  4. Rasterizing in a fresh browser session (Engine)
//
// Stages 1 and 2 fail with errors matching ErrInvalidJSON and ErrValidation.
// A validation failure is a *ValidationError whose Details list each
// offending path. Engine failures are *RenderError values wrapping one of
// ErrBrowserConnect, ErrPageCreate, ErrPageLoad, ErrLoadTimeout or
// ErrPDFGeneration.
//
// # Browser Strategies
//
// Two strategies exist, chosen once per process:
//
//   - local: a full Chromium, downloaded by rod on first use unless a
//     binary is given
//   - managed: an externally supplied minimal Chromium for short-lived
//     function-style hosts ("serverless" is accepted as an alias)
//
// Every document gets its own browser session, closed on every exit path.
// Concurrency is bounded by a SessionLimiter sized from GOMAXPROCS unless
// set explicitly.
package audit2pdf
