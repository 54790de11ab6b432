package audit2pdf

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Geometry describes the emulated viewport and the printed page.
type Geometry struct {
	ViewportWidth     int
	ViewportHeight    int
	DeviceScaleFactor float64

	// Paper size in inches. Margins are always zero.
	PaperWidth  float64
	PaperHeight float64

	// SettleTimeout bounds the load-and-settle step.
	SettleTimeout time.Duration
}

// A4Geometry is the only geometry the report is designed for.
var A4Geometry = Geometry{
	ViewportWidth:     1240,
	ViewportHeight:    1754,
	DeviceScaleFactor: 1,
	PaperWidth:        8.27,
	PaperHeight:       11.69,
	SettleTimeout:     30 * time.Second,
}

// Session is one running browser instance. It renders at most one
// document and must be closed exactly once by its owner.
type Session interface {
	Render(ctx context.Context, markup string, g Geometry) ([]byte, error)
	Close() error
}

// Strategy launches browser sessions. It is selected once at startup.
type Strategy interface {
	Name() string
	Launch(ctx context.Context) (Session, error)
}

// Converter turns markup into PDF bytes.
type Converter interface {
	ToPDF(ctx context.Context, markup string, g Geometry) ([]byte, error)
}

// Compile-time interface checks
var (
	_ Converter = (*Engine)(nil)
	_ Strategy  = LocalStrategy{}
	_ Strategy  = ManagedStrategy{}
	_ Session   = (*rodSession)(nil)
)

// Engine orchestrates one fresh browser session per document.
type Engine struct {
	strategy Strategy
	limiter  *SessionLimiter
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithSessionLimit bounds concurrent browser sessions.
// n <= 0 resolves the limit from GOMAXPROCS.
func WithSessionLimit(n int) EngineOption {
	return func(e *Engine) {
		e.limiter = NewSessionLimiter(ResolveSessionLimit(n))
	}
}

// NewEngine creates an Engine launching sessions through strategy.
func NewEngine(strategy Strategy, opts ...EngineOption) *Engine {
	e := &Engine{strategy: strategy}
	for _, opt := range opts {
		opt(e)
	}
	if e.limiter == nil {
		e.limiter = NewSessionLimiter(ResolveSessionLimit(0))
	}
	return e
}

// Strategy returns the strategy the engine launches sessions with.
func (e *Engine) Strategy() Strategy {
	return e.strategy
}

// SessionLimit returns the maximum number of concurrent sessions.
func (e *Engine) SessionLimit() int {
	return e.limiter.Size()
}

// ToPDF renders markup in a fresh browser session and returns the PDF
// bytes. The session is closed on every exit path, panics included; a
// close failure is logged and never replaces the primary error.
// Failures are reported as *RenderError. There are no retries.
func (e *Engine) ToPDF(ctx context.Context, markup string, g Geometry) (pdf []byte, err error) {
	log := zerolog.Ctx(ctx)

	if err := e.limiter.Acquire(ctx); err != nil {
		return nil, &RenderError{Op: "acquire", Err: err}
	}
	defer e.limiter.Release()

	start := time.Now()
	session, err := e.strategy.Launch(ctx)
	if err != nil {
		return nil, &RenderError{Op: "launch", Err: err}
	}

	defer func() {
		if r := recover(); r != nil {
			pdf = nil
			err = &RenderError{Op: "render", Err: fmt.Errorf("%w: panic: %v", ErrPDFGeneration, r)}
		}
		if cerr := session.Close(); cerr != nil {
			log.Warn().Err(cerr).Str("strategy", e.strategy.Name()).Msg("closing browser session")
		}
		log.Debug().
			Str("strategy", e.strategy.Name()).
			Dur("elapsed", time.Since(start)).
			Bool("ok", err == nil).
			Msg("browser session finished")
	}()

	pdf, err = session.Render(ctx, markup, g)
	if err != nil {
		return nil, &RenderError{Op: "render", Err: err}
	}
	return pdf, nil
}
