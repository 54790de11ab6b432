package audit2pdf

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

// ---------------------------------------------------------------------------
// Test fakes
// ---------------------------------------------------------------------------

// fakeSession records how it was used.
type fakeSession struct {
	mu         sync.Mutex
	pdf        []byte
	renderErr  error
	closeErr   error
	panicWith  any
	closeCalls int
	gotMarkup  string
	gotGeo     Geometry
}

func (s *fakeSession) Render(_ context.Context, markup string, g Geometry) ([]byte, error) {
	s.mu.Lock()
	s.gotMarkup = markup
	s.gotGeo = g
	s.mu.Unlock()

	if s.panicWith != nil {
		panic(s.panicWith)
	}
	return s.pdf, s.renderErr
}

func (s *fakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeCalls++
	return s.closeErr
}

func (s *fakeSession) closed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeCalls
}

// fakeStrategy hands out one session per Launch.
type fakeStrategy struct {
	mu        sync.Mutex
	launchErr error
	newSess   func() *fakeSession
	sessions  []*fakeSession
}

func (f *fakeStrategy) Name() string { return "fake" }

func (f *fakeStrategy) Launch(context.Context) (Session, error) {
	if f.launchErr != nil {
		return nil, f.launchErr
	}
	s := &fakeSession{pdf: []byte("%PDF-1.4")}
	if f.newSess != nil {
		s = f.newSess()
	}
	f.mu.Lock()
	f.sessions = append(f.sessions, s)
	f.mu.Unlock()
	return s, nil
}

func (f *fakeStrategy) launched() []*fakeSession {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*fakeSession(nil), f.sessions...)
}

// Compile-time interface checks
var (
	_ Strategy = (*fakeStrategy)(nil)
	_ Session  = (*fakeSession)(nil)
)

// ---------------------------------------------------------------------------
// TestEngine_ToPDF
// ---------------------------------------------------------------------------

func TestEngine_ToPDF_Success(t *testing.T) {
	t.Parallel()

	strategy := &fakeStrategy{}
	engine := NewEngine(strategy, WithSessionLimit(1))

	pdf, err := engine.ToPDF(context.Background(), "<html></html>", A4Geometry)
	if err != nil {
		t.Fatalf("ToPDF() error = %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("ToPDF() = %q, want PDF bytes", pdf)
	}

	sessions := strategy.launched()
	if len(sessions) != 1 {
		t.Fatalf("launched %d sessions, want 1", len(sessions))
	}
	if got := sessions[0].closed(); got != 1 {
		t.Errorf("session closed %d times, want 1", got)
	}
	if sessions[0].gotMarkup != "<html></html>" {
		t.Errorf("session rendered %q", sessions[0].gotMarkup)
	}
	if sessions[0].gotGeo != A4Geometry {
		t.Errorf("session geometry = %+v, want A4", sessions[0].gotGeo)
	}
}

func TestEngine_ToPDF_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		strategy   *fakeStrategy
		wantOp     string
		wantErr    error
		wantClosed bool
	}{
		{
			name:     "launch failure",
			strategy: &fakeStrategy{launchErr: ErrBrowserConnect},
			wantOp:   "launch",
			wantErr:  ErrBrowserConnect,
		},
		{
			name: "render failure",
			strategy: &fakeStrategy{newSess: func() *fakeSession {
				return &fakeSession{renderErr: ErrPageLoad}
			}},
			wantOp:     "render",
			wantErr:    ErrPageLoad,
			wantClosed: true,
		},
		{
			name: "settle timeout",
			strategy: &fakeStrategy{newSess: func() *fakeSession {
				return &fakeSession{renderErr: ErrLoadTimeout}
			}},
			wantOp:     "render",
			wantErr:    ErrLoadTimeout,
			wantClosed: true,
		},
		{
			name: "panic during render",
			strategy: &fakeStrategy{newSess: func() *fakeSession {
				return &fakeSession{panicWith: "boom"}
			}},
			wantOp:     "render",
			wantErr:    ErrPDFGeneration,
			wantClosed: true,
		},
		{
			name: "close failure does not mask render error",
			strategy: &fakeStrategy{newSess: func() *fakeSession {
				return &fakeSession{renderErr: ErrPDFGeneration, closeErr: errors.New("close failed")}
			}},
			wantOp:     "render",
			wantErr:    ErrPDFGeneration,
			wantClosed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			engine := NewEngine(tt.strategy, WithSessionLimit(1))

			pdf, err := engine.ToPDF(context.Background(), "<p>x</p>", A4Geometry)
			if pdf != nil {
				t.Errorf("ToPDF() returned %d bytes on failure", len(pdf))
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ToPDF() error = %v, want %v", err, tt.wantErr)
			}

			var rerr *RenderError
			if !errors.As(err, &rerr) {
				t.Fatalf("error type = %T, want *RenderError", err)
			}
			if rerr.Op != tt.wantOp {
				t.Errorf("RenderError.Op = %q, want %q", rerr.Op, tt.wantOp)
			}

			for _, s := range tt.strategy.launched() {
				if got := s.closed(); got != 1 {
					t.Errorf("session closed %d times, want 1", got)
				}
			}
			if tt.wantClosed && len(tt.strategy.launched()) != 1 {
				t.Errorf("launched %d sessions, want 1", len(tt.strategy.launched()))
			}

			// Slot must be free again after any failure
			if got := engine.limiter.InUse(); got != 0 {
				t.Errorf("limiter InUse() = %d, want 0", got)
			}
		})
	}
}

func TestEngine_ToPDF_CloseFailureLogged(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	ctx := logger.WithContext(context.Background())

	strategy := &fakeStrategy{newSess: func() *fakeSession {
		return &fakeSession{pdf: []byte("%PDF"), closeErr: errors.New("close failed")}
	}}
	engine := NewEngine(strategy, WithSessionLimit(1))

	if _, err := engine.ToPDF(ctx, "<p>x</p>", A4Geometry); err != nil {
		t.Fatalf("ToPDF() error = %v, close failure must not fail the render", err)
	}
	if !strings.Contains(buf.String(), "close failed") {
		t.Errorf("log output %q missing close error", buf.String())
	}
}

func TestEngine_ToPDF_AcquireCanceled(t *testing.T) {
	t.Parallel()

	strategy := &fakeStrategy{}
	engine := NewEngine(strategy, WithSessionLimit(1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.ToPDF(ctx, "<p>x</p>", A4Geometry)

	var rerr *RenderError
	if !errors.As(err, &rerr) || rerr.Op != "acquire" {
		t.Fatalf("ToPDF() error = %v, want acquire RenderError", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ToPDF() error = %v, want context.Canceled", err)
	}
	if n := len(strategy.launched()); n != 0 {
		t.Errorf("launched %d sessions after canceled acquire", n)
	}
}

func TestEngine_SessionLimit(t *testing.T) {
	t.Parallel()

	if got := NewEngine(&fakeStrategy{}, WithSessionLimit(3)).SessionLimit(); got != 3 {
		t.Errorf("SessionLimit() = %d, want 3", got)
	}
	if got := NewEngine(&fakeStrategy{}).SessionLimit(); got < MinSessions || got > MaxSessions {
		t.Errorf("default SessionLimit() = %d, want within [%d, %d]", got, MinSessions, MaxSessions)
	}
}

func TestA4Geometry(t *testing.T) {
	t.Parallel()

	g := A4Geometry
	if g.ViewportWidth != 1240 || g.ViewportHeight != 1754 || g.DeviceScaleFactor != 1 {
		t.Errorf("viewport = %dx%d@%v, want 1240x1754@1", g.ViewportWidth, g.ViewportHeight, g.DeviceScaleFactor)
	}
	if g.PaperWidth != 8.27 || g.PaperHeight != 11.69 {
		t.Errorf("paper = %vx%v, want 8.27x11.69", g.PaperWidth, g.PaperHeight)
	}
	if g.SettleTimeout.Seconds() != 30 {
		t.Errorf("SettleTimeout = %v, want 30s", g.SettleTimeout)
	}
}

// ---------------------------------------------------------------------------
// TestNewStrategy
// ---------------------------------------------------------------------------

func TestNewStrategy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mode     string
		bin      string
		wantName string
		wantErr  error
	}{
		{name: "default is local", mode: "", wantName: StrategyLocal},
		{name: "local", mode: "local", wantName: StrategyLocal},
		{name: "local with bin", mode: "local", bin: "/usr/bin/chromium", wantName: StrategyLocal},
		{name: "managed", mode: "managed", bin: "/opt/chromium", wantName: StrategyManaged},
		{name: "serverless alias", mode: "serverless", bin: "/opt/chromium", wantName: StrategyManaged},
		{name: "case insensitive", mode: "Managed", bin: "/opt/chromium", wantName: StrategyManaged},
		{name: "managed without bin", mode: "managed", wantErr: ErrMissingBrowser},
		{name: "unknown", mode: "lambda", wantErr: ErrUnknownStrategy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, err := NewStrategy(tt.mode, tt.bin)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("NewStrategy(%q, %q) error = %v, want %v", tt.mode, tt.bin, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewStrategy(%q, %q) unexpected error: %v", tt.mode, tt.bin, err)
			}
			if s.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", s.Name(), tt.wantName)
			}
		})
	}
}

func TestManagedStrategy_LaunchWithoutBin(t *testing.T) {
	t.Parallel()

	_, err := ManagedStrategy{}.Launch(context.Background())
	if !errors.Is(err, ErrBrowserConnect) {
		t.Errorf("Launch() error = %v, want ErrBrowserConnect", err)
	}
}

func TestManagedStrategy_BrowserPath(t *testing.T) {
	t.Parallel()

	if _, ok := (ManagedStrategy{}).BrowserPath(); ok {
		t.Error("BrowserPath() found a browser with no bin configured")
	}
	if _, ok := (ManagedStrategy{Bin: "/nonexistent/chromium"}).BrowserPath(); ok {
		t.Error("BrowserPath() reported a missing binary as found")
	}
}
