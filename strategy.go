package audit2pdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-audit2pdf/internal/fileutil"
	"github.com/alnah/go-audit2pdf/internal/process"
)

// Strategy names as accepted by NewStrategy.
const (
	StrategyLocal   = "local"
	StrategyManaged = "managed"

	// strategyServerless is accepted as an alias of StrategyManaged.
	strategyServerless = "serverless"
)

// Chrome switches shared by both strategies.
const (
	flagDisableSetuidSandbox flags.Flag = "disable-setuid-sandbox"
	flagDisableDevShmUsage   flags.Flag = "disable-dev-shm-usage"
	flagDisableGPU           flags.Flag = "disable-gpu"
	flagSingleProcess        flags.Flag = "single-process"
	flagNoZygote             flags.Flag = "no-zygote"
)

// requestIdleWindow is how long the network must stay quiet for the page
// to count as settled.
const requestIdleWindow = 500 * time.Millisecond

// NewStrategy selects a browser strategy by name. Mode matching ignores
// case; bin overrides the browser binary and is required for managed.
func NewStrategy(mode, bin string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", StrategyLocal:
		return LocalStrategy{Bin: bin}, nil
	case StrategyManaged, strategyServerless:
		if bin == "" {
			return nil, fmt.Errorf("%w: %s strategy", ErrMissingBrowser, StrategyManaged)
		}
		return ManagedStrategy{Bin: bin}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, mode)
	}
}

// LocalStrategy runs a full Chromium on a developer machine or a regular
// container. Rod downloads Chromium on first run when Bin is empty and no
// system browser is found.
type LocalStrategy struct {
	Bin string
}

// Name implements Strategy.
func (LocalStrategy) Name() string { return StrategyLocal }

// Launch implements Strategy.
func (s LocalStrategy) Launch(ctx context.Context) (Session, error) {
	l := launcher.New().
		Headless(true).
		NoSandbox(true).
		Set(flagDisableSetuidSandbox).
		Set(flagDisableDevShmUsage).
		Set(flagDisableGPU)
	if s.Bin != "" {
		l = l.Bin(s.Bin)
	}
	return launchSession(ctx, l)
}

// BrowserPath reports the binary Launch would use, if one is installed.
func (s LocalStrategy) BrowserPath() (string, bool) {
	if s.Bin != "" {
		return s.Bin, fileutil.FileExists(s.Bin)
	}
	return launcher.LookPath()
}

// ManagedStrategy runs an externally supplied minimal Chromium in a
// short-lived, function-style environment: one process, no zygote, no
// leakless guard binary.
type ManagedStrategy struct {
	Bin string
}

// Name implements Strategy.
func (ManagedStrategy) Name() string { return StrategyManaged }

// Launch implements Strategy.
func (s ManagedStrategy) Launch(ctx context.Context) (Session, error) {
	if s.Bin == "" {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, ErrMissingBrowser)
	}
	l := launcher.New().
		Bin(s.Bin).
		Headless(true).
		NoSandbox(true).
		Leakless(false).
		Set(flagSingleProcess).
		Set(flagNoZygote).
		Set(flagDisableDevShmUsage).
		Set(flagDisableGPU)
	return launchSession(ctx, l)
}

// BrowserPath reports the configured binary and whether it exists.
func (s ManagedStrategy) BrowserPath() (string, bool) {
	return s.Bin, s.Bin != "" && fileutil.FileExists(s.Bin)
}

// launchSession starts the browser and connects to it. Anything started
// before a failure is torn down before returning.
func launchSession(ctx context.Context, l *launcher.Launcher) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := &rodSession{launcher: l}
	u, err := l.Launch()
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	s.browser = browser
	return s, nil
}

// rodSession is a Session backed by one Chrome process.
type rodSession struct {
	launcher *launcher.Launcher
	browser  *rod.Browser

	closeOnce sync.Once
	closeErr  error
}

// Render loads markup into a new page, waits for it to settle and prints
// it. A page that does not settle within g.SettleTimeout fails with
// ErrLoadTimeout; it is never printed half-loaded.
func (s *rodSession) Render(ctx context.Context, markup string, g Geometry) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = page.Close() }()

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             g.ViewportWidth,
		Height:            g.ViewportHeight,
		DeviceScaleFactor: g.DeviceScaleFactor,
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	if err := settle(ctx, page, markup, g.SettleTimeout); err != nil {
		return nil, err
	}

	reader, err := page.Context(ctx).PDF(&proto.PagePrintToPDF{
		PaperWidth:      floatPtr(g.PaperWidth),
		PaperHeight:     floatPtr(g.PaperHeight),
		MarginTop:       floatPtr(0),
		MarginBottom:    floatPtr(0),
		MarginLeft:      floatPtr(0),
		MarginRight:     floatPtr(0),
		PrintBackground: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdf, nil
}

// settle sets the document content and waits until the network is idle
// and the load event has fired, all within timeout.
func settle(ctx context.Context, page *rod.Page, markup string, timeout time.Duration) error {
	loadCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	p := page.Context(loadCtx)
	waitIdle := p.WaitRequestIdle(requestIdleWindow, nil, nil, nil)

	if err := p.SetDocumentContent(markup); err != nil {
		return settleError(ctx, loadCtx, err)
	}
	waitIdle()
	if err := p.WaitLoad(); err != nil {
		return settleError(ctx, loadCtx, err)
	}

	// waitIdle returns silently when loadCtx expires
	if loadCtx.Err() != nil {
		return settleError(ctx, loadCtx, loadCtx.Err())
	}
	return nil
}

// settleError distinguishes the caller giving up from the page failing
// to settle in time.
func settleError(ctx, loadCtx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(loadCtx.Err(), context.DeadlineExceeded) {
		return ErrLoadTimeout
	}
	return fmt.Errorf("%w: %v", ErrPageLoad, err)
}

// Close disconnects from the browser, kills its process tree and removes
// the temporary profile. It is safe to call more than once.
func (s *rodSession) Close() error {
	s.closeOnce.Do(func() {
		if s.browser != nil {
			s.closeErr = s.browser.Close()
		}
		// PID is zero when the process never started
		if pid := s.launcher.PID(); pid > 0 {
			process.KillProcessGroup(pid)
			s.launcher.Kill()
			s.launcher.Cleanup()
		}
	})
	return s.closeErr
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
