package browser

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("lib/browser")

// WaitPolicy is the readiness condition Navigate blocks on.
type WaitPolicy int

const (
	// the document structure has been parsed and the load event fired
	WaitDOMContentLoaded WaitPolicy = iota
	// the document reports readyState "complete", used on views that
	// keep rendering after the load event
	WaitNetworkSettled
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

// the target platform sniffs for automated browsers, so the webdriver
// flag is scrubbed before any document scripts run.
const maskAutomationScript = `Object.defineProperty(navigator, 'webdriver', { get: () => undefined });`

type Options struct {
	// directory holding the persistent identity, wiped and recreated
	// once if acquisition fails on it
	ProfileDir string
	Headless   bool
}

// Session wraps one browser tab backed by a persistent profile.
type Session struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	downloadDir string

	downloadMu sync.Mutex
}

// Acquire starts a browser over the given persistent profile. If the
// stored profile is structurally corrupt the profile directory is
// discarded and acquisition retried exactly once before failing.
func Acquire(ctx context.Context, opts Options) (*Session, error) {
	ctx, span := tracer.Start(ctx, "Acquire")
	defer span.End()
	span.SetAttributes(attribute.String("profile_dir", opts.ProfileDir))

	if opts.ProfileDir == "" {
		opts.ProfileDir = filepath.Join(os.TempDir(), "classfetch_chrome_profile")
	}

	s, err := acquire(ctx, opts)
	if err == nil {
		return s, nil
	}

	slog.WarnContext(ctx, "discarding browser profile after failed acquisition",
		"profile_dir", opts.ProfileDir, "err", err)
	span.RecordError(err)
	if rmErr := os.RemoveAll(opts.ProfileDir); rmErr != nil {
		span.SetStatus(codes.Error, "failed to wipe profile")
		return nil, fmt.Errorf("%w: wiping profile: %s", ErrProfileCorrupt, rmErr)
	}

	s, err = acquire(ctx, opts)
	if err != nil {
		span.SetStatus(codes.Error, "acquisition failed after profile wipe")
		return nil, fmt.Errorf("%w: %s", ErrProfileCorrupt, err)
	}
	return s, nil
}

func acquire(ctx context.Context, opts Options) (*Session, error) {
	downloadDir, err := os.MkdirTemp("", "classfetch_downloads")
	if err != nil {
		return nil, err
	}

	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserDataDir(opts.ProfileDir),
		chromedp.UserAgent(userAgent),
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, cancel := chromedp.NewContext(allocCtx)

	err = chromedp.Run(browserCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(maskAutomationScript).Do(ctx)
			return err
		}),
		browser.
			SetDownloadBehavior(browser.SetDownloadBehaviorBehaviorAllowAndName).
			WithDownloadPath(downloadDir).
			WithEventsEnabled(true),
	)
	if err != nil {
		cancel()
		allocCancel()
		return nil, err
	}

	return &Session{
		ctx:         browserCtx,
		cancel:      cancel,
		allocCancel: allocCancel,
		downloadDir: downloadDir,
	}, nil
}

// Release closes the page and the browser. Safe to call on every exit
// path, including after a failed login.
func (s *Session) Release() {
	s.cancel()
	s.allocCancel()
	os.RemoveAll(s.downloadDir)
}

// Navigate blocks until the requested readiness condition is met or the
// context deadline elapses.
func (s *Session) Navigate(ctx context.Context, url string, policy WaitPolicy) error {
	ctx, span := tracer.Start(ctx, "Navigate")
	defer span.End()
	span.SetAttributes(attribute.String("url", url))

	actions := []chromedp.Action{chromedp.Navigate(url)}
	if policy == WaitNetworkSettled {
		actions = append(actions, chromedp.Poll(
			`document.readyState === "complete"`, nil,
		))
	}

	err := s.run(ctx, actions...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "navigation failed")
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %s", ErrNavigationTimeout, url)
		}
		return err
	}
	return nil
}

// ForceRefresh fully reloads the current URL. The target application is
// a single-page app that does not reliably re-render on fragment-only
// navigation, so callers reload before reading per-student state.
func (s *Session) ForceRefresh(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "ForceRefresh")
	defer span.End()

	err := s.run(ctx, chromedp.Reload())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reload failed")
		if ctx.Err() != nil {
			return ErrNavigationTimeout
		}
		return err
	}
	return nil
}

// Content returns the fully rendered markup of the current page.
func (s *Session) Content(ctx context.Context) (string, error) {
	ctx, span := tracer.Start(ctx, "Content")
	defer span.End()

	var html string
	err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to snapshot content")
		return "", err
	}
	span.SetAttributes(attribute.Int("content_bytes", len(html)))
	return html, nil
}

// WaitVisible blocks until an element matching selector is visible, or
// the timeout elapses. Used as the readiness signal where the original
// flow would sleep for a fixed duration.
func (s *Session) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := s.run(ctx, chromedp.WaitVisible(selector, chromedp.ByQuery))
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: waiting for %q", ErrNavigationTimeout, selector)
		}
		return err
	}
	return nil
}

// CaptureDownload runs trigger while listening for a download event on
// the page, and resolves to the path of the completed file. A trigger
// navigation error is expected (the browser aborts navigation when it
// turns into a download) and is ignored; only the absence of a completed
// download within timeout fails the capture.
func (s *Session) CaptureDownload(ctx context.Context, trigger func(context.Context) error, timeout time.Duration) (string, error) {
	ctx, span := tracer.Start(ctx, "CaptureDownload")
	defer span.End()

	// downloads share one browser-level event stream, serialize them
	s.downloadMu.Lock()
	defer s.downloadMu.Unlock()

	done := make(chan string, 1)
	failed := make(chan error, 1)

	listenCtx, stopListening := context.WithCancel(s.ctx)
	defer stopListening()
	chromedp.ListenTarget(listenCtx, func(ev interface{}) {
		switch e := ev.(type) {
		case *browser.EventDownloadProgress:
			switch e.State {
			case browser.DownloadProgressStateCompleted:
				select {
				case done <- e.GUID:
				default:
				}
			case browser.DownloadProgressStateCanceled:
				select {
				case failed <- ErrDownloadCanceled:
				default:
				}
			}
		}
	})

	triggerCtx, cancelTrigger := context.WithTimeout(ctx, timeout)
	defer cancelTrigger()
	if err := trigger(triggerCtx); err != nil {
		// a navigation that becomes a download aborts with an error,
		// the download event stream is the source of truth
		slog.DebugContext(ctx, "download trigger returned error", "err", err)
	}

	select {
	case guid := <-done:
		path := filepath.Join(s.downloadDir, guid)
		span.SetAttributes(attribute.String("file", path))
		return path, nil
	case err := <-failed:
		span.RecordError(err)
		span.SetStatus(codes.Error, "download canceled")
		return "", err
	case <-time.After(timeout):
		span.SetStatus(codes.Error, "download timed out")
		return "", ErrDownloadTimeout
	case <-ctx.Done():
		span.SetStatus(codes.Error, "context canceled during download")
		return "", ctx.Err()
	}
}

// Cookies exports the cookies the page holds for the given urls so an
// http client can reuse the authenticated identity.
func (s *Session) Cookies(ctx context.Context, urls ...string) ([]*http.Cookie, error) {
	ctx, span := tracer.Start(ctx, "Cookies")
	defer span.End()

	var out []*http.Cookie
	err := s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		cookies, err := network.GetCookies().WithUrls(urls).Do(ctx)
		if err != nil {
			return err
		}
		for _, c := range cookies {
			out = append(out, &http.Cookie{
				Name:   c.Name,
				Value:  c.Value,
				Domain: c.Domain,
				Path:   c.Path,
			})
		}
		return nil
	}))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to export cookies")
		return nil, err
	}
	return out, nil
}

// Location returns the page's current URL.
func (s *Session) Location(ctx context.Context) (string, error) {
	var loc string
	err := s.run(ctx, chromedp.Location(&loc))
	return loc, err
}

// run executes actions on the session's page, honoring the caller's
// cancellation and deadline.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cleanup := bridgeContext(s.ctx, ctx)
	defer cleanup()

	errs := make(chan error, 1)
	go func() {
		errs <- chromedp.Run(runCtx, actions...)
	}()
	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// bridgeContext derives the context actions execute on: rooted at the
// session's lifetime, bounded by the caller's deadline, and canceled as
// soon as the caller's context is canceled. Without the cancellation
// bridge an abandoned action would keep executing on the session context
// and could overlap the next operation on the shared page.
func bridgeContext(session, caller context.Context) (context.Context, context.CancelFunc) {
	runCtx, cancelRun := context.WithCancel(session)
	cancel := cancelRun
	if deadline, ok := caller.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		runCtx, cancelDeadline = context.WithDeadline(runCtx, deadline)
		cancel = func() {
			cancelDeadline()
			cancelRun()
		}
	}

	stop := context.AfterFunc(caller, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}
