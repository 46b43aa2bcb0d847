package browser

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.opentelemetry.io/otel/codes"
)

const signinURL = "https://accounts.google.com/signin"

// URL prefixes that indicate an already-authenticated account.
var signedInHosts = []string{
	"myaccount.google.com",
	"classroom.google.com",
}

func isSignedInLocation(loc string) bool {
	for _, host := range signedInHosts {
		if strings.Contains(loc, host) {
			return true
		}
	}
	return false
}

// LoginGoogle walks the account sign-in flow. If the persistent profile
// already carries a valid session it returns immediately. An interactive
// verification step (two-factor prompt, device confirmation) surfaces as
// ErrInteractiveChallenge and is never retried here.
func (s *Session) LoginGoogle(ctx context.Context, email, password string) error {
	ctx, span := tracer.Start(ctx, "LoginGoogle")
	defer span.End()

	err := s.Navigate(ctx, signinURL, WaitDOMContentLoaded)
	if err != nil {
		span.SetStatus(codes.Error, "failed to reach sign-in page")
		return err
	}

	loc, err := s.Location(ctx)
	if err != nil {
		return err
	}
	if isSignedInLocation(loc) {
		slog.InfoContext(ctx, "already signed in", "url", loc)
		return nil
	}

	err = s.run(ctx,
		chromedp.WaitVisible(`input[type="email"]`, chromedp.ByQuery),
		chromedp.SendKeys(`input[type="email"]`, email, chromedp.ByQuery),
		chromedp.Click(`#identifierNext`, chromedp.ByQuery),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "email step failed")
		return ErrLoginFailed
	}

	err = s.run(ctx,
		chromedp.WaitVisible(`input[type="password"]`, chromedp.ByQuery),
		chromedp.SendKeys(`input[type="password"]`, password, chromedp.ByQuery),
		chromedp.Click(`#passwordNext`, chromedp.ByQuery),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "password step failed")
		return ErrLoginFailed
	}

	// the flow either lands on an authenticated page or parks on a
	// challenge interstitial; poll the location until one of the two
	deadline := time.Now().Add(time.Second * 30)
	for time.Now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			return err
		}

		loc, err := s.Location(ctx)
		if err != nil {
			return err
		}
		if isSignedInLocation(loc) {
			return nil
		}
		if strings.Contains(loc, "/challenge/") || strings.Contains(loc, "signin/challenge") {
			span.SetStatus(codes.Error, "interactive challenge")
			return ErrInteractiveChallenge
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}

	span.SetStatus(codes.Error, "login did not reach an authenticated page")
	return ErrLoginFailed
}
