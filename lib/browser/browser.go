// Package browser owns the single controllable page every scraping
// component drives. All operations are stateful on one underlying
// chrome context, callers must serialize usage.
package browser

import "errors"

var (
	// the persistent profile could not be used even after wiping it once
	ErrProfileCorrupt = errors.New("browser profile is corrupt")
	ErrLoginFailed    = errors.New("failed to login to your account")
	// the account requires an interactive verification step that
	// cannot be automated, surface it instead of retrying
	ErrInteractiveChallenge = errors.New("account login hit an interactive challenge")
	ErrNavigationTimeout    = errors.New("navigation timed out")
	ErrDownloadTimeout      = errors.New("download timed out")
	ErrDownloadCanceled     = errors.New("download was canceled")
)
