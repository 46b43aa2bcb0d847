package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"classfetch/lib/browser"
	"classfetch/lib/configutil"
	"classfetch/lib/scrapers/classroom"
	"classfetch/lib/serviceutil"
)

type Config struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	ProfileDir string `json:"profile_dir"`
	Headless   bool   `json:"headless"`
	// defaults to ./downloads
	DownloadDir string `json:"download_dir"`
	// defaults to ./reports.db
	ReportDb string `json:"report_db"`
}

func readConfig() Config {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("failed to read config", err)
	}

	stdin := bufio.NewReader(os.Stdin)
	if cfg.Email == "" {
		cfg.Email = promptLine(stdin, "Google email: ")
	}
	if cfg.Password == "" {
		cfg.Password = promptLine(stdin, "Password: ")
	}
	if cfg.DownloadDir == "" {
		cfg.DownloadDir = "downloads"
	}
	if cfg.ReportDb == "" {
		cfg.ReportDb = "reports.db"
	}
	return cfg
}

// createClient acquires the browser session and signs in. On success the
// caller owns the returned session and must Release it on every exit
// path; on failure the session is already released.
func createClient(ctx context.Context, cfg Config) (classroom.Client, *browser.Session, error) {
	acquireCtx, cancel := context.WithTimeout(ctx, time.Second*60)
	defer cancel()

	session, err := browser.Acquire(acquireCtx, browser.Options{
		ProfileDir: cfg.ProfileDir,
		Headless:   cfg.Headless,
	})
	if err != nil {
		return classroom.Client{}, nil, fmt.Errorf("acquiring browser session: %w", err)
	}

	err = session.LoginGoogle(ctx, cfg.Email, cfg.Password)
	if err != nil {
		session.Release()
		return classroom.Client{}, nil, fmt.Errorf("logging in: %w", err)
	}

	client, err := classroom.NewClient(session)
	if err != nil {
		session.Release()
		return classroom.Client{}, nil, fmt.Errorf("initializing client: %w", err)
	}
	return client, session, nil
}

func promptLine(stdin *bufio.Reader, prompt string) string {
	fmt.Print(prompt)
	line, _ := stdin.ReadString('\n')
	return strings.TrimSpace(line)
}

// promptChoice asks for a 1-based index into a list of n entries.
func promptChoice(stdin *bufio.Reader, prompt string, n int) (int, error) {
	for {
		line := promptLine(stdin, prompt)
		if line == "q" {
			return 0, fmt.Errorf("aborted")
		}
		idx, err := strconv.Atoi(line)
		if err != nil || idx < 1 || idx > n {
			fmt.Printf("enter a number between 1 and %d (or q to quit)\n", n)
			continue
		}
		return idx - 1, nil
	}
}
