package classroom

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"classfetch/lib/browser"
	"classfetch/lib/textutil"
)

const (
	downloadTimeout = time.Second * 60
	// pause between attachments, rate limiting only
	downloadDelay   = time.Second
	fileIDPrefixLen = 6
)

// FileFetcher retrieves one attachment's export rendition into dest.
type FileFetcher interface {
	Fetch(ctx context.Context, att Attachment, dest string) error
}

// Pipeline downloads every attachment of a submission batch into one
// destination folder. A failed file is logged and skipped, a single
// failure never aborts the batch.
type Pipeline struct {
	Fetcher FileFetcher
	Delay   time.Duration
}

// DownloadAll returns the number of files saved. Submissions without
// attachments are excluded from processing. Destination creation
// failure is the only fatal error.
func (p Pipeline) DownloadAll(ctx context.Context, submissions []Submission, destDir string) (int, error) {
	ctx, span := tracer.Start(ctx, "pipeline:DownloadAll")
	defer span.End()
	span.SetAttributes(attribute.String("dest", destDir))

	err := os.MkdirAll(destDir, 0o755)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create destination folder")
		return 0, fmt.Errorf("creating destination folder: %w", err)
	}

	saved := 0
	used := map[string]bool{}

	for _, sub := range submissions {
		if len(sub.Attachments) == 0 {
			continue
		}
		cleanName := textutil.SanitizeFilename(sub.StudentName)
		slog.InfoContext(ctx, "downloading student files",
			"student", cleanName, "files", len(sub.Attachments))

		for _, att := range sub.Attachments {
			if err := ctx.Err(); err != nil {
				return saved, err
			}

			dest := filepath.Join(destDir, destFilename(used, cleanName, att.FileID))
			err := p.Fetcher.Fetch(ctx, att, dest)
			if err != nil {
				slog.WarnContext(ctx, "skipping attachment after failed download",
					"student", cleanName, "file_id", att.FileID, "kind", att.Kind.String(), "err", err)
				span.RecordError(err)
				continue
			}

			saved++
			slog.InfoContext(ctx, "saved file", "path", dest)

			// rate limit between attachments
			select {
			case <-ctx.Done():
				return saved, ctx.Err()
			case <-time.After(p.Delay):
			}
		}
	}

	span.SetAttributes(attribute.Int("saved", saved))
	return saved, nil
}

// destFilename builds `{name}_{fileId prefix}.pdf`. Truncated file ids
// are not collision-free, so an already-used name gets an index suffix
// instead of silently overwriting the earlier file.
func destFilename(used map[string]bool, name, fileID string) string {
	prefix := textutil.Truncate(fileID, fileIDPrefixLen)
	filename := fmt.Sprintf("%s_%s.pdf", name, prefix)
	for i := 2; used[filename]; i++ {
		filename = fmt.Sprintf("%s_%s_%d.pdf", name, prefix, i)
	}
	used[filename] = true
	return filename
}

// DownloadAll runs the download pipeline over the session this client
// owns, capturing each export through the browser with a direct http
// fallback.
func (c Client) DownloadAll(ctx context.Context, submissions []Submission, destDir string) (int, error) {
	pipeline := Pipeline{
		Fetcher: sessionFetcher{client: c},
		Delay:   downloadDelay,
	}
	return pipeline.DownloadAll(ctx, submissions, destDir)
}

// sessionFetcher triggers the export url in the browser and captures
// the resulting download event. When capture fails it retries once over
// plain http reusing the browser's cookies; the export endpoints are
// ordinary GETs once authenticated.
type sessionFetcher struct {
	client Client
}

func (f sessionFetcher) Fetch(ctx context.Context, att Attachment, dest string) error {
	ctx, span := tracer.Start(ctx, "fetch")
	defer span.End()
	span.SetAttributes(
		attribute.String("file_id", att.FileID),
		attribute.String("kind", att.Kind.String()),
	)

	path, err := f.client.Session.CaptureDownload(ctx, func(ctx context.Context) error {
		return f.client.Session.Navigate(ctx, att.ExportURL, browser.WaitDOMContentLoaded)
	}, downloadTimeout)
	if err == nil {
		return moveFile(path, dest)
	}
	if ctx.Err() != nil {
		return err
	}

	slog.WarnContext(ctx, "browser capture failed, retrying over http",
		"file_id", att.FileID, "err", err)
	span.RecordError(err)

	cookies, cookieErr := f.client.Session.Cookies(ctx, att.ExportURL, BaseURL)
	if cookieErr != nil {
		return err
	}

	res, httpErr := f.client.Http.R().
		SetContext(ctx).
		SetCookies(cookies).
		Get(att.ExportURL)
	if httpErr != nil {
		span.RecordError(httpErr)
		span.SetStatus(codes.Error, "http fallback failed")
		return httpErr
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "export endpoint rejected the request")
		return fmt.Errorf("export endpoint returned %s", res.Status())
	}
	return os.WriteFile(dest, res.Body(), 0o644)
}

// moveFile renames the captured temp file into place, copying when the
// destination sits on a different filesystem.
func moveFile(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	defer os.Remove(src)

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
