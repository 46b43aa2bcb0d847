package classroom

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"classfetch/lib/browser"
)

type stubFetcher struct {
	fail      map[string]error
	delivered []string
}

func (f *stubFetcher) Fetch(ctx context.Context, att Attachment, dest string) error {
	if err := f.fail[att.FileID]; err != nil {
		return err
	}
	f.delivered = append(f.delivered, filepath.Base(dest))
	return nil
}

func attachment(fileID string, kind DocumentKind) Attachment {
	return Attachment{
		FileID:    fileID,
		SourceURL: "https://docs.google.com/document/d/" + fileID + "/edit",
		Kind:      kind,
		ExportURL: ExportURL(fileID, kind),
	}
}

func TestDownloadAllScenario(t *testing.T) {
	fetcher := &stubFetcher{}
	pipeline := Pipeline{Fetcher: fetcher}

	submissions := []Submission{
		{StudentID: "A1", StudentName: "Ana"},
		{StudentID: "B2", StudentName: "Beto", Attachments: []Attachment{
			attachment("file1", KindDocument),
			attachment("file2", KindSpreadsheet),
		}},
	}

	saved, err := pipeline.DownloadAll(context.Background(), submissions, t.TempDir())
	require.NoError(t, err)
	require.Equal(t, 2, saved)
	// Ana has no attachments and is excluded from processing entirely
	require.Equal(t, []string{"Beto_file1.pdf", "Beto_file2.pdf"}, fetcher.delivered)
}

func TestDownloadAllSkipsTimedOutAttachment(t *testing.T) {
	fetcher := &stubFetcher{
		fail: map[string]error{"file1": browser.ErrDownloadTimeout},
	}
	pipeline := Pipeline{Fetcher: fetcher}

	submissions := []Submission{
		{StudentID: "B2", StudentName: "Beto", Attachments: []Attachment{
			attachment("file1", KindDocument),
			attachment("file2", KindDocument),
		}},
	}

	saved, err := pipeline.DownloadAll(context.Background(), submissions, t.TempDir())
	require.NoError(t, err)
	require.Equal(t, 1, saved)
	require.Equal(t, []string{"Beto_file2.pdf"}, fetcher.delivered)
}

func TestDownloadAllSanitizesStudentNames(t *testing.T) {
	fetcher := &stubFetcher{}
	pipeline := Pipeline{Fetcher: fetcher}

	submissions := []Submission{
		{StudentID: "X", StudentName: `An\a /M:aría?`, Attachments: []Attachment{
			attachment("abcdefgh", KindDocument),
		}},
	}

	saved, err := pipeline.DownloadAll(context.Background(), submissions, t.TempDir())
	require.NoError(t, err)
	require.Equal(t, 1, saved)
	require.Equal(t, []string{"Ana María_abcdef.pdf"}, fetcher.delivered)
}

func TestDestFilenameCollisions(t *testing.T) {
	used := map[string]bool{}

	// two file ids sharing a 6-char prefix must not overwrite each other
	require.Equal(t, "Beto_abcdef.pdf", destFilename(used, "Beto", "abcdef111"))
	require.Equal(t, "Beto_abcdef_2.pdf", destFilename(used, "Beto", "abcdef222"))
	require.Equal(t, "Beto_abcdef_3.pdf", destFilename(used, "Beto", "abcdef333"))
	require.Equal(t, "Beto_short.pdf", destFilename(used, "Beto", "short"))
}
