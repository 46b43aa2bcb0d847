package classroom

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"classfetch/lib/scrapers/classroom/extract"
)

const attachmentMarkerFixture = `
<html><body>
<div class="clmEye" data-url="https://docs.google.com/document/d/abc123XYZ/edit?usp=drive_web&amp;ouid=1"></div>
<div class="clmEye" data-url="https://docs.google.com/spreadsheets/d/sheet99/edit"></div>
<div class="clmEye" data-url="https://docs.google.com/document/d/abc123XYZ/edit"></div>
</body></html>`

func TestExtractAttachmentsMarkers(t *testing.T) {
	attachments := ExtractAttachments(context.Background(), extract.NewSource(attachmentMarkerFixture))
	require.Equal(t, []Attachment{
		{
			FileID:    "abc123XYZ",
			SourceURL: "https://docs.google.com/document/d/abc123XYZ/edit?usp=drive_web&ouid=1",
			Kind:      KindDocument,
			ExportURL: "https://docs.google.com/document/d/abc123XYZ/export?format=pdf",
		},
		{
			FileID:    "sheet99",
			SourceURL: "https://docs.google.com/spreadsheets/d/sheet99/edit",
			Kind:      KindSpreadsheet,
			ExportURL: "https://docs.google.com/spreadsheets/d/sheet99/export?format=pdf",
		},
	}, attachments)
}

// running the extractor twice over one snapshot yields an identical set.
func TestExtractAttachmentsIdempotent(t *testing.T) {
	first := ExtractAttachments(context.Background(), extract.NewSource(attachmentMarkerFixture))
	second := ExtractAttachments(context.Background(), extract.NewSource(attachmentMarkerFixture))
	require.Equal(t, first, second)
}

const attachmentScanFixture = `
<html><body>
<span data-url="https://docs.google.com/presentation/d/pres456/edit?x=1&amp;y=2">adjunto</span>
</body></html>`

func TestExtractAttachmentsURLScanFallback(t *testing.T) {
	attachments := ExtractAttachments(context.Background(), extract.NewSource(attachmentScanFixture))
	require.Equal(t, []Attachment{
		{
			FileID:    "pres456",
			SourceURL: "https://docs.google.com/presentation/d/pres456/edit?x=1&y=2",
			Kind:      KindPresentation,
			ExportURL: "https://docs.google.com/presentation/d/pres456/export/pdf",
		},
	}, attachments)
}

func TestExtractAttachmentsEmptySubmission(t *testing.T) {
	attachments := ExtractAttachments(context.Background(), extract.NewSource("<html><body></body></html>"))
	require.Empty(t, attachments)
}
