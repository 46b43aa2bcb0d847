package classroom

import (
	"context"
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"classfetch/lib/htmlutil"
	"classfetch/lib/scrapers/classroom/extract"
)

var (
	// the "viewable attachment" marker (the eye icon wrapper) carries
	// the raw file url in a data attribute
	attachmentDataURLRegex = regexp.MustCompile(`data-url="(https://docs\.google\.com/[^"]+)"`)
	fileIDRegex            = regexp.MustCompile(`/d/([A-Za-z0-9_-]+)`)
)

// ExtractAttachments reads the attached-file references off a single
// student's submission view snapshot, deduplicated by file id. Running
// it twice over the same snapshot yields an identical set.
func ExtractAttachments(ctx context.Context, src *extract.Source) []Attachment {
	return extract.Run(ctx, "attachments", src,
		extract.Strategy[Attachment]{Name: "viewable-attachment-marker", Run: attachmentsFromMarkers},
		extract.Strategy[Attachment]{Name: "document-url-scan", Run: attachmentsFromURLScan},
	)
}

// attachmentFromURL builds the full record off a raw data url, or nil
// when no file id is recoverable.
func attachmentFromURL(raw string, seen map[string]bool) *Attachment {
	raw = htmlutil.UnescapeFragment(raw)
	m := fileIDRegex.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}
	fileID := m[1]
	if seen[fileID] {
		return nil
	}
	seen[fileID] = true

	kind := KindOfURL(raw)
	return &Attachment{
		FileID:    fileID,
		SourceURL: raw,
		Kind:      kind,
		ExportURL: ExportURL(fileID, kind),
	}
}

// primary: the marker element carrying the raw file url.
func attachmentsFromMarkers(ctx context.Context, src *extract.Source) ([]Attachment, error) {
	doc, err := src.Doc()
	if err != nil {
		return nil, err
	}

	var attachments []Attachment
	seen := map[string]bool{}
	doc.Find(`div.clmEye[data-url]`).Each(func(_ int, sel *goquery.Selection) {
		raw := sel.AttrOr("data-url", "")
		if raw == "" {
			return
		}
		if att := attachmentFromURL(raw, seen); att != nil {
			attachments = append(attachments, *att)
		}
	})
	return attachments, nil
}

// fallback: scan the whole snapshot for any document-hosting url.
func attachmentsFromURLScan(ctx context.Context, src *extract.Source) ([]Attachment, error) {
	var attachments []Attachment
	seen := map[string]bool{}
	for _, m := range attachmentDataURLRegex.FindAllStringSubmatch(src.HTML(), -1) {
		if att := attachmentFromURL(m[1], seen); att != nil {
			attachments = append(attachments, *att)
		}
	}
	return attachments, nil
}
