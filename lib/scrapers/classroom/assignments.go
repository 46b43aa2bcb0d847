package classroom

import (
	"context"
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"classfetch/lib/scrapers/classroom/extract"
	"classfetch/lib/textutil"
)

// assignment ids come in two known shapes: a long opaque token or a
// 15+ digit numeric token.
var (
	assignmentTokenRegex   = regexp.MustCompile(`href="[^"]*?/a/(ACg8oc[A-Za-z0-9_-]+)[^"]*"`)
	assignmentNumericRegex = regexp.MustCompile(`href="[^"]*?/a/(\d{15,})[^"]*"`)
)

const assignmentNameMaxLen = 60

// ExtractAssignments reads the coursework list off the classwork view.
func ExtractAssignments(ctx context.Context, src *extract.Source, courseID string) []Assignment {
	return extract.Run(ctx, "assignments", src,
		extract.Strategy[Assignment]{
			Name: "href-ids-with-item-names",
			Run: func(ctx context.Context, src *extract.Source) ([]Assignment, error) {
				return assignmentsFromHrefIds(src, courseID)
			},
		},
		extract.Strategy[Assignment]{
			Name: "item-elements",
			Run: func(ctx context.Context, src *extract.Source) ([]Assignment, error) {
				return assignmentsFromItemElements(src, courseID)
			},
		},
		extract.Strategy[Assignment]{
			Name: "item-blocks",
			Run: func(ctx context.Context, src *extract.Source) ([]Assignment, error) {
				return assignmentsFromItemBlocks(src, courseID)
			},
		},
	)
}

func assignmentIds(html string) []string {
	var ids []string
	seen := map[string]bool{}
	for _, re := range []*regexp.Regexp{assignmentTokenRegex, assignmentNumericRegex} {
		for _, m := range re.FindAllStringSubmatch(html, -1) {
			if !seen[m[1]] {
				seen[m[1]] = true
				ids = append(ids, m[1])
			}
		}
	}
	return ids
}

// itemName resolves the title of an element carrying an item-identifier
// attribute: a heading-labeled child first, else the element's own
// first text line, bounded.
func itemName(sel *goquery.Selection) string {
	title := sel.Find(`.asQXV, .YVvGBb, [role="heading"]`).First()
	if title.Length() > 0 {
		name := textutil.CollapseWhitespace(title.Text())
		if name != "" {
			return name
		}
	}
	return textutil.Truncate(textutil.FirstLine(sel.Text()), assignmentNameMaxLen)
}

// structuralNames maps item id -> resolved title over every element
// with an item-identifier attribute.
func structuralNames(doc *goquery.Document) map[string]string {
	names := map[string]string{}
	doc.Find(`[data-item-id], [data-coursework-id]`).Each(func(_ int, sel *goquery.Selection) {
		id := sel.AttrOr("data-item-id", "")
		if id == "" {
			id = sel.AttrOr("data-coursework-id", "")
		}
		if id == "" {
			return
		}
		if name := itemName(sel); name != "" {
			names[id] = name
		}
	})
	return names
}

// primary: ids matched out of anchor hrefs in the snapshot, names
// resolved through the structural item index.
func assignmentsFromHrefIds(src *extract.Source, courseID string) ([]Assignment, error) {
	ids := assignmentIds(src.HTML())
	if len(ids) == 0 {
		return nil, nil
	}
	doc, err := src.Doc()
	if err != nil {
		return nil, err
	}
	names := structuralNames(doc)

	var assignments []Assignment
	for _, id := range ids {
		name := names[id]
		if name == "" {
			continue
		}
		assignments = append(assignments, Assignment{
			ID:       id,
			Name:     name,
			CourseID: courseID,
		})
	}
	return assignments, nil
}

// fallback: every element carrying an item-identifier attribute with a
// resolvable title, in document order.
func assignmentsFromItemElements(src *extract.Source, courseID string) ([]Assignment, error) {
	doc, err := src.Doc()
	if err != nil {
		return nil, err
	}

	var assignments []Assignment
	seen := map[string]bool{}
	doc.Find(`[data-item-id], [data-coursework-id]`).Each(func(_ int, sel *goquery.Selection) {
		id := sel.AttrOr("data-item-id", "")
		if id == "" {
			id = sel.AttrOr("data-coursework-id", "")
		}
		if id == "" || seen[id] {
			return
		}
		name := itemName(sel)
		if name == "" {
			return
		}
		seen[id] = true
		assignments = append(assignments, Assignment{
			ID:       id,
			Name:     name,
			CourseID: courseID,
		})
	})
	return assignments, nil
}

// last resort: list-item blocks, title taken as the first text line.
func assignmentsFromItemBlocks(src *extract.Source, courseID string) ([]Assignment, error) {
	doc, err := src.Doc()
	if err != nil {
		return nil, err
	}

	var assignments []Assignment
	seen := map[string]bool{}
	doc.Find(`li[data-item-id]`).Each(func(_ int, sel *goquery.Selection) {
		id := sel.AttrOr("data-item-id", "")
		if id == "" || seen[id] {
			return
		}
		name := textutil.Truncate(textutil.FirstLine(sel.Text()), assignmentNameMaxLen)
		if name == "" {
			return
		}
		seen[id] = true
		assignments = append(assignments, Assignment{
			ID:       id,
			Name:     name,
			CourseID: courseID,
		})
	})
	return assignments, nil
}
