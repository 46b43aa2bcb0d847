package classroom

import (
	"context"
	"fmt"
	"regexp"

	"classfetch/lib/scrapers/classroom/extract"
	"classfetch/lib/textutil"
)

var (
	rosterRowRegex   = regexp.MustCompile(`(?s)/student/([A-Za-z0-9]{16,})"[^>]*>.*?<span[^>]*class="YVvGBb"[^>]*>([^<]+)</span>`)
	rosterAttrRegex  = regexp.MustCompile(`(?s)data-student-id="(\d+)".*?<span[^>]*class="YVvGBb"[^>]*>([^<]+)</span>`)
	studentPathRegex = regexp.MustCompile(`/student/([A-Za-z0-9]{16,})`)
)

// ExtractRoster reads the student list off the submissions view
// snapshot. Students are deduplicated by id across all strategies; the
// first occurrence of an id wins, later rows with different name casing
// are dropped.
func ExtractRoster(ctx context.Context, src *extract.Source) []Student {
	return extract.Run(ctx, "roster", src,
		extract.Strategy[Student]{Name: "student-path-with-name", Run: rosterFromPathRows},
		extract.Strategy[Student]{Name: "student-attr-with-name", Run: rosterFromAttrRows},
		extract.Strategy[Student]{Name: "bare-student-ids", Run: rosterFromBareIds},
	)
}

func rosterFromRegex(src *extract.Source, re *regexp.Regexp) ([]Student, error) {
	var students []Student
	seen := map[string]bool{}
	for _, m := range re.FindAllStringSubmatch(src.HTML(), -1) {
		id := m[1]
		name := textutil.CollapseWhitespace(m[2])
		if seen[id] || name == "" {
			continue
		}
		seen[id] = true
		students = append(students, Student{ID: id, Name: name})
	}
	return students, nil
}

// primary: per-row student-identifier path segment with the adjacent
// name-labeled span.
func rosterFromPathRows(ctx context.Context, src *extract.Source) ([]Student, error) {
	return rosterFromRegex(src, rosterRowRegex)
}

// fallback: numeric student-identifier attribute with the same span.
func rosterFromAttrRows(ctx context.Context, src *extract.Source) ([]Student, error) {
	return rosterFromRegex(src, rosterAttrRegex)
}

// last resort: bare identifiers with a synthesized placeholder name.
// the placeholder embeds a prefix of the id, which is unique within the
// roster, so placeholders cannot collide with each other.
func rosterFromBareIds(ctx context.Context, src *extract.Source) ([]Student, error) {
	var students []Student
	seen := map[string]bool{}
	for _, m := range studentPathRegex.FindAllStringSubmatch(src.HTML(), -1) {
		id := m[1]
		if seen[id] {
			continue
		}
		seen[id] = true
		students = append(students, Student{
			ID:   id,
			Name: fmt.Sprintf("Student_%s", textutil.Truncate(id, 8)),
		})
	}
	return students, nil
}
