package classroom

import (
	"context"
	"regexp"

	"classfetch/lib/htmlutil"
	"classfetch/lib/scrapers/classroom/extract"
	"classfetch/lib/textutil"
)

// literal navigation entries the course-list pattern also picks up,
// in both locales the platform has been observed in.
var navigationLabels = []string{
	"Inicio", "Calendar", "Para revisar", "Ajustes", "Clases archivadas",
	"Home", "To review", "Settings", "Archived classes",
}

var (
	courseAnchorRegex = regexp.MustCompile(`(?s)href="(/c/([A-Za-z0-9]+))"[^>]*>.*?YVvGBb[^>]*>([^<]+)<`)
	coursePathRegex   = regexp.MustCompile(`/c/([A-Za-z0-9]+)`)
)

const courseNameMaxLen = 50

// ExtractCourses reads the course list off the home view snapshot.
func ExtractCourses(ctx context.Context, src *extract.Source) []Course {
	return extract.Run(ctx, "courses", src,
		extract.Strategy[Course]{Name: "anchor-with-heading", Run: coursesFromHeadingAnchors},
		extract.Strategy[Course]{Name: "any-course-anchor", Run: coursesFromAnyAnchor},
	)
}

// primary: anchors whose path encodes a course id, paired with the
// adjacent heading-styled label.
func coursesFromHeadingAnchors(ctx context.Context, src *extract.Source) ([]Course, error) {
	var courses []Course
	seen := map[string]bool{}

	for _, m := range courseAnchorRegex.FindAllStringSubmatch(src.HTML(), -1) {
		id := m[2]
		name := textutil.CollapseWhitespace(m[3])
		if seen[id] || name == "" || textutil.MatchLabel(name, navigationLabels) {
			continue
		}
		seen[id] = true
		courses = append(courses, Course{
			ID:   id,
			Name: name,
			URL:  CourseURL(id),
		})
	}
	return courses, nil
}

// fallback: any anchor referencing the course path, visible text as the
// name, truncated to a bounded length.
func coursesFromAnyAnchor(ctx context.Context, src *extract.Source) ([]Course, error) {
	doc, err := src.Doc()
	if err != nil {
		return nil, err
	}

	var courses []Course
	seen := map[string]bool{}

	for _, anchor := range htmlutil.GetAnchors(doc.Find(`a[href*="/c/"]`)) {
		m := coursePathRegex.FindStringSubmatch(anchor.Href)
		if m == nil {
			continue
		}
		id := m[1]
		if seen[id] || anchor.Name == "" || textutil.MatchLabel(anchor.Name, navigationLabels) {
			continue
		}
		seen[id] = true
		courses = append(courses, Course{
			ID:   id,
			Name: textutil.Truncate(anchor.Name, courseNameMaxLen),
			URL:  CourseURL(id),
		})
	}
	return courses, nil
}
