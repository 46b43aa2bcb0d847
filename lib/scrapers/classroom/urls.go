package classroom

import (
	"fmt"
	"strings"
)

// The platform's URL shapes are an external, versioned contract; keep
// every constructed URL in this file.

const BaseURL = "https://classroom.google.com"

func CourseURL(courseID string) string {
	return fmt.Sprintf("%s/c/%s", BaseURL, courseID)
}

// ClassworkURL is the "classwork" tab listing every assignment.
func ClassworkURL(courseID string) string {
	return fmt.Sprintf("%s/w/%s/t/all", BaseURL, courseID)
}

// SubmissionsURL lists the full roster of an assignment sorted by name.
func SubmissionsURL(courseID, assignmentID string) string {
	return fmt.Sprintf("%s/c/%s/a/%s/submissions/by-status/and-sort-name/all",
		BaseURL, courseID, assignmentID)
}

// StudentWorkURL targets one student's submission view. The student id
// only appears in the fragment, which is why callers must force a full
// reload after navigating here.
func StudentWorkURL(courseID, assignmentID, studentID string) string {
	return fmt.Sprintf("%s/g/tg/%s/%s#u=%s&t=f", BaseURL, courseID, assignmentID, studentID)
}

// DocumentKind classifies an attachment by its hosting endpoint and
// selects the export endpoint that converts it to a pdf.
type DocumentKind int

const (
	// binary files (pdfs, images) that download directly
	KindOther DocumentKind = iota
	KindDocument
	KindPresentation
	KindSpreadsheet
)

func (k DocumentKind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindPresentation:
		return "presentation"
	case KindSpreadsheet:
		return "spreadsheet"
	default:
		return "other"
	}
}

// KindOfURL classifies a raw attachment URL.
func KindOfURL(raw string) DocumentKind {
	switch {
	case strings.Contains(raw, "docs.google.com/document"):
		return KindDocument
	case strings.Contains(raw, "docs.google.com/presentation"):
		return KindPresentation
	case strings.Contains(raw, "docs.google.com/spreadsheets"):
		return KindSpreadsheet
	default:
		return KindOther
	}
}

// ExportURL maps a file reference to the endpoint that yields its pdf
// rendition (or the raw binary for KindOther). Total and deterministic
// over DocumentKind.
func ExportURL(fileID string, kind DocumentKind) string {
	switch kind {
	case KindDocument:
		return fmt.Sprintf("https://docs.google.com/document/d/%s/export?format=pdf", fileID)
	case KindPresentation:
		return fmt.Sprintf("https://docs.google.com/presentation/d/%s/export/pdf", fileID)
	case KindSpreadsheet:
		return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=pdf", fileID)
	default:
		return fmt.Sprintf("https://drive.google.com/uc?export=download&id=%s", fileID)
	}
}
