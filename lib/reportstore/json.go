package reportstore

import (
	"encoding/json"
	"os"

	"classfetch/lib/scrapers/classroom"
)

type jsonAttachment struct {
	FileID    string `json:"file_id"`
	URL       string `json:"url"`
	Kind      string `json:"kind"`
	ExportURL string `json:"export_url"`
}

type jsonSubmission struct {
	StudentID   string           `json:"student_id"`
	StudentName string           `json:"student_name"`
	Files       []jsonAttachment `json:"files"`
}

type jsonReport struct {
	Course            string           `json:"course"`
	CourseID          string           `json:"course_id"`
	Assignment        string           `json:"assignment"`
	AssignmentID      string           `json:"assignment_id"`
	TotalStudents     int              `json:"total_students"`
	StudentsWithFiles int              `json:"students_with_files"`
	TotalFiles        int              `json:"total_files"`
	Submissions       []jsonSubmission `json:"submissions"`
}

// WriteJSON renders the report as an indented json file.
func WriteJSON(report classroom.Report, path string) error {
	out := jsonReport{
		Course:            report.Course.Name,
		CourseID:          report.Course.ID,
		Assignment:        report.Assignment.Name,
		AssignmentID:      report.Assignment.ID,
		TotalStudents:     report.TotalStudents,
		StudentsWithFiles: report.StudentsWithFiles,
		TotalFiles:        report.TotalFiles,
		Submissions:       make([]jsonSubmission, len(report.Submissions)),
	}
	for i, sub := range report.Submissions {
		files := make([]jsonAttachment, len(sub.Attachments))
		for j, att := range sub.Attachments {
			files[j] = jsonAttachment{
				FileID:    att.FileID,
				URL:       att.SourceURL,
				Kind:      att.Kind.String(),
				ExportURL: att.ExportURL,
			}
		}
		out.Submissions[i] = jsonSubmission{
			StudentID:   sub.StudentID,
			StudentName: sub.StudentName,
			Files:       files,
		}
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, encoded, 0o644)
}
