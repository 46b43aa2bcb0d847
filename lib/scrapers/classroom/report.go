package classroom

// Aggregate assembles the final report of a run. Pure, no I/O; the
// counts are always consistent with the submission list.
func Aggregate(course Course, assignment Assignment, submissions []Submission) Report {
	report := Report{
		Course:        course,
		Assignment:    assignment,
		Submissions:   submissions,
		TotalStudents: len(submissions),
	}
	for _, sub := range submissions {
		if len(sub.Attachments) > 0 {
			report.StudentsWithFiles++
		}
		report.TotalFiles += len(sub.Attachments)
	}
	return report
}
