package classroom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	course := Course{ID: "C1", Name: "Matemáticas"}
	assignment := Assignment{ID: "A1", Name: "Tarea 1", CourseID: "C1"}
	submissions := []Submission{
		{StudentID: "A1", StudentName: "Ana", Attachments: []Attachment{
			attachment("file1", KindDocument),
			attachment("file2", KindSpreadsheet),
		}},
		{StudentID: "B2", StudentName: "Beto"},
		{StudentID: "C3", StudentName: "Cora", Attachments: []Attachment{
			attachment("file3", KindOther),
		}},
	}

	report := Aggregate(course, assignment, submissions)

	require.Equal(t, 3, report.TotalStudents)
	require.Equal(t, 2, report.StudentsWithFiles)
	require.Equal(t, 3, report.TotalFiles)

	// the student with zero attachments stays in the report
	diff := cmp.Diff(submissions, report.Submissions)
	require.Empty(t, diff)
}

func TestAggregateEmptyRun(t *testing.T) {
	report := Aggregate(Course{ID: "C1"}, Assignment{ID: "A1"}, nil)
	require.Equal(t, 0, report.TotalStudents)
	require.Equal(t, 0, report.StudentsWithFiles)
	require.Equal(t, 0, report.TotalFiles)
}
