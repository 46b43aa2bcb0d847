package classroom

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"classfetch/lib/scrapers/classroom/extract"
)

func rosterRow(id, name string) string {
	return `<tr><a href="/c/x/a/y/student/` + id + `" class="row"><span class="YVvGBb">` + name + `</span></a></tr>`
}

func TestExtractRosterPrimary(t *testing.T) {
	fixture := "<table>" +
		rosterRow("A1A1A1A1A1A1A1A1", "Ana") +
		rosterRow("B2B2B2B2B2B2B2B2", "Beto") +
		rosterRow("C3C3C3C3C3C3C3C3", "Cora") +
		"</table>"

	students := ExtractRoster(context.Background(), extract.NewSource(fixture))
	require.Equal(t, []Student{
		{ID: "A1A1A1A1A1A1A1A1", Name: "Ana"},
		{ID: "B2B2B2B2B2B2B2B2", Name: "Beto"},
		{ID: "C3C3C3C3C3C3C3C3", Name: "Cora"},
	}, students)
}

func TestExtractRosterDeduplicatesById(t *testing.T) {
	fixture := "<table>" +
		rosterRow("A1A1A1A1A1A1A1A1", "Ana") +
		rosterRow("A1A1A1A1A1A1A1A1", "ANA") +
		"</table>"

	students := ExtractRoster(context.Background(), extract.NewSource(fixture))
	require.Equal(t, []Student{
		{ID: "A1A1A1A1A1A1A1A1", Name: "Ana"},
	}, students)
}

// a fixture carrying only the fallback attribute pattern must yield the
// same student set as one authored with the primary pattern.
func TestExtractRosterFallbackEquivalence(t *testing.T) {
	primary := "<table>" +
		rosterRow("1234567890123456", "Ana") +
		rosterRow("6543210987654321", "Beto") +
		"</table>"
	fallback := `<table>
		<tr data-student-id="1234567890123456"><span class="YVvGBb">Ana</span></tr>
		<tr data-student-id="6543210987654321"><span class="YVvGBb">Beto</span></tr>
	</table>`

	fromPrimary := ExtractRoster(context.Background(), extract.NewSource(primary))
	fromFallback := ExtractRoster(context.Background(), extract.NewSource(fallback))
	require.Equal(t, fromPrimary, fromFallback)
}

func TestExtractRosterBareIdsSynthesizeNames(t *testing.T) {
	fixture := `<div>
		<a href="/c/x/a/y/student/A1A1A1A1B2B2B2B2"></a>
		<a href="/c/x/a/y/student/C3C3C3C3D4D4D4D4"></a>
	</div>`

	students := ExtractRoster(context.Background(), extract.NewSource(fixture))
	require.Equal(t, []Student{
		{ID: "A1A1A1A1B2B2B2B2", Name: "Student_A1A1A1A1"},
		{ID: "C3C3C3C3D4D4D4D4", Name: "Student_C3C3C3C3"},
	}, students)
}

func TestExtractRosterEmpty(t *testing.T) {
	students := ExtractRoster(context.Background(), extract.NewSource("<html></html>"))
	require.Empty(t, students)
}
