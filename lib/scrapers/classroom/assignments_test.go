package classroom

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"classfetch/lib/scrapers/classroom/extract"
)

const classworkFixture = `
<html><body>
<a href="https://classroom.google.com/c/NDg3/a/ACg8ocAbC_123-xyz/details">open</a>
<a href="https://classroom.google.com/c/NDg3/a/123456789012345/details">open</a>
<div data-item-id="ACg8ocAbC_123-xyz"><div class="asQXV">Tarea 1: Ensayo</div></div>
<div data-coursework-id="123456789012345"><span role="heading">Tarea 2</span></div>
</body></html>`

func TestExtractAssignmentsPrimary(t *testing.T) {
	assignments := ExtractAssignments(context.Background(), extract.NewSource(classworkFixture), "NDg3")
	require.Equal(t, []Assignment{
		{ID: "ACg8ocAbC_123-xyz", Name: "Tarea 1: Ensayo", CourseID: "NDg3"},
		{ID: "123456789012345", Name: "Tarea 2", CourseID: "NDg3"},
	}, assignments)
}

// item elements without any extractable href still resolve.
const classworkNoHrefFixture = `
<html><body>
<div data-item-id="ACg8ocQQQ"><div class="YVvGBb">Examen parcial</div></div>
<div data-item-id="ACg8ocQQQ"><div class="YVvGBb">Examen parcial</div></div>
</body></html>`

func TestExtractAssignmentsItemElementsFallback(t *testing.T) {
	assignments := ExtractAssignments(context.Background(), extract.NewSource(classworkNoHrefFixture), "NDg3")
	require.Equal(t, []Assignment{
		{ID: "ACg8ocQQQ", Name: "Examen parcial", CourseID: "NDg3"},
	}, assignments)
}

const classworkBlockFixture = `
<html><body>
<ul>
<li data-item-id="987654321098765">
	Lectura obligatoria
	entregada el lunes
</li>
</ul>
</body></html>`

func TestExtractAssignmentsItemBlocksFallback(t *testing.T) {
	assignments := ExtractAssignments(context.Background(), extract.NewSource(classworkBlockFixture), "NDg3")
	require.Equal(t, []Assignment{
		{ID: "987654321098765", Name: "Lectura obligatoria", CourseID: "NDg3"},
	}, assignments)
}

func TestExtractAssignmentsEmpty(t *testing.T) {
	assignments := ExtractAssignments(context.Background(), extract.NewSource("<html></html>"), "NDg3")
	require.Empty(t, assignments)
}
