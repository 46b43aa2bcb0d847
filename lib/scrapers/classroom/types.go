package classroom

// Course is a top-level enrollment unit ("class"). Identity is the
// opaque platform id; immutable once extracted.
type Course struct {
	ID   string
	Name string
	URL  string
}

// Assignment is a gradable coursework item within a course.
type Assignment struct {
	ID       string
	Name     string
	CourseID string
}

// Student as listed on an assignment's submission view. Names are
// display-only and may collide across students; the id is unique within
// a roster.
type Student struct {
	ID   string
	Name string
}

// Attachment is one file reference on a student's submission. ExportURL
// is derived from (FileID, Kind) at extraction time and never mutated.
type Attachment struct {
	FileID    string
	SourceURL string
	Kind      DocumentKind
	ExportURL string
}

// Submission holds the deduplicated attachments of one (assignment,
// student) pair. An empty attachment set is a valid submission.
type Submission struct {
	StudentID   string
	StudentName string
	Attachments []Attachment
}

// Report is the final structure of a run, handed to the report writer.
type Report struct {
	Course            Course
	Assignment        Assignment
	Submissions       []Submission
	TotalStudents     int
	StudentsWithFiles int
	TotalFiles        int
}
