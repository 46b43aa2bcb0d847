// Package reportstore persists finished extraction reports. The core
// pipeline never touches storage itself, it hands one report per run to
// this writer.
package reportstore

import (
	"context"
	"database/sql"
	"time"

	_ "embed"

	_ "modernc.org/sqlite"

	"classfetch/lib/scrapers/classroom"
)

//go:embed schema.sql
var Schema string

type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

// Open opens (creating if needed) a report database at path.
func Open(path string) (Store, error) {
	database, err := sql.Open("sqlite", path)
	if err != nil {
		return Store{}, err
	}
	_, err = database.Exec(Schema)
	if err != nil {
		database.Close()
		return Store{}, err
	}
	return Store{db: database}, nil
}

func (s Store) Close() error {
	return s.db.Close()
}

// Save writes one run's report and returns its run id.
func (s Store) Save(ctx context.Context, report classroom.Report) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO run (
			created_at,
			course_id, course_name,
			assignment_id, assignment_name,
			total_students, students_with_files, total_files
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().Unix(),
		report.Course.ID, report.Course.Name,
		report.Assignment.ID, report.Assignment.Name,
		report.TotalStudents, report.StudentsWithFiles, report.TotalFiles,
	)
	if err != nil {
		return 0, err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for subIdx, sub := range report.Submissions {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO submission (run_id, idx, student_id, student_name)
			VALUES (?, ?, ?, ?)`,
			runID, subIdx, sub.StudentID, sub.StudentName,
		)
		if err != nil {
			return 0, err
		}

		for attIdx, att := range sub.Attachments {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO attachment (
					run_id, submission_idx, idx,
					file_id, source_url, kind, export_url
				) VALUES (?, ?, ?, ?, ?, ?, ?)`,
				runID, subIdx, attIdx,
				att.FileID, att.SourceURL, int64(att.Kind), att.ExportURL,
			)
			if err != nil {
				return 0, err
			}
		}
	}

	return runID, tx.Commit()
}

// Load reads a saved run back into a report, submissions and
// attachments in their original order.
func (s Store) Load(ctx context.Context, runID int64) (classroom.Report, error) {
	var report classroom.Report
	err := s.db.QueryRowContext(ctx, `
		SELECT course_id, course_name,
			assignment_id, assignment_name,
			total_students, students_with_files, total_files
		FROM run WHERE id = ?`, runID,
	).Scan(
		&report.Course.ID, &report.Course.Name,
		&report.Assignment.ID, &report.Assignment.Name,
		&report.TotalStudents, &report.StudentsWithFiles, &report.TotalFiles,
	)
	if err != nil {
		return report, err
	}
	report.Course.URL = classroom.CourseURL(report.Course.ID)
	report.Assignment.CourseID = report.Course.ID

	subRows, err := s.db.QueryContext(ctx, `
		SELECT idx, student_id, student_name
		FROM submission WHERE run_id = ? ORDER BY idx`, runID)
	if err != nil {
		return report, err
	}
	defer subRows.Close()

	indexOf := map[int64]int{}
	for subRows.Next() {
		var idx int64
		var sub classroom.Submission
		err = subRows.Scan(&idx, &sub.StudentID, &sub.StudentName)
		if err != nil {
			return report, err
		}
		indexOf[idx] = len(report.Submissions)
		report.Submissions = append(report.Submissions, sub)
	}
	if err = subRows.Err(); err != nil {
		return report, err
	}

	attRows, err := s.db.QueryContext(ctx, `
		SELECT submission_idx, file_id, source_url, kind, export_url
		FROM attachment WHERE run_id = ? ORDER BY submission_idx, idx`, runID)
	if err != nil {
		return report, err
	}
	defer attRows.Close()

	for attRows.Next() {
		var subIdx int64
		var kind int64
		var att classroom.Attachment
		err = attRows.Scan(&subIdx, &att.FileID, &att.SourceURL, &kind, &att.ExportURL)
		if err != nil {
			return report, err
		}
		att.Kind = classroom.DocumentKind(kind)

		i, ok := indexOf[subIdx]
		if !ok {
			continue
		}
		report.Submissions[i].Attachments = append(report.Submissions[i].Attachments, att)
	}
	return report, attRows.Err()
}
