package commands

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"classfetch/lib/reportstore"
	"classfetch/lib/scrapers/classroom"
	"classfetch/lib/serviceutil"
	"classfetch/lib/textutil"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Interactively pick a course and assignment, extract every student's files, and optionally download them as pdf.",
	// errors propagate instead of exiting in place so the deferred
	// session release runs on failure and interrupt paths too
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := readConfig()

		ctx := serviceutil.SignalContext()
		client, session, err := createClient(ctx, cfg)
		if err != nil {
			return err
		}
		defer session.Release()

		stdin := bufio.NewReader(os.Stdin)

		course, err := chooseCourse(ctx, client, stdin)
		if err != nil {
			return fmt.Errorf("course selection failed: %w", err)
		}
		assignment, err := chooseAssignment(ctx, client, stdin, course)
		if err != nil {
			return fmt.Errorf("assignment selection failed: %w", err)
		}

		submissions, err := client.ExtractAllSubmissions(ctx, course, assignment)
		if err != nil {
			return fmt.Errorf("failed to extract submissions: %w", err)
		}

		report := classroom.Aggregate(course, assignment, submissions)
		printSummary(report)
		persistReport(ctx, cfg, report)

		answer := promptLine(stdin, "Download files as pdf? (y/n): ")
		if strings.EqualFold(answer, "y") || strings.EqualFold(answer, "s") {
			saved, err := client.DownloadAll(ctx, submissions, cfg.DownloadDir)
			if err != nil {
				return fmt.Errorf("download run failed: %w", err)
			}
			fmt.Printf("done, %d files saved to %q\n", saved, cfg.DownloadDir)
		}
		return nil
	},
}

func chooseCourse(ctx context.Context, client classroom.Client, stdin *bufio.Reader) (classroom.Course, error) {
	courses, err := client.ListCourses(ctx)
	if err != nil {
		return classroom.Course{}, err
	}
	if len(courses) == 0 {
		return classroom.Course{}, fmt.Errorf("no courses found on the account")
	}

	fmt.Println("Courses:")
	for i, c := range courses {
		fmt.Printf("  %d. %s\n", i+1, c.Name)
	}
	idx, err := promptChoice(stdin, "Course number: ", len(courses))
	if err != nil {
		return classroom.Course{}, err
	}
	return courses[idx], nil
}

func chooseAssignment(ctx context.Context, client classroom.Client, stdin *bufio.Reader, course classroom.Course) (classroom.Assignment, error) {
	assignments, err := client.ListAssignments(ctx, course)
	if err != nil {
		return classroom.Assignment{}, err
	}

	// the classwork view occasionally renders nothing extractable;
	// the assignment id off the url still works
	if len(assignments) == 0 {
		fmt.Println("no assignments found; open the assignment in a browser and copy its id from the url")
		id := promptLine(stdin, "Assignment id (q to quit): ")
		if id == "" || id == "q" {
			return classroom.Assignment{}, fmt.Errorf("no assignment selected")
		}
		return classroom.Assignment{
			ID:       id,
			Name:     "assignment_" + textutil.Truncate(id, 8),
			CourseID: course.ID,
		}, nil
	}

	fmt.Printf("Assignments in %q:\n", course.Name)
	for i, a := range assignments {
		fmt.Printf("  %d. %s\n", i+1, a.Name)
	}
	idx, err := promptChoice(stdin, "Assignment number: ", len(assignments))
	if err != nil {
		return classroom.Assignment{}, err
	}
	return assignments[idx], nil
}

func printSummary(report classroom.Report) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Student", "Files"})
	for _, sub := range report.Submissions {
		t.AppendRow(table.Row{sub.StudentName, len(sub.Attachments)})
	}
	t.AppendFooter(table.Row{
		fmt.Sprintf("%d students, %d with files", report.TotalStudents, report.StudentsWithFiles),
		report.TotalFiles,
	})
	t.Render()
}

func persistReport(ctx context.Context, cfg Config, report classroom.Report) {
	store, err := reportstore.Open(cfg.ReportDb)
	if err != nil {
		slog.Error("failed to open report db", "path", cfg.ReportDb, "err", err)
		return
	}
	defer store.Close()

	runID, err := store.Save(ctx, report)
	if err != nil {
		slog.Error("failed to save report", "err", err)
		return
	}
	slog.Info("report saved", "db", cfg.ReportDb, "run_id", runID)

	jsonPath := fmt.Sprintf("submissions_%s.json",
		textutil.Truncate(textutil.SanitizeFilename(report.Assignment.Name), 30))
	err = reportstore.WriteJSON(report, jsonPath)
	if err != nil {
		slog.Error("failed to write json report", "path", jsonPath, "err", err)
		return
	}
	slog.Info("json report written", "path", jsonPath)
}
