// Package classroom scrapes student submissions off the classroom
// platform through a controlled browser session.
package classroom

import (
	"context"
	"log/slog"
	"net/http/cookiejar"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"classfetch/lib/browser"
	"classfetch/lib/scrapers/classroom/extract"
	"classfetch/lib/telemetry"
)

var tracer = otel.Tracer("scrapers/classroom")

const (
	navigateTimeout = time.Second * 30
	// how long to wait for attachment markers to materialize after the
	// per-student reload; absence just means an empty submission
	attachmentWaitTimeout = time.Second * 10
	// pause between students, rate limiting only
	rosterDelay = time.Second
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

// Client drives one browser session through the platform. Sessions are
// not safe for concurrent use, callers serialize operations.
type Client struct {
	Session *browser.Session
	// authenticated fallback transport for direct export downloads
	Http *resty.Client
}

func NewClient(session *browser.Session) (Client, error) {
	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return Client{}, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", userAgent)
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scrapers/classroom/http")

	return Client{
		Session: session,
		Http:    client,
	}, nil
}

// snapshot navigates and hands back the rendered markup as an
// extraction source.
func (c Client) snapshot(ctx context.Context, url string, policy browser.WaitPolicy) (*extract.Source, error) {
	navCtx, cancel := context.WithTimeout(ctx, navigateTimeout)
	defer cancel()

	err := c.Session.Navigate(navCtx, url, policy)
	if err != nil {
		return nil, err
	}
	html, err := c.Session.Content(ctx)
	if err != nil {
		return nil, err
	}
	return extract.NewSource(html), nil
}

// ListCourses enumerates the account's courses off the home view.
func (c Client) ListCourses(ctx context.Context) ([]Course, error) {
	ctx, span := tracer.Start(ctx, "client:ListCourses")
	defer span.End()

	src, err := c.snapshot(ctx, BaseURL, browser.WaitNetworkSettled)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to snapshot home view")
		return nil, err
	}

	courses := ExtractCourses(ctx, src)
	span.SetAttributes(attribute.Int("courses", len(courses)))
	return courses, nil
}

// ListAssignments enumerates the coursework of a course.
func (c Client) ListAssignments(ctx context.Context, course Course) ([]Assignment, error) {
	ctx, span := tracer.Start(ctx, "client:ListAssignments")
	defer span.End()
	span.SetAttributes(attribute.String("course", course.ID))

	src, err := c.snapshot(ctx, ClassworkURL(course.ID), browser.WaitNetworkSettled)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to snapshot classwork view")
		return nil, err
	}

	assignments := ExtractAssignments(ctx, src, course.ID)
	span.SetAttributes(attribute.Int("assignments", len(assignments)))
	return assignments, nil
}

// ListRoster enumerates the students on an assignment's submission
// view, in document order.
func (c Client) ListRoster(ctx context.Context, course Course, assignment Assignment) ([]Student, error) {
	ctx, span := tracer.Start(ctx, "client:ListRoster")
	defer span.End()
	span.SetAttributes(
		attribute.String("course", course.ID),
		attribute.String("assignment", assignment.ID),
	)

	src, err := c.snapshot(ctx, SubmissionsURL(course.ID, assignment.ID), browser.WaitNetworkSettled)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to snapshot submissions view")
		return nil, err
	}

	students := ExtractRoster(ctx, src)
	span.SetAttributes(attribute.Int("students", len(students)))
	return students, nil
}

// FetchSubmission forces the application into the target student's
// submission state and extracts the attached files. The student id only
// lives in the url fragment and the application does not re-render on
// fragment-only navigation, so the view is unconditionally reloaded
// before reading; without the reload the previous student's attachments
// bleed into this one.
func (c Client) FetchSubmission(ctx context.Context, course Course, assignment Assignment, student Student) (Submission, error) {
	ctx, span := tracer.Start(ctx, "client:FetchSubmission")
	defer span.End()
	span.SetAttributes(attribute.String("student", student.ID))

	sub := Submission{
		StudentID:   student.ID,
		StudentName: student.Name,
	}

	navCtx, cancel := context.WithTimeout(ctx, navigateTimeout)
	err := c.Session.Navigate(navCtx, StudentWorkURL(course.ID, assignment.ID, student.ID), browser.WaitDOMContentLoaded)
	cancel()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to navigate to student work")
		return sub, err
	}

	refreshCtx, cancel := context.WithTimeout(ctx, navigateTimeout)
	err = c.Session.ForceRefresh(refreshCtx)
	cancel()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to reload student work")
		return sub, err
	}

	err = c.Session.WaitVisible(ctx, `div.clmEye[data-url]`, attachmentWaitTimeout)
	if err != nil {
		// no attachments ever materializing is a valid empty submission
		slog.DebugContext(ctx, "no attachment markers appeared",
			"student", student.ID, "err", err)
	}

	html, err := c.Session.Content(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to snapshot student work")
		return sub, err
	}

	sub.Attachments = ExtractAttachments(ctx, extract.NewSource(html))
	span.SetAttributes(attribute.Int("attachments", len(sub.Attachments)))
	return sub, nil
}

// ExtractAllSubmissions walks the roster sequentially and fetches every
// student's submission. A failed fetch is logged and skipped, it never
// aborts the loop; the result holds exactly what was extracted.
func (c Client) ExtractAllSubmissions(ctx context.Context, course Course, assignment Assignment) ([]Submission, error) {
	ctx, span := tracer.Start(ctx, "client:ExtractAllSubmissions")
	defer span.End()

	roster, err := c.ListRoster(ctx, course, assignment)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list roster")
		return nil, err
	}
	slog.InfoContext(ctx, "extracting submissions",
		"assignment", assignment.Name, "students", len(roster))

	var submissions []Submission
	for i, student := range roster {
		if err := ctx.Err(); err != nil {
			return submissions, err
		}

		slog.InfoContext(ctx, "fetching student submission",
			"index", i+1, "total", len(roster), "student", student.Name)

		sub, err := c.FetchSubmission(ctx, course, assignment, student)
		if err != nil {
			slog.WarnContext(ctx, "skipping student after failed fetch",
				"student", student.ID, "name", student.Name, "err", err)
			continue
		}
		submissions = append(submissions, sub)

		// rate limit between students
		select {
		case <-ctx.Done():
			return submissions, ctx.Err()
		case <-time.After(rosterDelay):
		}
	}

	span.SetAttributes(attribute.Int("submissions", len(submissions)))
	return submissions, nil
}
