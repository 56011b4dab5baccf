package river_test

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	goriver "github.com/riverqueue/river"

	_ "modernc.org/sqlite"

	"github.com/neomorfeo/coursebridge/internal/adapter/eventbus"
	riveradapter "github.com/neomorfeo/coursebridge/internal/adapter/river"
	"github.com/neomorfeo/coursebridge/internal/domain"
	"github.com/neomorfeo/coursebridge/internal/domain/learning"
	"github.com/neomorfeo/coursebridge/internal/domain/tenant"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbPath := t.TempDir() + "/river_test.db"
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		t.Fatalf("setting WAL: %v", err)
	}

	return db
}

// startClient sets up and starts a River client and returns a channel of
// completed jobs. The subscription is taken before Start so no event is missed.
func startClient(t *testing.T) (*riveradapter.Client, <-chan *goriver.Event) {
	t.Helper()
	ctx := context.Background()

	client, err := riveradapter.Setup(ctx, setupTestDB(t), 0)
	if err != nil {
		t.Fatalf("river setup: %v", err)
	}

	subscribeChan, subscribeCancel := client.Subscribe(goriver.EventKindJobCompleted)
	t.Cleanup(subscribeCancel)

	if err := client.Start(ctx); err != nil {
		t.Fatalf("river start: %v", err)
	}
	t.Cleanup(func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Stop(stopCtx); err != nil {
			t.Errorf("river stop: %v", err)
		}
	})

	return client, subscribeChan
}

func waitForJob(t *testing.T, ch <-chan *goriver.Event) *goriver.Event {
	t.Helper()
	select {
	case event := <-ch:
		return event
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for job completion")
		return nil
	}
}

func TestForwarder_Handle_EnqueuesJob(t *testing.T) {
	client, completed := startClient(t)
	fwd := riveradapter.NewForwarder(client)

	event := tenant.Created{TenantID: "t-1", Name: "Acme", Slug: "acme", At: time.Now()}
	if err := fwd.Handle(context.Background(), event); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	job := waitForJob(t, completed)
	if job.Job.Kind != "domain.event" {
		t.Errorf("job kind = %q, want %q", job.Job.Kind, "domain.event")
	}
}

func TestForwarder_Handle_PreservesPayload(t *testing.T) {
	client, completed := startClient(t)
	fwd := riveradapter.NewForwarder(client)

	courseID, studentID := domain.NewCourseID(), domain.NewStudentID()
	event := learning.StudentEnrolled{
		CourseID:     courseID,
		StudentID:    studentID,
		StudentName:  "Jane",
		StudentEmail: "jane@example.test",
		EnrolledAt:   time.Now(),
	}
	if err := fwd.Handle(context.Background(), event); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	job := waitForJob(t, completed)
	args := string(job.Job.EncodedArgs)
	for _, want := range []string{
		`"event":"student_learning.student_enrolled"`,
		`"course_id":"` + courseID.String() + `"`,
		`"student_id":"` + studentID.String() + `"`,
		`"student_email":"jane@example.test"`,
	} {
		if !strings.Contains(args, want) {
			t.Errorf("encoded args missing %s, got: %s", want, args)
		}
	}
}

func TestForwarder_AsBusConsumer(t *testing.T) {
	client, completed := startClient(t)
	bus := eventbus.New()
	bus.SubscribeName(tenant.CreatedEventName, riveradapter.NewForwarder(client).Handle)

	event := tenant.Created{TenantID: "t-9", Name: "Acme", Slug: "acme-9", At: time.Now()}
	if err := bus.Publish(context.Background(), event); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	job := waitForJob(t, completed)
	if !strings.Contains(string(job.Job.EncodedArgs), `"slug":"acme-9"`) {
		t.Errorf("encoded args = %s, want slug acme-9", job.Job.EncodedArgs)
	}
}
