package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/neomorfeo/coursebridge/internal/domain"
	"github.com/neomorfeo/coursebridge/internal/domain/records"
)

// Compile-time check: RecordsCourseRepository implements records.CourseRepository.
var _ records.CourseRepository = (*RecordsCourseRepository)(nil)

// RecordsCourseRepository implements records.CourseRepository using SQLite.
// Enrollment rows are upserted with the course row and removed by cascade
// when the course is deleted.
type RecordsCourseRepository struct {
	db *sql.DB
}

// Save writes the course and its enrollments in one transaction, with the
// same version rules as LearningCourseRepository.Save.
func (r *RecordsCourseRepository) Save(ctx context.Context, c *records.Course) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	next := c.Version() + 1
	if c.Version() == 0 {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO records_courses
			   (id, title, description, max_capacity, instructor_id, version, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID().String(), c.Title(), c.Description(), c.MaxCapacity(),
			nullString(c.InstructorID()), next,
			formatTime(c.CreatedAt()), formatTime(c.UpdatedAt()),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("inserting course %s: %w", c.ID(), domain.ErrConcurrentUpdate)
			}
			return fmt.Errorf("inserting course: %w", err)
		}
	} else {
		result, err := tx.ExecContext(ctx,
			`UPDATE records_courses
			 SET title = ?, description = ?, max_capacity = ?, instructor_id = ?, version = ?, updated_at = ?
			 WHERE id = ? AND version = ?`,
			c.Title(), c.Description(), c.MaxCapacity(), nullString(c.InstructorID()),
			next, formatTime(c.UpdatedAt()),
			c.ID().String(), c.Version(),
		)
		if err != nil {
			return fmt.Errorf("updating course: %w", err)
		}
		if err := expectOneRow(result, c.ID().String()); err != nil {
			return err
		}
	}

	for _, e := range c.Enrollments() {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO enrollments
			   (course_id, student_id, student_name, student_email, status,
			    enrolled_at, completed_at, dropped_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT (course_id, student_id) DO UPDATE SET
			   status = excluded.status,
			   completed_at = excluded.completed_at,
			   dropped_at = excluded.dropped_at,
			   updated_at = excluded.updated_at`,
			c.ID().String(), e.StudentID().String(), e.StudentName(), e.StudentEmail(),
			string(e.Status()), formatTime(e.EnrolledAt()),
			formatNullTime(e.CompletedAt()), formatNullTime(e.DroppedAt()),
			formatTime(e.UpdatedAt()),
		)
		if err != nil {
			return fmt.Errorf("saving enrollment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing course: %w", err)
	}
	c.SetVersion(next)
	return nil
}

func (r *RecordsCourseRepository) FindByID(ctx context.Context, id domain.CourseID) (*records.Course, error) {
	var title, description, createdAt, updatedAt string
	var instructor sql.NullString
	var maxCapacity, version int
	err := r.db.QueryRowContext(ctx,
		`SELECT title, description, max_capacity, instructor_id, version, created_at, updated_at
		 FROM records_courses WHERE id = ?`, id.String(),
	).Scan(&title, &description, &maxCapacity, &instructor, &version, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "course", ID: id.String()}
		}
		return nil, fmt.Errorf("scanning course: %w", err)
	}

	var tp timeParser
	created, updated := tp.at("created_at", createdAt), tp.at("updated_at", updatedAt)
	if tp.err != nil {
		return nil, fmt.Errorf("scanning course %s: %w", id, tp.err)
	}

	enrollments, err := r.enrollments(ctx, id)
	if err != nil {
		return nil, err
	}
	return records.ReconstituteCourse(id, title, description, maxCapacity, stringPtr(instructor),
		enrollments, version, created, updated), nil
}

func (r *RecordsCourseRepository) Exists(ctx context.Context, id domain.CourseID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM records_courses WHERE id = ?)`, id.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking course: %w", err)
	}
	return exists, nil
}

func (r *RecordsCourseRepository) FindAll(ctx context.Context) ([]*records.Course, error) {
	ids, err := queryIDs(ctx, r.db, `SELECT id FROM records_courses ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}

	courses := make([]*records.Course, 0, len(ids))
	for _, id := range ids {
		c, err := r.FindByID(ctx, domain.CourseID(id))
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, nil
}

// Delete removes the course; its enrollments go with it through ON DELETE CASCADE.
func (r *RecordsCourseRepository) Delete(ctx context.Context, id domain.CourseID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM records_courses WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("deleting course: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return &domain.NotFoundError{Entity: "course", ID: id.String()}
	}
	return nil
}

func (r *RecordsCourseRepository) enrollments(ctx context.Context, id domain.CourseID) ([]*records.Enrollment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT student_id, student_name, student_email, status,
		        enrolled_at, completed_at, dropped_at, updated_at
		 FROM enrollments WHERE course_id = ?`, id.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("listing enrollments: %w", err)
	}
	defer rows.Close()

	var out []*records.Enrollment
	for rows.Next() {
		var studentID, name, email, status, enrolledAt, updatedAt string
		var completedAt, droppedAt sql.NullString
		if err := rows.Scan(&studentID, &name, &email, &status, &enrolledAt, &completedAt, &droppedAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning enrollment: %w", err)
		}
		var tp timeParser
		rec := records.EnrollmentRecord{
			StudentID:    domain.StudentID(studentID),
			CourseID:     id,
			StudentName:  name,
			StudentEmail: email,
			Status:       records.EnrollmentStatus(status),
			EnrolledAt:   tp.at("enrolled_at", enrolledAt),
			UpdatedAt:    tp.at("updated_at", updatedAt),
			CompletedAt:  tp.nullAt("completed_at", completedAt),
			DroppedAt:    tp.nullAt("dropped_at", droppedAt),
		}
		if tp.err != nil {
			return nil, fmt.Errorf("enrollment %s: %w", studentID, tp.err)
		}
		out = append(out, records.ReconstituteEnrollment(rec))
	}
	return out, rows.Err()
}
