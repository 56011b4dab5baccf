package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/neomorfeo/coursebridge/internal/domain"
	"github.com/neomorfeo/coursebridge/internal/domain/learning"
)

var (
	_ learning.StudentRepository = (*StudentRepository)(nil)
	_ learning.CourseRepository  = (*LearningCourseRepository)(nil)
)

// StudentRepository implements learning.StudentRepository using SQLite.
type StudentRepository struct {
	db *sql.DB
}

const studentColumns = `id, name, email, created_at, updated_at`

func (r *StudentRepository) Save(ctx context.Context, s *learning.Student) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO students (`+studentColumns+`)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   name = excluded.name,
		   email = excluded.email,
		   updated_at = excluded.updated_at`,
		s.ID().String(), s.Name(), s.Email(),
		formatTime(s.CreatedAt()), formatTime(s.UpdatedAt()),
	)
	if err != nil {
		if isUniqueViolationOn(err, "email") {
			return &domain.EmailConflictError{Email: s.Email()}
		}
		return fmt.Errorf("saving student: %w", err)
	}
	return nil
}

func (r *StudentRepository) FindByID(ctx context.Context, id domain.StudentID) (*learning.Student, error) {
	s, err := scanStudent(r.db.QueryRowContext(ctx,
		`SELECT `+studentColumns+` FROM students WHERE id = ?`, id.String(),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "student", ID: id.String()}
	}
	return s, err
}

func (r *StudentRepository) Exists(ctx context.Context, id domain.StudentID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM students WHERE id = ?)`, id.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking student: %w", err)
	}
	return exists, nil
}

func (r *StudentRepository) FindByEmail(ctx context.Context, email string) (*learning.Student, error) {
	s, err := scanStudent(r.db.QueryRowContext(ctx,
		`SELECT `+studentColumns+` FROM students WHERE email = ?`, email,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "student", ID: email}
	}
	return s, err
}

func (r *StudentRepository) FindAll(ctx context.Context) ([]*learning.Student, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+studentColumns+` FROM students ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing students: %w", err)
	}
	defer rows.Close()

	var students []*learning.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

func scanStudent(row rowScanner) (*learning.Student, error) {
	var id, name, email, createdAt, updatedAt string
	if err := row.Scan(&id, &name, &email, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning student: %w", err)
	}
	var tp timeParser
	created, updated := tp.at("created_at", createdAt), tp.at("updated_at", updatedAt)
	if tp.err != nil {
		return nil, fmt.Errorf("scanning student %s: %w", id, tp.err)
	}
	return learning.ReconstituteStudent(domain.StudentID(id), name, email, created, updated), nil
}

// LearningCourseRepository implements learning.CourseRepository using SQLite.
// Learners are stored in course_learners and saved with the course row.
type LearningCourseRepository struct {
	db *sql.DB
}

// Save writes the course and its learners in one transaction. A course with
// version 0 is inserted; otherwise the stored version must match, or Save
// fails with domain.ErrConcurrentUpdate.
func (r *LearningCourseRepository) Save(ctx context.Context, c *learning.Course) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	next := c.Version() + 1
	if c.Version() == 0 {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO learning_courses (id, title, max_students, version, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			c.ID().String(), c.Title(), c.MaxStudents(), next,
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
			`UPDATE learning_courses SET title = ?, max_students = ?, version = ?, updated_at = ?
			 WHERE id = ? AND version = ?`,
			c.Title(), c.MaxStudents(), next, formatTime(c.UpdatedAt()),
			c.ID().String(), c.Version(),
		)
		if err != nil {
			return fmt.Errorf("updating course: %w", err)
		}
		if err := expectOneRow(result, c.ID().String()); err != nil {
			return err
		}
	}

	for _, l := range c.Learners() {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO course_learners (course_id, student_id, student_name, student_email, enrolled_at)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT (course_id, student_id) DO NOTHING`,
			c.ID().String(), l.StudentID.String(), l.Name, l.Email, formatTime(l.EnrolledAt.Time()),
		)
		if err != nil {
			return fmt.Errorf("saving learner: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing course: %w", err)
	}
	c.SetVersion(next)
	return nil
}

func (r *LearningCourseRepository) FindByID(ctx context.Context, id domain.CourseID) (*learning.Course, error) {
	var title, createdAt, updatedAt string
	var maxStudents, version int
	err := r.db.QueryRowContext(ctx,
		`SELECT title, max_students, version, created_at, updated_at
		 FROM learning_courses WHERE id = ?`, id.String(),
	).Scan(&title, &maxStudents, &version, &createdAt, &updatedAt)
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

	learners, err := r.learners(ctx, id)
	if err != nil {
		return nil, err
	}
	return learning.ReconstituteCourse(id, title, maxStudents, learners, version, created, updated), nil
}

func (r *LearningCourseRepository) Exists(ctx context.Context, id domain.CourseID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM learning_courses WHERE id = ?)`, id.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking course: %w", err)
	}
	return exists, nil
}

func (r *LearningCourseRepository) FindAll(ctx context.Context) ([]*learning.Course, error) {
	ids, err := queryIDs(ctx, r.db, `SELECT id FROM learning_courses ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}

	courses := make([]*learning.Course, 0, len(ids))
	for _, id := range ids {
		c, err := r.FindByID(ctx, domain.CourseID(id))
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, nil
}

func (r *LearningCourseRepository) learners(ctx context.Context, id domain.CourseID) ([]learning.Learner, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT student_id, student_name, student_email, enrolled_at
		 FROM course_learners WHERE course_id = ?`, id.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("listing learners: %w", err)
	}
	defer rows.Close()

	var out []learning.Learner
	for rows.Next() {
		var studentID, name, email, enrolledAt string
		if err := rows.Scan(&studentID, &name, &email, &enrolledAt); err != nil {
			return nil, fmt.Errorf("scanning learner: %w", err)
		}
		var tp timeParser
		at := tp.at("enrolled_at", enrolledAt)
		if tp.err != nil {
			return nil, fmt.Errorf("learner %s: %w", studentID, tp.err)
		}
		date, err := learning.NewEnrollmentDate(at)
		if err != nil {
			return nil, fmt.Errorf("learner %s: %w", studentID, err)
		}
		out = append(out, learning.Learner{
			StudentID:  domain.StudentID(studentID),
			Name:       name,
			Email:      email,
			EnrolledAt: date,
		})
	}
	return out, rows.Err()
}

// queryIDs collects the first column of every row. The rows are closed
// before callers issue follow-up queries on the single connection.
func queryIDs(ctx context.Context, db *sql.DB, query string) ([]string, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func expectOneRow(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("saving course %s: %w", id, domain.ErrConcurrentUpdate)
	}
	return nil
}
