package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/coursebridge/internal/app"
	"github.com/neomorfeo/coursebridge/internal/domain/records"
)

// EnrollmentRecordResponse is one administrative enrollment record.
type EnrollmentRecordResponse struct {
	StudentID    string  `json:"student_id"`
	StudentName  string  `json:"student_name"`
	StudentEmail string  `json:"student_email"`
	Status       string  `json:"status"`
	EnrolledAt   string  `json:"enrolled_at"`
	UpdatedAt    string  `json:"updated_at"`
	CompletedAt  *string `json:"completed_at,omitempty"`
	DroppedAt    *string `json:"dropped_at,omitempty"`
}

func toEnrollmentRecordResponse(e *records.Enrollment) EnrollmentRecordResponse {
	return EnrollmentRecordResponse{
		StudentID:    e.StudentID().String(),
		StudentName:  e.StudentName(),
		StudentEmail: e.StudentEmail(),
		Status:       string(e.Status()),
		EnrolledAt:   formatTime(e.EnrolledAt()),
		UpdatedAt:    formatTime(e.UpdatedAt()),
		CompletedAt:  formatTimePtr(e.CompletedAt()),
		DroppedAt:    formatTimePtr(e.DroppedAt()),
	}
}

// StatisticsResponse counts enrollments by status.
type StatisticsResponse struct {
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Dropped   int `json:"dropped"`
	Suspended int `json:"suspended"`
	Total     int `json:"total"`
}

// RecordsCourseResponse is the administrative view of a course.
type RecordsCourseResponse struct {
	ID                string                     `json:"id"`
	Title             string                     `json:"title"`
	Description       string                     `json:"description"`
	MaxCapacity       int                        `json:"max_capacity"`
	AvailableCapacity int                        `json:"available_capacity"`
	InstructorID      *string                    `json:"instructor_id,omitempty"`
	Statistics        StatisticsResponse         `json:"statistics"`
	Enrollments       []EnrollmentRecordResponse `json:"enrollments"`
	CreatedAt         string                     `json:"created_at"`
	UpdatedAt         string                     `json:"updated_at"`
}

func toRecordsCourseResponse(c *records.Course, filter ...records.EnrollmentStatus) RecordsCourseResponse {
	stats := c.Statistics()
	enrollments := c.Enrollments(filter...)
	resp := RecordsCourseResponse{
		ID:                c.ID().String(),
		Title:             c.Title(),
		Description:       c.Description(),
		MaxCapacity:       c.MaxCapacity(),
		AvailableCapacity: c.AvailableCapacity(),
		InstructorID:      c.InstructorID(),
		Statistics: StatisticsResponse{
			Active:    stats.Active,
			Completed: stats.Completed,
			Dropped:   stats.Dropped,
			Suspended: stats.Suspended,
			Total:     stats.Total,
		},
		Enrollments: make([]EnrollmentRecordResponse, len(enrollments)),
		CreatedAt:   formatTime(c.CreatedAt()),
		UpdatedAt:   formatTime(c.UpdatedAt()),
	}
	for i, e := range enrollments {
		resp.Enrollments[i] = toEnrollmentRecordResponse(e)
	}
	return resp
}

type CreateRecordsCourseInput struct {
	Body struct {
		ID           string  `json:"id,omitempty" doc:"Optional course ID shared with the learning context"`
		Title        string  `json:"title" maxLength:"255"`
		Description  string  `json:"description,omitempty"`
		MaxCapacity  int     `json:"max_capacity,omitempty" minimum:"0" maximum:"1000" doc:"Active enrollment limit, 100 when omitted"`
		InstructorID *string `json:"instructor_id,omitempty"`
	}
}

type UpdateRecordsCourseInput struct {
	ID   string `path:"id" doc:"Course ID"`
	Body struct {
		Title        string  `json:"title" maxLength:"255"`
		Description  string  `json:"description,omitempty"`
		InstructorID *string `json:"instructor_id,omitempty"`
	}
}

type GetRecordsCourseInput struct {
	ID     string `path:"id" doc:"Course ID"`
	Status string `query:"status" required:"false" doc:"Only list enrollments in this status"`
}

type RecordsCourseOutput struct {
	Body RecordsCourseResponse
}

type ListRecordsCoursesOutput struct {
	Body []RecordsCourseResponse
}

type TransitionEnrollmentInput struct {
	ID        string `path:"id" doc:"Course ID"`
	StudentID string `path:"studentId" doc:"Student ID"`
	Body      struct {
		Event string `json:"event" doc:"Lifecycle event to trigger" enum:"complete,drop,suspend,reactivate"`
	}
}

type EnrollmentRecordOutput struct {
	Body EnrollmentRecordResponse
}

// RegisterRecords adds the administrative records routes.
func RegisterRecords(api huma.API, svc *app.RecordsService) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-records-course",
		Method:        http.MethodPost,
		Path:          "/api/v1/records/courses",
		Summary:       "Create a course in the administrative records",
		Tags:          []string{"Records"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *CreateRecordsCourseInput) (*RecordsCourseOutput, error) {
		c, err := svc.CreateCourse(ctx, app.CreateRecordsCourseCommand{
			ID:           input.Body.ID,
			Title:        input.Body.Title,
			Description:  input.Body.Description,
			MaxCapacity:  input.Body.MaxCapacity,
			InstructorID: input.Body.InstructorID,
		})
		if err != nil {
			return nil, toHumaError(ctx, err)
		}
		return &RecordsCourseOutput{Body: toRecordsCourseResponse(c)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-records-courses",
		Method:      http.MethodGet,
		Path:        "/api/v1/records/courses",
		Summary:     "List courses in the administrative records",
		Tags:        []string{"Records"},
	}, func(ctx context.Context, _ *struct{}) (*ListRecordsCoursesOutput, error) {
		courses, err := svc.ListCourses(ctx)
		if err != nil {
			return nil, toHumaError(ctx, err)
		}
		resp := make([]RecordsCourseResponse, len(courses))
		for i, c := range courses {
			resp[i] = toRecordsCourseResponse(c)
		}
		return &ListRecordsCoursesOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-records-course",
		Method:      http.MethodGet,
		Path:        "/api/v1/records/courses/{id}",
		Summary:     "Get a course with enrollment statistics",
		Tags:        []string{"Records"},
	}, func(ctx context.Context, input *GetRecordsCourseInput) (*RecordsCourseOutput, error) {
		var filter []records.EnrollmentStatus
		if input.Status != "" {
			st, err := records.ParseEnrollmentStatus(input.Status)
			if err != nil {
				return nil, toHumaError(ctx, err)
			}
			filter = append(filter, st)
		}
		c, err := svc.GetCourse(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(ctx, err)
		}
		return &RecordsCourseOutput{Body: toRecordsCourseResponse(c, filter...)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-records-course",
		Method:      http.MethodPut,
		Path:        "/api/v1/records/courses/{id}",
		Summary:     "Update a course's descriptive fields",
		Tags:        []string{"Records"},
	}, func(ctx context.Context, input *UpdateRecordsCourseInput) (*RecordsCourseOutput, error) {
		c, err := svc.UpdateCourse(ctx, app.UpdateRecordsCourseCommand{
			ID:           input.ID,
			Title:        input.Body.Title,
			Description:  input.Body.Description,
			InstructorID: input.Body.InstructorID,
		})
		if err != nil {
			return nil, toHumaError(ctx, err)
		}
		return &RecordsCourseOutput{Body: toRecordsCourseResponse(c)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-records-course",
		Method:        http.MethodDelete,
		Path:          "/api/v1/records/courses/{id}",
		Summary:       "Delete a course and its enrollment records",
		Tags:          []string{"Records"},
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *GetCourseInput) (*struct{}, error) {
		if err := svc.DeleteCourse(ctx, input.ID); err != nil {
			return nil, toHumaError(ctx, err)
		}
		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "transition-enrollment",
		Method:      http.MethodPost,
		Path:        "/api/v1/records/courses/{id}/enrollments/{studentId}/events",
		Summary:     "Trigger an enrollment lifecycle event",
		Tags:        []string{"Records"},
	}, func(ctx context.Context, input *TransitionEnrollmentInput) (*EnrollmentRecordOutput, error) {
		e, err := svc.TransitionEnrollment(ctx, input.ID, input.StudentID, input.Body.Event)
		if err != nil {
			return nil, toHumaError(ctx, err)
		}
		return &EnrollmentRecordOutput{Body: toEnrollmentRecordResponse(e)}, nil
	})
}
