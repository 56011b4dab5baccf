package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/coursebridge/internal/app"
	"github.com/neomorfeo/coursebridge/internal/domain/learning"
)

// StudentResponse is the API representation of a student.
type StudentResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toStudentResponse(s *learning.Student) StudentResponse {
	return StudentResponse{
		ID:        s.ID().String(),
		Name:      s.Name(),
		Email:     s.Email(),
		CreatedAt: formatTime(s.CreatedAt()),
		UpdatedAt: formatTime(s.UpdatedAt()),
	}
}

// LearnerResponse is one student with learning access.
type LearnerResponse struct {
	StudentID  string `json:"student_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	EnrolledAt string `json:"enrolled_at"`
}

// LearningCourseResponse is the learning view of a course.
type LearningCourseResponse struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	MaxStudents    int               `json:"max_students"`
	LearnerCount   int               `json:"learner_count"`
	AvailableSlots int               `json:"available_slots"`
	Learners       []LearnerResponse `json:"learners"`
	CreatedAt      string            `json:"created_at"`
	UpdatedAt      string            `json:"updated_at"`
}

func toLearningCourseResponse(c *learning.Course) LearningCourseResponse {
	learners := c.Learners()
	resp := LearningCourseResponse{
		ID:             c.ID().String(),
		Title:          c.Title(),
		MaxStudents:    c.MaxStudents(),
		LearnerCount:   c.LearnerCount(),
		AvailableSlots: c.AvailableSlots(),
		Learners:       make([]LearnerResponse, len(learners)),
		CreatedAt:      formatTime(c.CreatedAt()),
		UpdatedAt:      formatTime(c.UpdatedAt()),
	}
	for i, l := range learners {
		resp.Learners[i] = LearnerResponse{
			StudentID:  l.StudentID.String(),
			Name:       l.Name,
			Email:      l.Email,
			EnrolledAt: formatTime(l.EnrolledAt.Time()),
		}
	}
	return resp
}

type StudentBody struct {
	Name  string `json:"name" maxLength:"255" doc:"Full name"`
	Email string `json:"email" doc:"Unique email address"`
}

type RegisterStudentInput struct {
	Body StudentBody
}

type UpdateStudentInput struct {
	ID   string `path:"id" doc:"Student ID"`
	Body StudentBody
}

type GetStudentInput struct {
	ID string `path:"id" doc:"Student ID"`
}

type StudentOutput struct {
	Body StudentResponse
}

type ListStudentsOutput struct {
	Body []StudentResponse
}

type CreateLearningCourseInput struct {
	Body struct {
		ID          string `json:"id,omitempty" doc:"Optional course ID shared with the records context"`
		Title       string `json:"title" maxLength:"255"`
		MaxStudents int    `json:"max_students,omitempty" minimum:"0" maximum:"1000" doc:"Learner limit, 100 when omitted"`
	}
}

type GetCourseInput struct {
	ID string `path:"id" doc:"Course ID"`
}

type LearningCourseOutput struct {
	Body LearningCourseResponse
}

type ListLearningCoursesOutput struct {
	Body []LearningCourseResponse
}

type EnrollStudentInput struct {
	Body struct {
		CourseID  string `json:"course_id" doc:"Course ID"`
		StudentID string `json:"student_id" doc:"Student ID"`
	}
}

type EnrollmentResponse struct {
	CourseID  string `json:"course_id"`
	StudentID string `json:"student_id"`
	Message   string `json:"message"`
}

type EnrollStudentOutput struct {
	Body EnrollmentResponse
}

// RegisterLearning adds the student, learning course and enrollment routes.
func RegisterLearning(api huma.API, svc *app.LearningService) {
	huma.Register(api, huma.Operation{
		OperationID:   "register-student",
		Method:        http.MethodPost,
		Path:          "/api/v1/students",
		Summary:       "Register a student",
		Tags:          []string{"Students"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *RegisterStudentInput) (*StudentOutput, error) {
		s, err := svc.RegisterStudent(ctx, app.RegisterStudentCommand{Name: input.Body.Name, Email: input.Body.Email})
		if err != nil {
			return nil, toHumaError(ctx, err)
		}
		return &StudentOutput{Body: toStudentResponse(s)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-students",
		Method:      http.MethodGet,
		Path:        "/api/v1/students",
		Summary:     "List students",
		Tags:        []string{"Students"},
	}, func(ctx context.Context, _ *struct{}) (*ListStudentsOutput, error) {
		students, err := svc.ListStudents(ctx)
		if err != nil {
			return nil, toHumaError(ctx, err)
		}
		resp := make([]StudentResponse, len(students))
		for i, s := range students {
			resp[i] = toStudentResponse(s)
		}
		return &ListStudentsOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-student",
		Method:      http.MethodGet,
		Path:        "/api/v1/students/{id}",
		Summary:     "Get a student by ID",
		Tags:        []string{"Students"},
	}, func(ctx context.Context, input *GetStudentInput) (*StudentOutput, error) {
		s, err := svc.GetStudent(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(ctx, err)
		}
		return &StudentOutput{Body: toStudentResponse(s)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-student",
		Method:      http.MethodPut,
		Path:        "/api/v1/students/{id}",
		Summary:     "Update a student's name and email",
		Tags:        []string{"Students"},
	}, func(ctx context.Context, input *UpdateStudentInput) (*StudentOutput, error) {
		s, err := svc.UpdateStudent(ctx, app.UpdateStudentCommand{
			ID:    input.ID,
			Name:  input.Body.Name,
			Email: input.Body.Email,
		})
		if err != nil {
			return nil, toHumaError(ctx, err)
		}
		return &StudentOutput{Body: toStudentResponse(s)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-course",
		Method:        http.MethodPost,
		Path:          "/api/v1/courses",
		Summary:       "Create a learning course",
		Tags:          []string{"Courses"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *CreateLearningCourseInput) (*LearningCourseOutput, error) {
		c, err := svc.CreateCourse(ctx, app.CreateLearningCourseCommand{
			ID:          input.Body.ID,
			Title:       input.Body.Title,
			MaxStudents: input.Body.MaxStudents,
		})
		if err != nil {
			return nil, toHumaError(ctx, err)
		}
		return &LearningCourseOutput{Body: toLearningCourseResponse(c)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-courses",
		Method:      http.MethodGet,
		Path:        "/api/v1/courses",
		Summary:     "List learning courses",
		Tags:        []string{"Courses"},
	}, func(ctx context.Context, _ *struct{}) (*ListLearningCoursesOutput, error) {
		courses, err := svc.ListCourses(ctx)
		if err != nil {
			return nil, toHumaError(ctx, err)
		}
		resp := make([]LearningCourseResponse, len(courses))
		for i, c := range courses {
			resp[i] = toLearningCourseResponse(c)
		}
		return &ListLearningCoursesOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-course",
		Method:      http.MethodGet,
		Path:        "/api/v1/courses/{id}",
		Summary:     "Get a learning course with its learners",
		Tags:        []string{"Courses"},
	}, func(ctx context.Context, input *GetCourseInput) (*LearningCourseOutput, error) {
		c, err := svc.GetCourse(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(ctx, err)
		}
		return &LearningCourseOutput{Body: toLearningCourseResponse(c)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "enroll-student",
		Method:        http.MethodPost,
		Path:          "/api/v1/enrollments",
		Summary:       "Enroll a student in a course",
		Description:   "Grants learning access and records the enrollment in the administrative records.",
		Tags:          []string{"Enrollments"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *EnrollStudentInput) (*EnrollStudentOutput, error) {
		err := svc.EnrollStudent(ctx, app.EnrollStudentCommand{
			CourseID:  input.Body.CourseID,
			StudentID: input.Body.StudentID,
		})
		if err != nil {
			return nil, toHumaError(ctx, err)
		}
		return &EnrollStudentOutput{Body: EnrollmentResponse{
			CourseID:  input.Body.CourseID,
			StudentID: input.Body.StudentID,
			Message:   "Student enrolled successfully",
		}}, nil
	})
}
