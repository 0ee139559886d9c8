package hooks

import (
	"context"
	"fmt"

	"planetpath/client"
)

const (
	msgFetchCourses    = "Failed to fetch courses"
	msgFetchCourse     = "Failed to fetch course"
	msgEnroll          = "Failed to enroll in course"
	msgCheckEnrollment = "Failed to check enrollment status"
)

// CourseService is the part of the API the Courses hook needs.
type CourseService interface {
	ListCourses(ctx context.Context, params client.ListParams) (*client.CourseList, error)
	GetCourse(ctx context.Context, id uint) (*client.CourseDetail, error)
	Enroll(ctx context.Context, id uint) (*client.Enrollment, error)
	CheckEnrollment(ctx context.Context, id uint) (bool, error)
}

// CoursesState is a point-in-time copy of a Courses hook.
type CoursesState struct {
	RequestState
	Courses     []client.Course
	Pagination  client.Pagination
	Course      *client.CourseDetail
	Enrollments map[uint]bool
}

// Courses is the course catalogue hook. It is safe for concurrent use.
type Courses struct {
	store
	svc CourseService

	courses     []client.Course
	pagination  client.Pagination
	course      *client.CourseDetail
	enrollments map[uint]bool
}

func NewCourses(svc CourseService) *Courses {
	return &Courses{
		store:       newStore(),
		svc:         svc,
		courses:     []client.Course{},
		enrollments: make(map[uint]bool),
	}
}

func CoursesKey(p client.ListParams) string {
	return fmt.Sprintf("getCourses:page=%d,limit=%d,level=%s,search=%s", p.Page, p.Limit, p.Level, p.Search)
}

func CourseKey(id uint) string { return fmt.Sprintf("getCourse:%d", id) }

func EnrollKey(id uint) string { return fmt.Sprintf("enroll:%d", id) }

func EnrollmentStatusKey(id uint) string { return fmt.Sprintf("checkEnrollment:%d", id) }

// GetCourses fetches a page of the catalogue into the courses slot.
func (h *Courses) GetCourses(ctx context.Context, params client.ListParams) ([]client.Course, error) {
	list, err := run(ctx, &h.store, "getCourses", CoursesKey(params), msgFetchCourses,
		func(ctx context.Context) (*client.CourseList, error) {
			list, err := h.svc.ListCourses(ctx, params)
			if err != nil {
				return nil, err
			}
			if list == nil {
				list = &client.CourseList{}
			}
			if list.Courses == nil {
				list.Courses = []client.Course{}
			}
			return list, nil
		},
		func(list *client.CourseList) {
			h.courses = list.Courses
			h.pagination = list.Pagination
		})
	if err != nil {
		return nil, err
	}
	return list.Courses, nil
}

// GetCourse fetches one course into the course slot.
func (h *Courses) GetCourse(ctx context.Context, id uint) (*client.CourseDetail, error) {
	return run(ctx, &h.store, "getCourse", CourseKey(id), msgFetchCourse,
		func(ctx context.Context) (*client.CourseDetail, error) {
			return h.svc.GetCourse(ctx, id)
		},
		func(detail *client.CourseDetail) {
			h.course = detail
		})
}

// Enroll enrolls the user and marks the course as enrolled.
func (h *Courses) Enroll(ctx context.Context, id uint) (*client.Enrollment, error) {
	return run(ctx, &h.store, "enroll", EnrollKey(id), msgEnroll,
		func(ctx context.Context) (*client.Enrollment, error) {
			return h.svc.Enroll(ctx, id)
		},
		func(*client.Enrollment) {
			h.enrollments[id] = true
		})
}

// CheckEnrollment asks the server whether the user is enrolled and records the answer.
func (h *Courses) CheckEnrollment(ctx context.Context, id uint) (bool, error) {
	return run(ctx, &h.store, "checkEnrollment", EnrollmentStatusKey(id), msgCheckEnrollment,
		func(ctx context.Context) (bool, error) {
			return h.svc.CheckEnrollment(ctx, id)
		},
		func(enrolled bool) {
			h.enrollments[id] = enrolled
		})
}

// IsEnrolled reads the enrollment map. known is false for courses never
// enrolled in or checked.
func (h *Courses) IsEnrolled(id uint) (enrolled, known bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	enrolled, known = h.enrollments[id]
	return enrolled, known
}

// ForgetEnrollment drops the cached status of one course.
func (h *Courses) ForgetEnrollment(id uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.enrollments, id)
}

// ResetEnrollments drops every cached enrollment status, e.g. on logout.
func (h *Courses) ResetEnrollments() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.enrollments = make(map[uint]bool)
}

func (h *Courses) Snapshot() CoursesState {
	h.mu.RLock()
	defer h.mu.RUnlock()

	enrollments := make(map[uint]bool, len(h.enrollments))
	for id, enrolled := range h.enrollments {
		enrollments[id] = enrolled
	}
	courses := make([]client.Course, len(h.courses))
	copy(courses, h.courses)
	return CoursesState{
		RequestState: h.shared,
		Courses:      courses,
		Pagination:   h.pagination,
		Course:       h.course,
		Enrollments:  enrollments,
	}
}
