package hooks

import (
	"context"

	"planetpath/client"
)

type fakeCourseService struct {
	listCourses     func(ctx context.Context, params client.ListParams) (*client.CourseList, error)
	getCourse       func(ctx context.Context, id uint) (*client.CourseDetail, error)
	enroll          func(ctx context.Context, id uint) (*client.Enrollment, error)
	checkEnrollment func(ctx context.Context, id uint) (bool, error)
}

func (f *fakeCourseService) ListCourses(ctx context.Context, params client.ListParams) (*client.CourseList, error) {
	return f.listCourses(ctx, params)
}

func (f *fakeCourseService) GetCourse(ctx context.Context, id uint) (*client.CourseDetail, error) {
	return f.getCourse(ctx, id)
}

func (f *fakeCourseService) Enroll(ctx context.Context, id uint) (*client.Enrollment, error) {
	return f.enroll(ctx, id)
}

func (f *fakeCourseService) CheckEnrollment(ctx context.Context, id uint) (bool, error) {
	return f.checkEnrollment(ctx, id)
}

type fakeSubmissionService struct {
	submitted []client.SubmissionRequest

	submit   func(ctx context.Context, sub client.SubmissionRequest) (*client.Submission, error)
	byCourse func(ctx context.Context, courseID uint) ([]client.Submission, error)
	mine     func(ctx context.Context) ([]client.Submission, error)
}

func (f *fakeSubmissionService) SubmitProject(ctx context.Context, sub client.SubmissionRequest) (*client.Submission, error) {
	f.submitted = append(f.submitted, sub)
	return f.submit(ctx, sub)
}

func (f *fakeSubmissionService) GetSubmissionsByCourse(ctx context.Context, courseID uint) ([]client.Submission, error) {
	return f.byCourse(ctx, courseID)
}

func (f *fakeSubmissionService) GetMySubmissions(ctx context.Context) ([]client.Submission, error) {
	return f.mine(ctx)
}

// silentError has no text, so hooks must fall back to their default message.
type silentError struct{}

func (silentError) Error() string { return "" }
