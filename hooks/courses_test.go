package hooks

import (
	"context"
	"errors"
	"sync"
	"testing"

	"planetpath/client"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCoursesStoresResult(t *testing.T) {
	svc := &fakeCourseService{
		listCourses: func(ctx context.Context, params client.ListParams) (*client.CourseList, error) {
			return &client.CourseList{Courses: []client.Course{{ID: 1, Title: "Intro"}}}, nil
		},
	}
	h := NewCourses(svc)

	courses, err := h.GetCourses(context.Background(), client.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, []client.Course{{ID: 1, Title: "Intro"}}, courses)

	state := h.Snapshot()
	assert.Equal(t, []client.Course{{ID: 1, Title: "Intro"}}, state.Courses)
	assert.False(t, state.IsLoading)
	assert.Empty(t, state.Error)
}

func TestGetCoursesFailureKeepsMessageAndReturnsError(t *testing.T) {
	cause := errors.New("Network error")
	svc := &fakeCourseService{
		listCourses: func(ctx context.Context, params client.ListParams) (*client.CourseList, error) {
			return nil, cause
		},
	}
	h := NewCourses(svc)

	courses, err := h.GetCourses(context.Background(), client.ListParams{})
	require.Error(t, err)
	assert.Nil(t, courses)
	assert.Equal(t, "Network error", err.Error())
	assert.ErrorIs(t, err, cause)

	var actionErr *ActionError
	require.ErrorAs(t, err, &actionErr)
	assert.Equal(t, "getCourses", actionErr.Action)

	state := h.Snapshot()
	assert.False(t, state.IsLoading)
	assert.Equal(t, "Network error", state.Error)
	assert.Empty(t, state.Courses)
}

func TestFailureUsesAPIErrorMessage(t *testing.T) {
	svc := &fakeCourseService{
		getCourse: func(ctx context.Context, id uint) (*client.CourseDetail, error) {
			return nil, &client.APIError{Status: 404, Message: "Course not found!"}
		},
	}
	h := NewCourses(svc)

	_, err := h.GetCourse(context.Background(), 9)
	require.Error(t, err)
	assert.Equal(t, "Course not found!", h.State().Error)

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.NotFound())
}

func TestFailureFallsBackToDefaultMessage(t *testing.T) {
	svc := &fakeCourseService{
		listCourses: func(ctx context.Context, params client.ListParams) (*client.CourseList, error) {
			return nil, silentError{}
		},
		getCourse: func(ctx context.Context, id uint) (*client.CourseDetail, error) {
			return nil, silentError{}
		},
		enroll: func(ctx context.Context, id uint) (*client.Enrollment, error) {
			return nil, &client.APIError{}
		},
		checkEnrollment: func(ctx context.Context, id uint) (bool, error) {
			return false, silentError{}
		},
	}
	h := NewCourses(svc)
	ctx := context.Background()

	_, err := h.GetCourses(ctx, client.ListParams{})
	require.Error(t, err)
	assert.Equal(t, "Failed to fetch courses", h.State().Error)

	_, err = h.GetCourse(ctx, 1)
	require.Error(t, err)
	assert.Equal(t, "Failed to fetch course", h.State().Error)

	_, err = h.CheckEnrollment(ctx, 1)
	require.Error(t, err)
	assert.Equal(t, "Failed to check enrollment status", h.State().Error)

	_, err = h.Enroll(ctx, 1)
	require.Error(t, err)
	assert.Equal(t, "Failed to enroll in course", h.State().Error)
}

func TestSuccessClearsPreviousError(t *testing.T) {
	fail := true
	svc := &fakeCourseService{
		listCourses: func(ctx context.Context, params client.ListParams) (*client.CourseList, error) {
			if fail {
				return nil, errors.New("boom")
			}
			return &client.CourseList{}, nil
		},
	}
	h := NewCourses(svc)

	_, err := h.GetCourses(context.Background(), client.ListParams{})
	require.Error(t, err)
	assert.Equal(t, "boom", h.State().Error)

	fail = false
	courses, err := h.GetCourses(context.Background(), client.ListParams{})
	require.NoError(t, err)
	assert.NotNil(t, courses)
	assert.Equal(t, RequestState{}, h.State())
}

func TestLoadingWhileInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	svc := &fakeCourseService{
		getCourse: func(ctx context.Context, id uint) (*client.CourseDetail, error) {
			close(started)
			<-release
			return &client.CourseDetail{Course: client.Course{ID: id}}, nil
		},
	}
	h := NewCourses(svc)

	done := make(chan error)
	go func() {
		_, err := h.GetCourse(context.Background(), 3)
		done <- err
	}()

	<-started
	assert.True(t, h.State().IsLoading)
	req, ok := h.Request(CourseKey(3))
	require.True(t, ok)
	assert.True(t, req.IsLoading)

	close(release)
	require.NoError(t, <-done)

	state := h.Snapshot()
	assert.False(t, state.IsLoading)
	require.NotNil(t, state.Course)
	assert.Equal(t, uint(3), state.Course.Course.ID)

	req, _ = h.Request(CourseKey(3))
	assert.Equal(t, RequestState{}, req)
}

func TestEnrollmentMap(t *testing.T) {
	svc := &fakeCourseService{
		enroll: func(ctx context.Context, id uint) (*client.Enrollment, error) {
			return &client.Enrollment{CourseID: id, Status: "ENROLLED"}, nil
		},
		checkEnrollment: func(ctx context.Context, id uint) (bool, error) {
			return id == 7, nil
		},
	}
	h := NewCourses(svc)
	ctx := context.Background()

	enrolled, known := h.IsEnrolled(5)
	assert.False(t, enrolled)
	assert.False(t, known)

	enrollment, err := h.Enroll(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, uint(5), enrollment.CourseID)

	enrolled, known = h.IsEnrolled(5)
	assert.True(t, enrolled)
	assert.True(t, known)

	ok, err := h.CheckEnrollment(ctx, 6)
	require.NoError(t, err)
	assert.False(t, ok)
	enrolled, known = h.IsEnrolled(6)
	assert.False(t, enrolled)
	assert.True(t, known)

	ok, err = h.CheckEnrollment(ctx, 7)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, map[uint]bool{5: true, 6: false, 7: true}, h.Snapshot().Enrollments)

	h.ForgetEnrollment(5)
	_, known = h.IsEnrolled(5)
	assert.False(t, known)

	h.ResetEnrollments()
	assert.Empty(t, h.Snapshot().Enrollments)
}

func TestFailedEnrollLeavesMapUntouched(t *testing.T) {
	svc := &fakeCourseService{
		enroll: func(ctx context.Context, id uint) (*client.Enrollment, error) {
			return nil, &client.APIError{Status: 409, Message: "User already enrolled in this course!"}
		},
	}
	h := NewCourses(svc)

	_, err := h.Enroll(context.Background(), 2)
	require.Error(t, err)
	assert.Equal(t, "User already enrolled in this course!", h.State().Error)

	_, known := h.IsEnrolled(2)
	assert.False(t, known)
}

func TestConcurrentCallsLastSettledWins(t *testing.T) {
	releaseSlow := make(chan struct{})
	slowStarted := make(chan struct{})
	svc := &fakeCourseService{
		getCourse: func(ctx context.Context, id uint) (*client.CourseDetail, error) {
			if id == 1 {
				close(slowStarted)
				<-releaseSlow
				return nil, errors.New("slow failure")
			}
			return &client.CourseDetail{Course: client.Course{ID: id}}, nil
		},
	}
	h := NewCourses(svc)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = h.GetCourse(ctx, 1)
	}()
	<-slowStarted

	_, err := h.GetCourse(ctx, 2)
	require.NoError(t, err)

	// the fast call settled while the slow one is still running
	assert.False(t, h.State().IsLoading)
	slow, _ := h.Request(CourseKey(1))
	assert.True(t, slow.IsLoading)
	fast, _ := h.Request(CourseKey(2))
	assert.Equal(t, RequestState{}, fast)

	close(releaseSlow)
	wg.Wait()

	assert.Equal(t, RequestState{Error: "slow failure"}, h.State())
	slow, _ = h.Request(CourseKey(1))
	assert.Equal(t, RequestState{Error: "slow failure"}, slow)
	fast, _ = h.Request(CourseKey(2))
	assert.Equal(t, RequestState{}, fast)
}

func TestSameKeyStaysLoadingUntilAllSettle(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{}, 2)
	svc := &fakeCourseService{
		checkEnrollment: func(ctx context.Context, id uint) (bool, error) {
			entered <- struct{}{}
			<-release
			return true, nil
		},
	}
	h := NewCourses(svc)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = h.CheckEnrollment(context.Background(), 4)
		}()
	}
	<-entered
	<-entered

	release <- struct{}{}
	// wait until exactly one of the two calls has settled
	require.Eventually(t, func() bool {
		h.mu.RLock()
		defer h.mu.RUnlock()
		return h.inflight[EnrollmentStatusKey(4)] == 1
	}, timeout, tick)

	req, _ := h.Request(EnrollmentStatusKey(4))
	assert.True(t, req.IsLoading)

	close(release)
	wg.Wait()
	req, _ = h.Request(EnrollmentStatusKey(4))
	assert.False(t, req.IsLoading)
}

func TestPanickingServiceFailsLikeAnError(t *testing.T) {
	svc := &fakeCourseService{
		listCourses: func(ctx context.Context, params client.ListParams) (*client.CourseList, error) {
			panic("service exploded")
		},
	}
	h := NewCourses(svc)

	var (
		courses []client.Course
		err     error
	)
	require.NotPanics(t, func() {
		courses, err = h.GetCourses(context.Background(), client.ListParams{})
	})
	assert.Nil(t, courses)
	require.Error(t, err)
	assert.Equal(t, "Failed to fetch courses", err.Error())

	var actionErr *ActionError
	require.ErrorAs(t, err, &actionErr)
	assert.Equal(t, "getCourses", actionErr.Action)
	assert.Contains(t, actionErr.Err.Error(), "service exploded")

	state := h.State()
	assert.False(t, state.IsLoading)
	assert.Equal(t, "Failed to fetch courses", state.Error)

	req, ok := h.Request(CoursesKey(client.ListParams{}))
	require.True(t, ok)
	assert.Equal(t, RequestState{Error: "Failed to fetch courses"}, req)
}
