package hooks

import (
	"context"
	"errors"
	"fmt"

	"planetpath/client"
)

const (
	msgSubmitProject     = "Failed to submit project"
	msgFetchSubmissions  = "Failed to fetch submissions"
	msgFetchMySubmission = "Failed to fetch your submissions"
)

// ErrImageRequired is returned by SubmitProject when no image data is given.
var ErrImageRequired = errors.New("An image is required to submit a project")

// SubmissionService is the part of the API the Submissions hook needs.
type SubmissionService interface {
	SubmitProject(ctx context.Context, sub client.SubmissionRequest) (*client.Submission, error)
	GetSubmissionsByCourse(ctx context.Context, courseID uint) ([]client.Submission, error)
	GetMySubmissions(ctx context.Context) ([]client.Submission, error)
}

// Location is where a project photo was taken, as reported by the device.
type Location struct {
	Latitude  float64
	Longitude float64
}

type ProjectInput struct {
	CourseID     uint
	AssignmentID uint
	Description  string
	Image        client.Image
	Location     *Location
}

type SubmissionsState struct {
	RequestState
	Submissions    []client.Submission
	LastSubmission *client.Submission
}

// Submissions is the project submission hook. It is safe for concurrent use.
type Submissions struct {
	store
	svc SubmissionService

	submissions    []client.Submission
	lastSubmission *client.Submission
}

func NewSubmissions(svc SubmissionService) *Submissions {
	return &Submissions{
		store:       newStore(),
		svc:         svc,
		submissions: []client.Submission{},
	}
}

func SubmitKey(courseID, assignmentID uint) string {
	return fmt.Sprintf("submitProject:%d:%d", courseID, assignmentID)
}

func CourseSubmissionsKey(courseID uint) string {
	return fmt.Sprintf("getSubmissionsByCourse:%d", courseID)
}

const MySubmissionsKey = "getMySubmissions"

// SubmitProject sends a project once. A Location is forwarded as the
// submission's geotag; there is no automatic retry.
func (h *Submissions) SubmitProject(ctx context.Context, in ProjectInput) (*client.Submission, error) {
	return run(ctx, &h.store, "submitProject", SubmitKey(in.CourseID, in.AssignmentID), msgSubmitProject,
		func(ctx context.Context) (*client.Submission, error) {
			if len(in.Image.Data) == 0 {
				return nil, ErrImageRequired
			}
			req := client.SubmissionRequest{
				CourseID:     in.CourseID,
				AssignmentID: in.AssignmentID,
				Description:  in.Description,
				Image:        in.Image,
			}
			if in.Location != nil {
				req.Geotag = &client.Geotag{Lat: in.Location.Latitude, Lng: in.Location.Longitude}
			}
			return h.svc.SubmitProject(ctx, req)
		},
		func(sub *client.Submission) {
			h.lastSubmission = sub
		})
}

// GetSubmissionsByCourse loads a course's submissions into the submissions slot.
func (h *Submissions) GetSubmissionsByCourse(ctx context.Context, courseID uint) ([]client.Submission, error) {
	return run(ctx, &h.store, "getSubmissionsByCourse", CourseSubmissionsKey(courseID), msgFetchSubmissions,
		func(ctx context.Context) ([]client.Submission, error) {
			return nonNil(h.svc.GetSubmissionsByCourse(ctx, courseID))
		},
		h.setSubmissions)
}

// GetMySubmissions loads the user's own submissions into the submissions slot.
func (h *Submissions) GetMySubmissions(ctx context.Context) ([]client.Submission, error) {
	return run(ctx, &h.store, "getMySubmissions", MySubmissionsKey, msgFetchMySubmission,
		func(ctx context.Context) ([]client.Submission, error) {
			return nonNil(h.svc.GetMySubmissions(ctx))
		},
		h.setSubmissions)
}

// setSubmissions runs under the store lock.
func (h *Submissions) setSubmissions(subs []client.Submission) {
	h.submissions = subs
}

func nonNil(subs []client.Submission, err error) ([]client.Submission, error) {
	if err == nil && subs == nil {
		subs = []client.Submission{}
	}
	return subs, err
}

func (h *Submissions) Snapshot() SubmissionsState {
	h.mu.RLock()
	defer h.mu.RUnlock()

	subs := make([]client.Submission, len(h.submissions))
	copy(subs, h.submissions)
	return SubmissionsState{
		RequestState:   h.shared,
		Submissions:    subs,
		LastSubmission: h.lastSubmission,
	}
}
