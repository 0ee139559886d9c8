// Package client talks to the Planet Path API. Every method returns either a
// decoded payload or an *APIError whose Message can be shown to a user.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 30 * time.Second

// envelope is the {status, message, data} wrapper every endpoint answers with.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type Client struct {
	rc *resty.Client
}

type Option func(*resty.Client)

// WithToken authenticates every request with a bearer token.
func WithToken(token string) Option {
	return func(rc *resty.Client) {
		if token != "" {
			rc.SetAuthToken(token)
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(rc *resty.Client) { rc.SetTimeout(d) }
}

func New(baseURL string, opts ...Option) *Client {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(defaultTimeout).
		SetHeader("Accept", "application/json")
	for _, opt := range opts {
		opt(rc)
	}
	return &Client{rc: rc}
}

// SetToken replaces the bearer token. It must not be called while requests are in flight.
func (c *Client) SetToken(token string) {
	c.rc.SetAuthToken(token)
}

// Login exchanges credentials for a token and starts using it.
func (c *Client) Login(ctx context.Context, email, password string) (string, User, error) {
	var out struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	req := c.rc.R().SetBody(map[string]string{"email": email, "password": password})
	if err := c.do(ctx, req, http.MethodPost, "/auth/login", &out); err != nil {
		return "", User{}, err
	}
	c.SetToken(out.Token)
	return out.Token, out.User, nil
}

func (c *Client) ListCourses(ctx context.Context, params ListParams) (*CourseList, error) {
	query := map[string]string{}
	if params.Page > 0 {
		query["page"] = strconv.Itoa(params.Page)
	}
	if params.Limit > 0 {
		query["limit"] = strconv.Itoa(params.Limit)
	}
	if params.Level != "" {
		query["level"] = params.Level
	}
	if params.Search != "" {
		query["search"] = params.Search
	}

	var out CourseList
	if err := c.do(ctx, c.rc.R().SetQueryParams(query), http.MethodGet, "/course/list", &out); err != nil {
		return nil, err
	}
	if out.Courses == nil {
		out.Courses = []Course{}
	}
	return &out, nil
}

func (c *Client) GetCourse(ctx context.Context, id uint) (*CourseDetail, error) {
	var out CourseDetail
	if err := c.do(ctx, c.withID(id), http.MethodGet, "/course/{id}", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Enroll(ctx context.Context, id uint) (*Enrollment, error) {
	var out Enrollment
	if err := c.do(ctx, c.withID(id), http.MethodPost, "/course/{id}/enroll", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CheckEnrollment(ctx context.Context, id uint) (bool, error) {
	var out struct {
		IsEnrolled bool `json:"is_enrolled"`
	}
	if err := c.do(ctx, c.withID(id), http.MethodGet, "/course/{id}/enrollment", &out); err != nil {
		return false, err
	}
	return out.IsEnrolled, nil
}

// SubmitProject uploads a project photo as multipart form data. The geotag,
// when present, travels as the lat and lng fields.
func (c *Client) SubmitProject(ctx context.Context, sub SubmissionRequest) (*Submission, error) {
	form := map[string]string{
		"course_id":     strconv.FormatUint(uint64(sub.CourseID), 10),
		"assignment_id": strconv.FormatUint(uint64(sub.AssignmentID), 10),
		"description":   sub.Description,
	}
	if sub.Geotag != nil {
		form["lat"] = strconv.FormatFloat(sub.Geotag.Lat, 'f', -1, 64)
		form["lng"] = strconv.FormatFloat(sub.Geotag.Lng, 'f', -1, 64)
	}

	name := sub.Image.Name
	if name == "" {
		name = "project.jpg"
	}
	req := c.rc.R().
		SetFormData(form).
		SetFileReader("image", name, bytes.NewReader(sub.Image.Data))

	var out Submission
	if err := c.do(ctx, req, http.MethodPost, "/submission", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetSubmissionsByCourse(ctx context.Context, courseID uint) ([]Submission, error) {
	return c.submissions(ctx, c.withID(courseID), "/submission/course/{id}")
}

func (c *Client) GetMySubmissions(ctx context.Context) ([]Submission, error) {
	return c.submissions(ctx, c.rc.R(), "/submission/my")
}

func (c *Client) submissions(ctx context.Context, req *resty.Request, path string) ([]Submission, error) {
	var out struct {
		Submissions []Submission `json:"submissions"`
	}
	if err := c.do(ctx, req, http.MethodGet, path, &out); err != nil {
		return nil, err
	}
	if out.Submissions == nil {
		out.Submissions = []Submission{}
	}
	return out.Submissions, nil
}

func (c *Client) withID(id uint) *resty.Request {
	return c.rc.R().SetPathParam("id", strconv.FormatUint(uint64(id), 10))
}

// do executes req and decodes the envelope's data into out.
func (c *Client) do(ctx context.Context, req *resty.Request, method, path string, out interface{}) error {
	resp, err := req.SetContext(ctx).Execute(method, path)
	if err != nil {
		// a client timeout also reports DeadlineExceeded; only the caller's context means cancelled
		if ctx.Err() != nil {
			return &APIError{Message: MsgCancelled, Err: err}
		}
		return &APIError{Message: MsgNetwork, Err: err}
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return &APIError{Status: resp.StatusCode(), Message: MsgMalformed, Err: err}
	}

	if resp.IsError() || !env.Status {
		apiErr := &APIError{Status: resp.StatusCode(), Message: env.Message}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode())
		}
		if resp.StatusCode() == http.StatusUnprocessableEntity {
			var fields map[string]string
			if json.Unmarshal(env.Data, &fields) == nil {
				apiErr.Fields = fields
			}
		}
		return apiErr
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &APIError{Status: resp.StatusCode(), Message: MsgMalformed, Err: err}
	}
	return nil
}
