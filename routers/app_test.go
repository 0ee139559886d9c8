package routers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"planetpath/config"
	"planetpath/database"
	courseModels "planetpath/models/course"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const adminEmail = "admin@planetpath.test"

// a PNG signature is all the content sniffer needs
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	config.AppConfig = &config.Config{
		JWTKey:     "test-secret",
		SaltRound:  bcrypt.MinCost,
		DBDriver:   "sqlite",
		AdminEmail: adminEmail,
		UploadDir:  t.TempDir(),
	}
	require.NoError(t, database.Connect("sqlite", "file::memory:"))
	return NewApp(config.AppConfig.UploadDir, false)
}

func send(t *testing.T, app *fiber.App, req *http.Request) (int, envelope) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env
}

func call(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return send(t, app, req)
}

func decode(t *testing.T, env envelope, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, out), string(env.Data))
}

func register(t *testing.T, app *fiber.App, name, email string) string {
	t.Helper()
	status, env := call(t, app, http.MethodPost, "/auth/signup", "", fiber.Map{
		"name": name, "email": email, "password": "password123",
	})
	require.Equal(t, http.StatusCreated, status, env.Message)

	status, env = call(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"email": email, "password": "password123",
	})
	require.Equal(t, http.StatusOK, status, env.Message)
	var out struct {
		Token string `json:"token"`
	}
	decode(t, env, &out)
	require.NotEmpty(t, out.Token)
	return out.Token
}

// seedCourse creates and publishes a course with the given number of assignments.
func seedCourse(t *testing.T, app *fiber.App, adminToken, title string, assignments int) (uint, []uint) {
	t.Helper()
	status, env := call(t, app, http.MethodPost, "/admin/course/create", adminToken, fiber.Map{
		"title": title, "description": "Hands-on sustainability", "level": "beginner", "topics": []string{"soil", "water"},
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var course struct {
		ID uint `json:"ID"`
	}
	decode(t, env, &course)

	ids := make([]uint, 0, assignments)
	for i := 0; i < assignments; i++ {
		status, env = call(t, app, http.MethodPost, fmt.Sprintf("/admin/course/%d/assignment", course.ID), adminToken, fiber.Map{
			"title": fmt.Sprintf("Assignment %d", i+1), "order_index": i,
		})
		require.Equal(t, http.StatusCreated, status, env.Message)
		var a struct {
			ID uint `json:"ID"`
		}
		decode(t, env, &a)
		ids = append(ids, a.ID)
	}

	status, env = call(t, app, http.MethodPost, fmt.Sprintf("/admin/course/%d/publish", course.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, status, env.Message)
	return course.ID, ids
}

func submitForm(t *testing.T, app *fiber.App, token string, fields map[string]string, image []byte) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if image != nil {
		part, err := w.CreateFormFile("image", "project.png")
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/submission", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return send(t, app, req)
}

func TestHealth(t *testing.T) {
	app := setupApp(t)
	status, env := call(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Status)
}

func TestSignupAndLogin(t *testing.T) {
	app := setupApp(t)

	status, env := call(t, app, http.MethodPost, "/auth/signup", "", fiber.Map{
		"name": "Admin", "email": strings.ToUpper(adminEmail), "password": "password123",
	})
	require.Equal(t, http.StatusCreated, status)
	var user struct {
		Email    string `json:"email"`
		Role     string `json:"role"`
		Password string `json:"password"`
	}
	decode(t, env, &user)
	assert.Equal(t, adminEmail, user.Email)
	assert.Equal(t, "ADMIN", user.Role)
	assert.Empty(t, user.Password)

	status, env = call(t, app, http.MethodPost, "/auth/signup", "", fiber.Map{
		"name": "Admin", "email": adminEmail, "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Email is already registered!", env.Message)

	status, env = call(t, app, http.MethodPost, "/auth/signup", "", fiber.Map{
		"name": "A", "email": "nope", "password": "short",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	var fields map[string]string
	decode(t, env, &fields)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")

	status, env = call(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"email": adminEmail, "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid credentials!", env.Message)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	app := setupApp(t)

	status, env := call(t, app, http.MethodGet, "/course/list", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, env.Status)

	status, _ = call(t, app, http.MethodGet, "/course/list", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAdminRoutesRejectUsers(t *testing.T) {
	app := setupApp(t)
	token := register(t, app, "Learner", "learner@planetpath.test")

	status, env := call(t, app, http.MethodPost, "/admin/course/create", token, fiber.Map{"title": "Sneaky"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "You do not have permission to access this resource!", env.Message)
}

func TestCourseCatalogueAndEnrollment(t *testing.T) {
	app := setupApp(t)
	adminToken := register(t, app, "Admin", adminEmail)
	token := register(t, app, "Learner", "learner@planetpath.test")

	status, env := call(t, app, http.MethodGet, "/course/list", token, nil)
	require.Equal(t, http.StatusOK, status)
	var empty struct {
		Courses    []json.RawMessage `json:"courses"`
		EmptyState struct {
			Kind string `json:"kind"`
		} `json:"empty_state"`
	}
	decode(t, env, &empty)
	assert.Empty(t, empty.Courses)
	assert.Equal(t, "courses", empty.EmptyState.Kind)

	courseID, _ := seedCourse(t, app, adminToken, "Composting 101", 2)

	status, env = call(t, app, http.MethodGet, "/course/list?level=BEGINNER&search=compost", token, nil)
	require.Equal(t, http.StatusOK, status)
	var list struct {
		Courses []struct {
			Title  string   `json:"title"`
			Topics []string `json:"topics"`
		} `json:"courses"`
		Pagination struct {
			Total int64 `json:"total"`
			Page  int   `json:"page"`
			Limit int   `json:"limit"`
		} `json:"pagination"`
	}
	decode(t, env, &list)
	require.Len(t, list.Courses, 1)
	assert.Equal(t, "Composting 101", list.Courses[0].Title)
	assert.Equal(t, []string{"soil", "water"}, list.Courses[0].Topics)
	assert.Equal(t, int64(1), list.Pagination.Total)
	assert.Equal(t, 1, list.Pagination.Page)
	assert.Equal(t, 10, list.Pagination.Limit)

	status, _ = call(t, app, http.MethodGet, "/course/list?level=EXPERT", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	coursePath := fmt.Sprintf("/course/%d", courseID)
	status, env = call(t, app, http.MethodGet, coursePath, token, nil)
	require.Equal(t, http.StatusOK, status)
	var detail struct {
		Assignments []struct {
			Title string `json:"title"`
		} `json:"assignments"`
		IsEnrolled bool `json:"is_enrolled"`
	}
	decode(t, env, &detail)
	require.Len(t, detail.Assignments, 2)
	assert.Equal(t, "Assignment 1", detail.Assignments[0].Title)
	assert.False(t, detail.IsEnrolled)

	status, env = call(t, app, http.MethodGet, coursePath+"/progress", token, nil)
	require.Equal(t, http.StatusOK, status)
	var noProgress struct {
		Enrollment *json.RawMessage `json:"enrollment"`
		EmptyState struct {
			Kind string `json:"kind"`
		} `json:"empty_state"`
	}
	decode(t, env, &noProgress)
	assert.Nil(t, noProgress.Enrollment)
	assert.Equal(t, "progress", noProgress.EmptyState.Kind)

	status, env = call(t, app, http.MethodPost, coursePath+"/enroll", token, nil)
	require.Equal(t, http.StatusOK, status, env.Message)
	var enrollment struct {
		Status           string `json:"status"`
		TotalAssignments int    `json:"total_assignments"`
	}
	decode(t, env, &enrollment)
	assert.Equal(t, "ENROLLED", enrollment.Status)
	assert.Equal(t, 2, enrollment.TotalAssignments)

	status, env = call(t, app, http.MethodPost, coursePath+"/enroll", token, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "User already enrolled in this course!", env.Message)

	status, env = call(t, app, http.MethodGet, coursePath+"/enrollment", token, nil)
	require.Equal(t, http.StatusOK, status)
	var check struct {
		IsEnrolled bool `json:"is_enrolled"`
	}
	decode(t, env, &check)
	assert.True(t, check.IsEnrolled)

	status, _ = call(t, app, http.MethodGet, "/course/999/enrollment", token, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, env = call(t, app, http.MethodGet, "/user/enrollments", token, nil)
	require.Equal(t, http.StatusOK, status)
	var mine struct {
		Enrollments []struct {
			Course struct {
				Title string `json:"title"`
			} `json:"course"`
		} `json:"enrollments"`
	}
	decode(t, env, &mine)
	require.Len(t, mine.Enrollments, 1)
	assert.Equal(t, "Composting 101", mine.Enrollments[0].Course.Title)
}

func TestConcurrentEnrollCreatesOneEnrollment(t *testing.T) {
	app := setupApp(t)
	adminToken := register(t, app, "Admin", adminEmail)
	token := register(t, app, "Learner", "learner@planetpath.test")
	courseID, _ := seedCourse(t, app, adminToken, "Rain Gardens", 1)

	const attempts = 10
	statuses := make(chan int, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/course/%d/enroll", courseID), nil)
			req.Header.Set("Authorization", "Bearer "+token)
			resp, err := app.Test(req, -1)
			if err != nil {
				statuses <- 0
				return
			}
			resp.Body.Close()
			statuses <- resp.StatusCode
		}()
	}
	wg.Wait()
	close(statuses)

	counts := map[int]int{}
	for status := range statuses {
		counts[status]++
	}
	assert.Equal(t, map[int]int{http.StatusOK: 1, http.StatusConflict: attempts - 1}, counts)

	var n int64
	require.NoError(t, database.Database.Db.Model(&courseModels.Enrollment{}).
		Where("course_id = ?", courseID).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestUnpublishedCourseIsHidden(t *testing.T) {
	app := setupApp(t)
	adminToken := register(t, app, "Admin", adminEmail)
	token := register(t, app, "Learner", "learner@planetpath.test")

	courseID, _ := seedCourse(t, app, adminToken, "Rain Gardens", 0)
	status, _ := call(t, app, http.MethodPost, fmt.Sprintf("/admin/course/%d/publish", courseID), adminToken, fiber.Map{"is_published": false})
	require.Equal(t, http.StatusOK, status)

	status, env := call(t, app, http.MethodGet, fmt.Sprintf("/course/%d", courseID), token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Course not found!", env.Message)

	status, env = call(t, app, http.MethodPost, fmt.Sprintf("/course/%d/enroll", courseID), token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Course not found or not open for enrollment!", env.Message)
}

func TestSubmitProject(t *testing.T) {
	app := setupApp(t)
	adminToken := register(t, app, "Admin", adminEmail)
	token := register(t, app, "Learner", "learner@planetpath.test")
	courseID, assignmentIDs := seedCourse(t, app, adminToken, "Urban Trees", 2)

	fields := map[string]string{
		"course_id":     fmt.Sprint(courseID),
		"assignment_id": fmt.Sprint(assignmentIDs[0]),
		"description":   "Planted an oak",
		"lat":           "51.5",
		"lng":           "-0.12",
	}

	status, env := submitForm(t, app, token, fields, pngBytes)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Please enroll in this course first!", env.Message)

	status, _ = call(t, app, http.MethodPost, fmt.Sprintf("/course/%d/enroll", courseID), token, nil)
	require.Equal(t, http.StatusOK, status)

	status, env = submitForm(t, app, token, fields, pngBytes)
	require.Equal(t, http.StatusCreated, status, env.Message)
	var sub struct {
		ImageURL string `json:"image_url"`
		Geotag   *struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"geotag"`
	}
	decode(t, env, &sub)
	require.NotNil(t, sub.Geotag)
	assert.Equal(t, 51.5, sub.Geotag.Lat)
	assert.Equal(t, -0.12, sub.Geotag.Lng)
	require.True(t, strings.HasPrefix(sub.ImageURL, "/uploads/"))
	assert.True(t, strings.HasSuffix(sub.ImageURL, ".png"))
	_, err := os.Stat(filepath.Join(config.AppConfig.UploadDir, strings.TrimPrefix(sub.ImageURL, "/uploads/")))
	assert.NoError(t, err)

	status, env = call(t, app, http.MethodGet, fmt.Sprintf("/course/%d/progress", courseID), token, nil)
	require.Equal(t, http.StatusOK, status)
	var progress struct {
		Enrollment struct {
			Status               string  `json:"status"`
			Progress             float64 `json:"progress"`
			CompletedAssignments int     `json:"completed_assignments"`
		} `json:"enrollment"`
	}
	decode(t, env, &progress)
	assert.Equal(t, "IN_PROGRESS", progress.Enrollment.Status)
	assert.Equal(t, 50.0, progress.Enrollment.Progress)
	assert.Equal(t, 1, progress.Enrollment.CompletedAssignments)

	status, env = call(t, app, http.MethodGet, "/submission/my", token, nil)
	require.Equal(t, http.StatusOK, status)
	var mine struct {
		Submissions []struct {
			Description string `json:"description"`
			Geotag      *struct {
				Lat float64 `json:"lat"`
			} `json:"geotag"`
		} `json:"submissions"`
	}
	decode(t, env, &mine)
	require.Len(t, mine.Submissions, 1)
	assert.Equal(t, "Planted an oak", mine.Submissions[0].Description)
	require.NotNil(t, mine.Submissions[0].Geotag)
	assert.Equal(t, 51.5, mine.Submissions[0].Geotag.Lat)

	// admins see every learner's work for a course
	status, env = call(t, app, http.MethodGet, fmt.Sprintf("/admin/course/%d/submissions", courseID), adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	decode(t, env, &mine)
	assert.Len(t, mine.Submissions, 1)

	status, env = call(t, app, http.MethodGet, fmt.Sprintf("/submission/course/%d", courseID), adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	var adminOwn struct {
		Submissions []json.RawMessage `json:"submissions"`
	}
	decode(t, env, &adminOwn)
	assert.Len(t, adminOwn.Submissions, 1)

	status, env = call(t, app, http.MethodGet, "/admin/dashboard", adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	var stats map[string]interface{}
	decode(t, env, &stats)
	assert.EqualValues(t, 2, stats["total_users"])
	assert.EqualValues(t, 1, stats["total_enrollments"])
	assert.EqualValues(t, 1, stats["total_submissions"])
	assert.EqualValues(t, 1, stats["submissions_today"])
	assert.EqualValues(t, 1, stats["geotagged_submitted"])
}

func TestFailedSubmissionRemovesUpload(t *testing.T) {
	app := setupApp(t)
	adminToken := register(t, app, "Admin", adminEmail)
	token := register(t, app, "Learner", "learner@planetpath.test")
	courseID, assignmentIDs := seedCourse(t, app, adminToken, "Pond Life", 1)

	status, _ := call(t, app, http.MethodPost, fmt.Sprintf("/course/%d/enroll", courseID), token, nil)
	require.Equal(t, http.StatusOK, status)

	require.NoError(t, database.Database.Db.Migrator().DropTable(&courseModels.Submission{}))

	status, env := submitForm(t, app, token, map[string]string{
		"course_id":     fmt.Sprint(courseID),
		"assignment_id": fmt.Sprint(assignmentIDs[0]),
	}, pngBytes)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Failed to submit project!", env.Message)

	entries, err := os.ReadDir(config.AppConfig.UploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDashboardReportsQueryFailure(t *testing.T) {
	app := setupApp(t)
	adminToken := register(t, app, "Admin", adminEmail)

	status, _ := call(t, app, http.MethodGet, "/admin/dashboard", adminToken, nil)
	require.Equal(t, http.StatusOK, status)

	require.NoError(t, database.Database.Db.Migrator().DropTable(&courseModels.Submission{}))

	status, env := call(t, app, http.MethodGet, "/admin/dashboard", adminToken, nil)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Failed to fetch dashboard!", env.Message)
	assert.False(t, env.Status)
}

func TestSubmitProjectValidation(t *testing.T) {
	app := setupApp(t)
	token := register(t, app, "Learner", "learner@planetpath.test")

	status, env := submitForm(t, app, token, map[string]string{
		"course_id": "1", "assignment_id": "1", "lat": "10",
	}, []byte("just some text, not a picture"))
	require.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "Validation failed!", env.Message)

	var fields map[string]string
	decode(t, env, &fields)
	assert.Equal(t, "Uploaded file must be an image!", fields["image"])
	assert.Equal(t, "Latitude and longitude must be provided together!", fields["geotag"])

	status, env = submitForm(t, app, token, map[string]string{"lat": "100", "lng": "0"}, nil)
	require.Equal(t, http.StatusUnprocessableEntity, status)
	fields = nil
	decode(t, env, &fields)
	assert.Equal(t, "Image is required!", fields["image"])
	assert.Contains(t, fields, "course_id")
	assert.Contains(t, fields, "assignment_id")
	assert.Contains(t, fields, "lat")
}

func TestMySubmissionsEmptyState(t *testing.T) {
	app := setupApp(t)
	token := register(t, app, "Learner", "learner@planetpath.test")

	status, env := call(t, app, http.MethodGet, "/submission/my", token, nil)
	require.Equal(t, http.StatusOK, status)
	var out struct {
		Submissions []json.RawMessage `json:"submissions"`
		EmptyState  struct {
			Kind  string `json:"kind"`
			Title string `json:"title"`
		} `json:"empty_state"`
	}
	decode(t, env, &out)
	assert.NotNil(t, out.Submissions)
	assert.Empty(t, out.Submissions)
	assert.Equal(t, "projects", out.EmptyState.Kind)
	assert.Equal(t, "No projects submitted", out.EmptyState.Title)
}

func TestUnknownRouteServesErrorPage(t *testing.T) {
	app := setupApp(t)

	status, env := call(t, app, http.MethodGet, "/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, env.Status)
	assert.Equal(t, "The page you are looking for has wandered off the path.", env.Message)

	var out struct {
		ErrorPage struct {
			Kind string `json:"kind"`
		} `json:"error_page"`
	}
	decode(t, env, &out)
	assert.Equal(t, "404", out.ErrorPage.Kind)
}

func TestAdminBlocksUser(t *testing.T) {
	app := setupApp(t)
	adminToken := register(t, app, "Admin", adminEmail)
	token := register(t, app, "Learner", "learner@planetpath.test")

	status, env := call(t, app, http.MethodGet, "/admin/users?role=user", adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	var users struct {
		Users []struct {
			ID uint `json:"ID"`
		} `json:"users"`
	}
	decode(t, env, &users)
	require.Len(t, users.Users, 1)

	status, env = call(t, app, http.MethodPatch, fmt.Sprintf("/admin/users/%d/block", users.Users[0].ID), adminToken, fiber.Map{"blocked": true})
	require.Equal(t, http.StatusOK, status, env.Message)

	status, _ = call(t, app, http.MethodGet, "/course/list", token, nil)
	assert.Equal(t, http.StatusForbidden, status)
}
