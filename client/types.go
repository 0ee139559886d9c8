package client

import "time"

type Course struct {
	ID           uint     `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Level        string   `json:"level"`
	Topics       []string `json:"topics"`
	ThumbnailURL string   `json:"thumbnail_url"`
	IsEnrollable bool     `json:"is_enrollable"`
	IsPublished  bool     `json:"is_published"`
}

type Assignment struct {
	ID          uint   `json:"id"`
	CourseID    uint   `json:"course_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order_index"`
}

// CourseDetail is a course together with its assignments and the caller's enrollment status.
type CourseDetail struct {
	Course      Course       `json:"course"`
	Assignments []Assignment `json:"assignments"`
	IsEnrolled  bool         `json:"is_enrolled"`
	Enrollment  *Enrollment  `json:"enrollment,omitempty"`
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

type CourseList struct {
	Courses    []Course   `json:"courses"`
	Pagination Pagination `json:"pagination"`
}

// ListParams filters the course list. Zero values are omitted from the query.
type ListParams struct {
	Page   int
	Limit  int
	Level  string
	Search string
}

type Enrollment struct {
	ID                   uint       `json:"id"`
	UserID               uint       `json:"user_id"`
	CourseID             uint       `json:"course_id"`
	Status               string     `json:"status"`
	Progress             float64    `json:"progress"`
	CompletedAssignments int        `json:"completed_assignments"`
	TotalAssignments     int        `json:"total_assignments"`
	CompletedAt          *time.Time `json:"completed_at"`
}

type Geotag struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Submission struct {
	ID           uint      `json:"id"`
	UserID       uint      `json:"user_id"`
	CourseID     uint      `json:"course_id"`
	AssignmentID uint      `json:"assignment_id"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"image_url"`
	Geotag       *Geotag   `json:"geotag,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Image is an in-memory upload.
type Image struct {
	Name string
	Data []byte
}

type SubmissionRequest struct {
	CourseID     uint
	AssignmentID uint
	Description  string
	Image        Image
	Geotag       *Geotag
}

type User struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
