// Package views holds the fixed copy and artwork behind the app's empty and
// error states, keyed by the variant a screen asks for.
package views

// EmptyKind selects which empty-state variant a list screen shows.
type EmptyKind string

const (
	EmptyCourses       EmptyKind = "courses"
	EmptyProjects      EmptyKind = "projects"
	EmptyProgress      EmptyKind = "progress"
	EmptyNotifications EmptyKind = "notifications"
)

// EmptyState is what a screen shows in place of an empty list.
type EmptyState struct {
	Kind    EmptyKind `json:"kind"`
	Image   string    `json:"image"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
}

var emptyStates = map[EmptyKind]EmptyState{
	EmptyCourses: {
		Kind:    EmptyCourses,
		Image:   "/images/empty-states/no-courses.svg",
		Title:   "No courses yet",
		Message: "Explore our catalogue and enroll in your first course to start your journey.",
	},
	EmptyProjects: {
		Kind:    EmptyProjects,
		Image:   "/images/empty-states/no-projects.svg",
		Title:   "No projects submitted",
		Message: "Complete an assignment and submit a photo of your project to see it here.",
	},
	EmptyProgress: {
		Kind:    EmptyProgress,
		Image:   "/images/empty-states/no-progress.svg",
		Title:   "No progress to show",
		Message: "Enroll in a course and finish assignments to track your progress.",
	},
	EmptyNotifications: {
		Kind:    EmptyNotifications,
		Image:   "/images/empty-states/no-notifications.svg",
		Title:   "You're all caught up",
		Message: "New notifications about your courses and projects will appear here.",
	},
}

// Empty returns the empty state for kind. Unknown kinds get the courses variant.
func Empty(kind EmptyKind) EmptyState {
	if state, ok := emptyStates[kind]; ok {
		return state
	}
	return emptyStates[EmptyCourses]
}
