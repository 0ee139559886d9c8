package views

import "net/http"

// ErrorKind selects the error page variant.
type ErrorKind string

const (
	ErrorNotFound ErrorKind = "404"
	ErrorOffline  ErrorKind = "offline"
	ErrorGeneric  ErrorKind = "generic"
)

type ErrorPage struct {
	Kind    ErrorKind `json:"kind"`
	Image   string    `json:"image"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
}

var errorPages = map[ErrorKind]ErrorPage{
	ErrorNotFound: {
		Kind:    ErrorNotFound,
		Image:   "/images/errors/404.svg",
		Title:   "Page not found",
		Message: "The page you are looking for has wandered off the path.",
	},
	ErrorOffline: {
		Kind:    ErrorOffline,
		Image:   "/images/errors/offline.svg",
		Title:   "You're offline",
		Message: "We can't reach Planet Path right now. Check your connection and try again.",
	},
	ErrorGeneric: {
		Kind:    ErrorGeneric,
		Image:   "/images/errors/generic.svg",
		Title:   "Something went wrong",
		Message: "An unexpected error occurred. Please try again later.",
	},
}

// Error returns the error page for kind, falling back to the generic page.
func Error(kind ErrorKind) ErrorPage {
	if page, ok := errorPages[kind]; ok {
		return page
	}
	return errorPages[ErrorGeneric]
}

// ErrorPageFor maps an HTTP status to the page a user should see.
func ErrorPageFor(status int) ErrorPage {
	switch status {
	case http.StatusNotFound:
		return Error(ErrorNotFound)
	case http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return Error(ErrorOffline)
	}
	return Error(ErrorGeneric)
}
