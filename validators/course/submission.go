package courseValidator

import (
	"errors"
	"mime/multipart"
	"reflect"
	"strconv"
	"strings"

	"planetpath/middleware"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// MaxImageSize caps the size of a submitted project photo
const MaxImageSize = 10 << 20

// SubmissionForm is the validated multipart body of a project submission
type SubmissionForm struct {
	CourseID     uint                  `form:"course_id" validate:"required"`
	AssignmentID uint                  `form:"assignment_id" validate:"required"`
	Description  string                `form:"description" validate:"max=2000"`
	Latitude     *float64              `form:"lat" validate:"omitempty,gte=-90,lte=90"`
	Longitude    *float64              `form:"lng" validate:"omitempty,gte=-180,lte=180"`
	Image        *multipart.FileHeader `form:"-" validate:"-"`
	ImageMIME    string                `form:"-" validate:"-"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var fieldMessages = map[string]string{
	"required": "is required!",
	"max":      "is too long!",
	"gte":      "is out of range!",
	"lte":      "is out of range!",
}

// SubmitProject validates a multipart project submission
func SubmitProject() fiber.Handler {
	return func(c *fiber.Ctx) error {
		errs := make(map[string]string)
		form := &SubmissionForm{Description: strings.TrimSpace(c.FormValue("description"))}

		form.CourseID = parseUintField(c.FormValue("course_id"), "course_id", errs)
		form.AssignmentID = parseUintField(c.FormValue("assignment_id"), "assignment_id", errs)
		form.Latitude = parseFloatField(c.FormValue("lat"), "lat", errs)
		form.Longitude = parseFloatField(c.FormValue("lng"), "lng", errs)

		if (form.Latitude == nil) != (form.Longitude == nil) {
			errs["geotag"] = "Latitude and longitude must be provided together!"
		}

		if err := validate.Struct(form); err != nil {
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
			for _, fe := range verrs {
				if _, seen := errs[fe.Field()]; seen {
					continue
				}
				msg, ok := fieldMessages[fe.Tag()]
				if !ok {
					msg = "is invalid!"
				}
				errs[fe.Field()] = fe.Field() + " " + msg
			}
		}

		image, err := c.FormFile("image")
		if err != nil {
			errs["image"] = "Image is required!"
		} else if mime, msg := sniffImage(image); msg != "" {
			errs["image"] = msg
		} else {
			form.Image = image
			form.ImageMIME = mime
		}

		if len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedSubmission", form)
		return c.Next()
	}
}

// sniffImage checks the upload's size and content type. It returns the detected
// MIME type, or a user-facing message when the file is rejected.
func sniffImage(fh *multipart.FileHeader) (string, string) {
	if fh.Size == 0 {
		return "", "Image is empty!"
	}
	if fh.Size > MaxImageSize {
		return "", "Image must be smaller than 10MB!"
	}

	f, err := fh.Open()
	if err != nil {
		return "", "Image could not be read!"
	}
	defer f.Close()

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return "", "Image could not be read!"
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", "Uploaded file must be an image!"
	}
	return mtype.String(), ""
}

func parseUintField(raw, name string, errs map[string]string) uint {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		errs[name] = name + " must be a positive number!"
		return 0
	}
	return uint(v)
}

func parseFloatField(raw, name string, errs map[string]string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		errs[name] = name + " must be a number!"
		return nil
	}
	return &v
}
