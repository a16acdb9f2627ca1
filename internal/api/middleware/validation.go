package middleware

import (
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"youtube-transcriber/internal/api/errors"
)

// youtubeURLPattern accepts youtube.com, youtu.be and youtube-nocookie
// hosts, with an optional scheme and www prefix.
var youtubeURLPattern = regexp.MustCompile(`^(https?://)?(www\.)?(youtube|youtu|youtube-nocookie)\.(com|be)/`)

var registerOnce sync.Once

// RegisterValidators installs custom binding validators on gin's
// validator engine. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterValidation("youtube_url", func(fl validator.FieldLevel) bool {
				return youtubeURLPattern.MatchString(fl.Field().String())
			})
		}
	})
}

// IsYouTubeURL reports whether url points at a recognized YouTube host.
func IsYouTubeURL(url string) bool {
	return youtubeURLPattern.MatchString(url)
}

// Validator interface for domain validation
type Validator interface {
	Validate() error
}

// ValidateRequest validates both struct tags and domain rules
func ValidateRequest(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		validationErrors := make(map[string]string)

		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fieldError := range validationErrs {
				field := strings.ToLower(fieldError.Field())

				switch fieldError.Tag() {
				case "required":
					validationErrors[field] = "is required"
				case "youtube_url":
					validationErrors[field] = "must be a valid YouTube URL"
				case "gte", "min":
					validationErrors[field] = "is too small"
				case "gtefield":
					validationErrors[field] = "must not precede its counterpart"
				default:
					validationErrors[field] = "is invalid"
				}
			}
		} else {
			validationErrors["request"] = "invalid JSON format"
		}

		return errors.NewValidationError("Validation failed", validationErrors)
	}

	if validator, ok := req.(Validator); ok {
		if err := validator.Validate(); err != nil {
			return err
		}
	}

	return nil
}
