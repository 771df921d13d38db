package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fastygo/streakmap/domain"
)

type CreateTaskRequest struct {
	Name            string                  `json:"name" validate:"required"`
	Description     string                  `json:"description"`
	IntensityLevels []domain.IntensityLevel `json:"intensity_levels" validate:"omitempty,dive"`
}

type UpdateIntensityRequest struct {
	IntensityLevels []domain.IntensityLevel `json:"intensity_levels" validate:"required,min=1,dive"`
}

// RecordActivityRequest uses a pointer for Count so an explicit 0 passes
// the required check while a missing field does not.
type RecordActivityRequest struct {
	TaskID   string                 `json:"task_id" validate:"required"`
	Date     string                 `json:"date" validate:"required"`
	Count    *int                   `json:"count" validate:"required"`
	Metadata map[string]interface{} `json:"metadata"`
}

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Decode unmarshals body into dst and validates its struct tags. Failures
// are reported as domain.ErrCodeInvalid errors.
func Decode(body []byte, dst interface{}) error {
	if err := json.Unmarshal(body, dst); err != nil {
		return domain.WrapError(domain.ErrCodeInvalid, domain.ErrInvalidPayload.Message, err)
	}
	if err := validate.Struct(dst); err != nil {
		return domain.NewError(domain.ErrCodeInvalid, describe(err))
	}
	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", field, fe.Tag(), fe.Param()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}
