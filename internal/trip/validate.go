package trip

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidPreferences matches any *ValidationError via errors.Is.
var ErrInvalidPreferences = errors.New("invalid preferences")

// FieldProblem describes one rejected form field.
type FieldProblem struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when the submitted preferences break the form constraints.
type ValidationError struct {
	Problems []FieldProblem
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		msgs = append(msgs, p.Field+" "+p.Message)
	}
	return "invalid preferences: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidPreferences
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// Validate checks the form-level constraints on a normalized copy of p.
func (p Preferences) Validate() error {
	err := validatorInstance().Struct(p.Normalized())
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate preferences: %w", err)
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Problems = append(out.Problems, FieldProblem{Field: fe.Field(), Message: problemMessage(fe)})
	}
	return out
}

func problemMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "max":
		if fe.Field() == "duration" {
			return fmt.Sprintf("must be between %d and %d days", MinDuration, MaxDuration)
		}
		return fmt.Sprintf("must be at least %d", MinBudget)
	case "unique":
		return "must not contain duplicates"
	case "oneof":
		return fmt.Sprintf("has unknown value %q", fmt.Sprint(fe.Value()))
	default:
		return "is invalid"
	}
}
