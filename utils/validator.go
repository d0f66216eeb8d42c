package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	stateCodeRegex = regexp.MustCompile(`^[A-Z]{2}$`)
	ssn4Regex      = regexp.MustCompile(`^\d{4}$`)
)

// RegisterValidators adds the sign-up rules to gin's binding validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected binding validator engine")
	}
	return registerRules(v)
}

func registerRules(v *validator.Validate) error {
	rules := map[string]validator.Func{
		// two-letter upper-case state code, "NY"
		"statecode": func(fl validator.FieldLevel) bool {
			return stateCodeRegex.MatchString(fl.Field().String())
		},
		// yyyy-mm-dd, not in the future
		"isodate": func(fl validator.FieldLevel) bool {
			d, err := time.Parse(time.DateOnly, fl.Field().String())
			return err == nil && !d.After(time.Now())
		},
		"ssn4": func(fl validator.FieldLevel) bool {
			return ssn4Regex.MatchString(fl.Field().String())
		},
	}

	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

// ValidationMessage flattens binding errors into one readable line.
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fieldErrorToString(e))
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}

func fieldErrorToString(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email", e.Field())
	case "statecode":
		return fmt.Sprintf("%s must be a two-letter state code", e.Field())
	case "isodate":
		return fmt.Sprintf("%s must be a past date in YYYY-MM-DD format", e.Field())
	case "ssn4":
		return fmt.Sprintf("%s must be 4 digits", e.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param())
	case "len":
		return fmt.Sprintf("%s must be %s characters", e.Field(), e.Param())
	default:
		return fmt.Sprintf("%s is invalid", e.Field())
	}
}
