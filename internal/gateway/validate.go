package gateway

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"fitclub/planner/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("daykey", func(fl validator.FieldLevel) bool {
		return domain.DayKey(fl.Field().String()).Valid()
	})
	return v
}

// validateRequest turns the first failed rule into a ValidationError.
func validateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Message: err.Error(), Err: err}
	}
	fe := verrs[0]
	field := fe.Field()
	var msg string
	switch fe.Tag() {
	case "required":
		msg = fmt.Sprintf("%s is required", field)
	case "daykey":
		msg = fmt.Sprintf("%s must be a weekday name", field)
	case "gte":
		msg = fmt.Sprintf("%s must not be negative", field)
	default:
		msg = fmt.Sprintf("%s is invalid", field)
	}
	return &ValidationError{Field: field, Message: msg, Err: err}
}

// Validate checks req the way SaveWorkout does, without a request.
func (req WorkoutSave) Validate() error { return validateRequest(req) }

// Validate checks req the way SaveNutrition does, without a request.
func (req NutritionSave) Validate() error { return validateRequest(req) }
