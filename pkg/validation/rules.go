package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"service-order/internal/workflow"
)

var statusCodeRe = regexp.MustCompile(`^[a-z][a-z0-9_]{0,63}$`)

// registerRules регистрирует теги, которые используются в struct tags DTO.
func registerRules(v *validator.Validate) error {
	if err := v.RegisterValidation("status_code", isStatusCode); err != nil {
		return err
	}
	if err := v.RegisterValidation("attendance_type", isAttendanceType); err != nil {
		return err
	}
	if err := v.RegisterValidation("not_blank", isNotBlank); err != nil {
		return err
	}
	return nil
}

// isStatusCode - код статуса в snake_case. Принадлежность к потоку проверяет сервис.
func isStatusCode(fl validator.FieldLevel) bool {
	return statusCodeRe.MatchString(fl.Field().String())
}

func isAttendanceType(fl validator.FieldLevel) bool {
	return workflow.AttendanceType(fl.Field().String()).IsValid()
}

func isNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
