package validation

import (
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
)

type sample struct {
	Target string      `validate:"required,status_code"`
	Reason string      `validate:"not_blank"`
	Notes  null.String `validate:"omitempty,max=5"`
	Type   string      `validate:"omitempty,attendance_type"`
}

func TestCustomValidator(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&sample{Target: "at_workshop", Reason: "ok"}))
	assert.NoError(t, v.Validate(&sample{Target: "completed", Reason: "ok", Notes: null.StringFrom("abc"), Type: "on_site"}))

	assert.Error(t, v.Validate(&sample{Target: "At Workshop", Reason: "ok"}))
	assert.Error(t, v.Validate(&sample{Target: "completed", Reason: "   "}))
	assert.Error(t, v.Validate(&sample{Target: "completed", Reason: "ok", Notes: null.StringFrom("too long")}))
	assert.Error(t, v.Validate(&sample{Target: "completed", Reason: "ok", Type: "drone"}))
}
