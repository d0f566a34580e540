package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Start string `json:"start" validate:"clocktime"`
	Type  string `json:"type" validate:"hourtype"`
	Day   string `json:"day" validate:"isodate"`
}

func TestCustomTags(t *testing.T) {
	validate := New()

	tests := []struct {
		name  string
		input sample
		valid bool
	}{
		{"all valid", sample{"08:00", "HN", "2026-03-01"}, true},
		{"short hour and seconds", sample{"8:05:30", "HA", "2026-12-31"}, true},
		{"hour out of range", sample{"24:00", "HN", "2026-03-01"}, false},
		{"single digit minutes", sample{"8:5", "HN", "2026-03-01"}, false},
		{"lowercase hour type", sample{"08:00", "hn", "2026-03-01"}, false},
		{"impossible date", sample{"08:00", "HN", "2026-02-29"}, false},
		{"br date format", sample{"08:00", "HN", "01/03/2026"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.input)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
