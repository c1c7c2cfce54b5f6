package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adityakumar60853/nirmaan/internal/apperr"
	"github.com/adityakumar60853/nirmaan/internal/validation"
)

type sample struct {
	Name     string   `json:"name" validate:"required,max=5"`
	Contact  string   `json:"contact" validate:"omitempty,contact"`
	Kind     string   `json:"kind" validate:"omitempty,oneof=a 'b c'"`
	Tags     []string `json:"tags" validate:"omitempty,dive,required"`
	Internal string   `validate:"omitempty,len=2"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name   string
		in     sample
		field  string
		reason string
	}{
		{"valid", sample{Name: "ok", Kind: "b c", Contact: "+919876543210"}, "", ""},
		{"required", sample{}, "name", "is required"},
		{"max", sample{Name: "toolong"}, "name", "must be at most 5 characters"},
		{"contact", sample{Name: "ok", Contact: "12-34"}, "contact", "must be a valid contact number"},
		{"oneof", sample{Name: "ok", Kind: "z"}, "kind", "must be one of a b c"},
		{"dive strips index", sample{Name: "ok", Tags: []string{"x", ""}}, "tags", "is required"},
		{"no json tag", sample{Name: "ok", Internal: "abc"}, "Internal", "must be exactly 2 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Struct(tt.in)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verr *apperr.ValidationError
			if assert.ErrorAs(t, err, &verr) {
				assert.Equal(t, tt.field, verr.Field)
				assert.Equal(t, tt.reason, verr.Reason)
			}
		})
	}
}
