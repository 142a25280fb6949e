package slug

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"North Clinic", "north-clinic"},
		{"  Sant Krupa   Hospital ", "sant-krupa-hospital"},
		{"Clínica São José", "clinica-sao-jose"},
		{"Dr. Mehta's Eye-Care!!", "dr-mehta-s-eye-care"},
		{"24x7 Care", "24x7-care"},
		{"!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.in))
		})
	}
}

func TestMakeTruncates(t *testing.T) {
	got := Make(strings.Repeat("ab ", 40))
	assert.LessOrEqual(t, len(got), MaxLength)
	assert.False(t, strings.HasSuffix(got, "-"))
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("north-clinic"))
	assert.False(t, Valid("North-Clinic"))
	assert.False(t, Valid("north--clinic"))
	assert.False(t, Valid(""))
}

func TestWithSuffix(t *testing.T) {
	assert.Equal(t, "north-clinic-2", WithSuffix("north-clinic", 2))

	long := strings.Repeat("a", MaxLength)
	got := WithSuffix(long, 12)
	assert.Len(t, got, MaxLength)
	assert.True(t, strings.HasSuffix(got, "-12"))
}
