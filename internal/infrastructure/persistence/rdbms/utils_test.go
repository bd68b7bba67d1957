package rdbms

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"tolkien", "tolkien"},
		{"100%", "100!%"},
		{"snake_case", "snake!_case"},
		{"wow!", "wow!!"},
		{`c:\path`, `c:\path`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeLike(tt.in), tt.in)
	}
}
