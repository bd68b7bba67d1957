package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"普通标题", "Clean Code", "clean-code"},
		{"标点符号", "Clean Code: 2nd Edition!", "clean-code-2nd-edition"},
		{"首尾空白", "  Go  in   Action ", "go-in-action"},
		{"连字符合并", "a -- b", "a-b"},
		{"西里尔字母", "Кобзар", "кобзар"},
		{"空字符串", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Generate(tt.input))
		})
	}
}

func TestWithSuffix(t *testing.T) {
	assert.Equal(t, "go", WithSuffix("go", 1))
	assert.Equal(t, "go-3", WithSuffix("go", 3))
}
