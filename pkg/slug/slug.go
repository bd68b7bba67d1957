// Package slug 将标题转换为URL友好的slug
package slug

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// 保留任意语言的字母与数字，其余字符丢弃
	disallowed = regexp.MustCompile(`[^\p{L}\p{N}\s-]`)
	spaces     = regexp.MustCompile(`[\s_]+`)
	hyphens    = regexp.MustCompile(`-{2,}`)
)

// Generate 由标题生成slug
// 示例："Clean Code: 2nd Edition" → "clean-code-2nd-edition"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = disallowed.ReplaceAllString(result, "")
	result = spaces.ReplaceAllString(result, "-")
	result = hyphens.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// WithSuffix 在slug冲突时追加序号（"go" → "go-2"）
func WithSuffix(base string, n int) string {
	if n <= 1 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n)
}
