package notification

import (
	"fmt"
	"regexp"
	"strings"
)

var placeholder = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

// ApplyTemplate replaces every {{key}} in text with the stringified value of
// vars[key] in a single pass over the original text, so substituted values
// are never expanded again. Placeholders without a matching key are left as they are.
func ApplyTemplate(text string, vars map[string]interface{}) string {
	if len(vars) == 0 || !strings.Contains(text, "{{") {
		return text
	}
	return placeholder.ReplaceAllStringFunc(text, func(m string) string {
		value, ok := vars[m[2:len(m)-2]]
		if !ok {
			return m
		}
		return stringify(value)
	})
}

func stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		// JSON numbers decode as float64; integral values print without a fraction.
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprint(val)
	default:
		return fmt.Sprint(val)
	}
}
