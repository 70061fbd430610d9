package prompt

import (
	"fmt"
	"strings"
)

// FormatTemplate substitutes {key} placeholders with values. Literal braces
// are written as {{ and }}. Unknown keys are an error so a renamed prompt
// variable fails loudly instead of producing a half-filled prompt.
func FormatTemplate(template string, values map[string]string) (string, error) {
	var builder strings.Builder
	builder.Grow(len(template))

	for i := 0; i < len(template); {
		switch template[i] {
		case '{':
			if i+1 < len(template) && template[i+1] == '{' {
				builder.WriteByte('{')
				i += 2
				continue
			}
			end := strings.IndexByte(template[i+1:], '}')
			if end < 0 {
				return "", fmt.Errorf("invalid template: missing '}'")
			}
			key := template[i+1 : i+1+end]
			value, ok := values[key]
			if !ok {
				return "", fmt.Errorf("missing template value for %q", key)
			}
			builder.WriteString(value)
			i += end + 2
		case '}':
			if i+1 < len(template) && template[i+1] == '}' {
				builder.WriteByte('}')
				i += 2
				continue
			}
			return "", fmt.Errorf("invalid template: unexpected '}'")
		default:
			builder.WriteByte(template[i])
			i++
		}
	}

	return builder.String(), nil
}
