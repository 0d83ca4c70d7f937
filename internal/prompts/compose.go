package prompts

import "strings"

// EmptyFieldLabel is substituted when a recognized field has no value.
const EmptyFieldLabel = "no information available"

// Compose fills {{.Key}} placeholders in template with values from fields
// in a single left-to-right pass. An empty value renders as EmptyFieldLabel;
// a placeholder whose key is not in fields passes through verbatim. Compose
// never fails and is fully deterministic: identical inputs yield
// byte-identical output.
func Compose(template string, fields map[string]string) string {
	var b strings.Builder
	i := 0
	for i < len(template) {
		idx := strings.Index(template[i:], "{{.")
		if idx < 0 {
			b.WriteString(template[i:])
			break
		}
		b.WriteString(template[i : i+idx])

		start := i + idx
		rel := strings.Index(template[start:], "}}")
		if rel < 0 {
			b.WriteString(template[start:])
			break
		}
		end := start + rel + 2

		key := template[start+3 : end-2]
		if value, ok := fields[key]; ok {
			if strings.TrimSpace(value) == "" {
				value = EmptyFieldLabel
			}
			b.WriteString(value)
		} else {
			b.WriteString(template[start:end])
		}
		i = end
	}
	return b.String()
}
