package rules

import "strings"

// RenderTemplate replaces every {key} placeholder with its value.
func RenderTemplate(template string, data map[string]string) string {
	result := template
	for k, v := range data {
		result = strings.ReplaceAll(result, "{"+k+"}", v)
	}
	return result
}
