package util

import "regexp"

// JinjaPlaceholder stands in for every stripped Jinja2 expression.
const JinjaPlaceholder = "PLACEHOLDER"

var jinjaVarPattern = regexp.MustCompile(`\{\{[^}]*\}\}`)

// StripJinja2 replaces Jinja2 {{ var }} expressions with a placeholder value
// so the YAML can be parsed by a standard YAML parser.
func StripJinja2(content string) string {
	return jinjaVarPattern.ReplaceAllString(content, JinjaPlaceholder)
}
