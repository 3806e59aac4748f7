package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripJinja2(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"host var", "ansible_host: {{ lookup('env', 'WEB_IP') }}", "ansible_host: " + JinjaPlaceholder},
		{"two expressions", "{{ user }}@{{ host }}", JinjaPlaceholder + "@" + JinjaPlaceholder},
		{"plain yaml", "ansible_port: 2222", "ansible_port: 2222"},
		{"unterminated", "ansible_user: {{ deploy", "ansible_user: {{ deploy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripJinja2(tt.input))
		})
	}
}
