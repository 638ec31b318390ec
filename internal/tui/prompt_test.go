package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsInteractive(t *testing.T) {
	// depends on how the tests are run; must not panic
	_ = IsInteractive()
}

func TestShouldPrompt(t *testing.T) {
	tests := []struct {
		name   string
		envVar string
		value  string
	}{
		{name: "GitHub Actions", envVar: "GITHUB_ACTIONS", value: "true"},
		{name: "GitLab CI", envVar: "GITLAB_CI", value: "true"},
		{name: "Jenkins", envVar: "JENKINS_URL", value: "http://jenkins.local"},
		{name: "Generic CI", envVar: "CI", value: "true"},
		{name: "explicit opt-out", envVar: "FEEDFORT_NO_PROMPT", value: "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envVar, tt.value)
			assert.False(t, ShouldPrompt())
		})
	}
}

func TestRequired(t *testing.T) {
	check := required("Informe o usuário")
	assert.EqualError(t, check("  "), "Informe o usuário")
	assert.NoError(t, check("ana"))
}
