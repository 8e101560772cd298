package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("resume.json", "parse-resume")
	require.NoError(t, err)
	assert.NotEmpty(t, prompt)
	assert.Contains(t, prompt, "REQUIRED JSON SCHEMA")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get("resume.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestMustGet_ValidPrompt(t *testing.T) {
	ClearCache()

	assert.NotPanics(t, func() {
		prompt := MustGet("resume.json", "parse-resume")
		assert.NotEmpty(t, prompt)
	})
}

func TestFormat(t *testing.T) {
	template := "Hello {{.Name}}, welcome to {{.Company}}!"
	data := map[string]string{
		"Name":    "Alice",
		"Company": "Acme Corp",
	}

	result := Format(template, data)
	assert.Equal(t, "Hello Alice, welcome to Acme Corp!", result)
}

func TestFormat_NoPlaceholders(t *testing.T) {
	template := "No placeholders here"
	data := map[string]string{"Key": "Value"}

	result := Format(template, data)
	assert.Equal(t, template, result)
}

func TestFormat_EmptyData(t *testing.T) {
	template := "Hello {{.Name}}"
	data := map[string]string{}

	result := Format(template, data)
	assert.Equal(t, template, result) // Placeholder remains
}

func TestCaching(t *testing.T) {
	ClearCache()

	// First call loads from file
	prompt1, err := Get("resume.json", "parse-resume")
	require.NoError(t, err)

	// Second call should use cache
	prompt2, err := Get("resume.json", "parse-resume")
	require.NoError(t, err)

	assert.Equal(t, prompt1, prompt2)
}

func TestFormat_ValueContainingPlaceholder(t *testing.T) {
	template := "Mode: {{.Mode}}\nInput: {{.Input}}"
	data := map[string]string{
		"Mode":  "text",
		"Input": "literal {{.Mode}} stays",
	}

	result := Format(template, data)
	assert.Equal(t, "Mode: text\nInput: literal {{.Mode}} stays", result)
}

func TestResumePrompts_Schema(t *testing.T) {
	ClearCache()

	prompt := MustGet("resume.json", "parse-resume")
	for _, field := range []string{
		`"personalInfo"`, `"fullName"`, `"photoUrl"`,
		`"experience"`, `"current": "boolean"`,
		`"education"`, `"graduationDate"`, `"gpa"`,
		`"skills"`, `"technical"`, `"certifications"`,
		`"hobbies"`, `"codingProfiles"`, `"codechef"`,
	} {
		assert.Contains(t, prompt, field)
	}
	assert.True(t, strings.HasSuffix(prompt, "Return ONLY the raw JSON object."))
	assert.Contains(t, prompt, "{{.RawText}}")
	assert.Contains(t, prompt, "{{.InputKind}}")
}
