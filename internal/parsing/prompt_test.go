package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComposePrompt_Text(t *testing.T) {
	prompt := ComposePrompt("Jane Smith\nEngineer at Acme", false)

	assert.Contains(t, prompt.System, "raw text")
	assert.NotContains(t, prompt.System, "OCR")
	assert.Contains(t, prompt.User, "Convert this raw text resume")
	assert.Contains(t, prompt.User, "RAW INPUT:\nJane Smith\nEngineer at Acme\n")
	assert.Contains(t, prompt.User, "REQUIRED JSON SCHEMA")
	assert.NotContains(t, prompt.User, "{{.")
}

func TestComposePrompt_Image(t *testing.T) {
	prompt := ComposePrompt("J4ne Sm1th", true)

	assert.Contains(t, prompt.System, "OCR")
	assert.Contains(t, prompt.User, "Convert this OCR-extracted image resume")
	assert.Contains(t, prompt.User, "J4ne Sm1th")
}

func TestComposePrompt_Deterministic(t *testing.T) {
	for _, isImage := range []bool{false, true} {
		first := ComposePrompt("same input {{.InputKind}}", isImage)
		second := ComposePrompt("same input {{.InputKind}}", isImage)
		assert.Equal(t, first, second)
		assert.Contains(t, first.User, "same input {{.InputKind}}")
	}
}

func TestComposePrompt_FramingsDiffer(t *testing.T) {
	text := ComposePrompt("resume", false)
	image := ComposePrompt("resume", true)

	assert.NotEqual(t, text.System, image.System)
	assert.NotEqual(t, text.User, image.User)
}
