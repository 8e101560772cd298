package parsing

import (
	"github.com/jonathan/resumer/internal/prompts"
)

const promptFile = "resume.json"

// Prompt is the system/user pair sent to the completion service
type Prompt struct {
	System string
	User   string
}

// ComposePrompt builds the prompt pair for a resume. isImage selects the OCR
// reconstruction framing; otherwise the plain-text ATS framing is used. The
// result depends only on its arguments.
func ComposePrompt(rawText string, isImage bool) Prompt {
	systemKey := "system-text"
	inputKind := "raw text"
	if isImage {
		systemKey = "system-image"
		inputKind = "OCR-extracted image"
	}

	user := prompts.Format(prompts.MustGet(promptFile, "parse-resume"), map[string]string{
		"InputKind": inputKind,
		"RawText":   rawText,
	})

	return Prompt{
		System: prompts.MustGet(promptFile, systemKey),
		User:   user,
	}
}
