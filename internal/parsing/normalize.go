package parsing

import (
	"strings"
	"unicode"
)

const (
	fence     = "```"
	jsonFence = "```json"
)

// Normalization is the result of locating a JSON container in model output.
// OK is false when the text holds no usable object or array delimiters.
type Normalization struct {
	JSON string
	OK   bool
}

// NormalizeResponse reduces raw model output to the substring most likely to
// be the intended JSON document. It never fails: when no container can be
// located, the cleaned text is returned so the decoder reports the problem.
//
// Steps, each a no-op on already clean input:
//  1. trim surrounding whitespace
//  2. strip a leading ```json or ``` fence and a trailing ``` fence
//  3. strip any remaining leading/trailing backticks
//  4. slice out the outermost container (see LocateJSON)
func NormalizeResponse(response string) string {
	cleaned := stripFences(response)
	if result := LocateJSON(cleaned); result.OK {
		return result.JSON
	}
	return cleaned
}

// stripFences performs steps 1-3 of NormalizeResponse.
func stripFences(text string) string {
	cleaned := strings.TrimSpace(text)

	switch {
	case strings.HasPrefix(cleaned, jsonFence):
		cleaned = strings.TrimLeftFunc(cleaned[len(jsonFence):], unicode.IsSpace)
		cleaned = trimClosingFence(cleaned)
	case strings.HasPrefix(cleaned, fence):
		cleaned = strings.TrimLeftFunc(cleaned[len(fence):], unicode.IsSpace)
		cleaned = trimClosingFence(cleaned)
	}

	return strings.TrimSpace(strings.Trim(cleaned, "`"))
}

func trimClosingFence(text string) string {
	if !strings.HasSuffix(text, fence) {
		return text
	}
	return strings.TrimRightFunc(text[:len(text)-len(fence)], unicode.IsSpace)
}

// LocateJSON finds the outermost JSON container in text. An array wins when
// its '[' opens before the first '{' (or there is no '{'); the array slice
// runs from the first '[' to the last ']'. Otherwise the object slice runs
// from the first '{' to the last '}'. A winning '[' without a closing ']'
// after it yields no container; the object is not tried in that case.
func LocateJSON(text string) Normalization {
	firstBrace := strings.Index(text, "{")
	lastBrace := strings.LastIndex(text, "}")
	firstBracket := strings.Index(text, "[")
	lastBracket := strings.LastIndex(text, "]")

	if firstBracket != -1 && (firstBrace == -1 || firstBracket < firstBrace) {
		// A ']' that only appears before the first '[' does not close it, so
		// "x ] y [" has no container rather than an inverted slice.
		if lastBracket > firstBracket {
			return Normalization{JSON: text[firstBracket : lastBracket+1], OK: true}
		}
		return Normalization{}
	}

	if firstBrace != -1 && lastBrace > firstBrace {
		return Normalization{JSON: text[firstBrace : lastBrace+1], OK: true}
	}
	return Normalization{}
}
