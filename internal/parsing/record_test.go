package parsing

import (
	"encoding/json"
	"testing"

	"github.com/jonathan/resumer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecord_Valid(t *testing.T) {
	input := `{
		"personalInfo": {"fullName": "Jane Smith", "email": "jane@example.com", "linkedin": "in/jane"},
		"experience": [
			{"id": 1, "title": "Engineer", "company": "Acme", "startDate": "2020-01", "current": "true"}
		],
		"education": [
			{"id": "edu-1", "degree": "BSc", "school": "State", "gpa": 3.8}
		],
		"skills": {"technical": ["Go"], "languages": null, "certifications": []},
		"hobbies": ["chess"],
		"codingProfiles": {"github": "github.com/jane"}
	}`

	record, err := ParseRecord(input)
	require.NoError(t, err)

	assert.Equal(t, "Jane Smith", record.PersonalInfo.FullName)
	assert.Equal(t, "in/jane", record.PersonalInfo.LinkedIn)
	require.Len(t, record.Experience, 1)
	assert.Equal(t, "1", string(record.Experience[0].ID))
	assert.True(t, bool(record.Experience[0].Current))
	require.Len(t, record.Education, 1)
	assert.Equal(t, "3.8", string(record.Education[0].GPA))
	assert.Equal(t, []string{"Go"}, record.Skills.Technical)
	assert.Empty(t, record.Skills.Languages)
	assert.Equal(t, "github.com/jane", record.CodingProfiles.GitHub)
}

func TestParseRecord_KeepsDocument(t *testing.T) {
	input := `{"personalInfo":{"fullName":"John Doe"},"languagesSpoken":["French"]}`

	record, err := ParseRecord(input)
	require.NoError(t, err)

	data, err := json.Marshal(record)
	require.NoError(t, err)
	assert.JSONEq(t, input, string(data))
}

func TestParseRecord_FullShape(t *testing.T) {
	record, err := ParseRecord(`{"personalInfo":{"fullName":"John Doe"}}`)
	require.NoError(t, err)

	data, err := json.Marshal(record.FullShape())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, key := range []string{"personalInfo", "experience", "education", "skills", "hobbies", "codingProfiles"} {
		assert.Contains(t, decoded, key)
	}
	assert.Equal(t, []any{}, decoded["experience"])
	assert.Equal(t, []any{}, decoded["hobbies"])
	assert.Nil(t, record.Experience, "the parsed record itself is not padded")
}

func TestParseRecord_LenientShapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, record *types.ResumeRecord)
	}{
		{
			name:  "numeric phone",
			input: `{"personalInfo":{"phone":5551234567}}`,
			check: func(t *testing.T, record *types.ResumeRecord) {
				assert.Equal(t, "5551234567", record.PersonalInfo.Phone)
			},
		},
		{
			name:  "description as bullet list",
			input: `{"experience":[{"description":["Built X","Led Y"]}]}`,
			check: func(t *testing.T, record *types.ResumeRecord) {
				require.Len(t, record.Experience, 1)
				assert.Equal(t, "Built X\nLed Y", record.Experience[0].Description)
			},
		},
		{
			name:  "skills as flat list",
			input: `{"skills":["Go","SQL"]}`,
			check: func(t *testing.T, record *types.ResumeRecord) {
				assert.Equal(t, []string{"Go", "SQL"}, record.Skills.Technical)
			},
		},
		{
			name:  "skills grouped by area",
			input: `{"skills":{"technical":{"backend":["Go"],"data":["SQL"]}}}`,
			check: func(t *testing.T, record *types.ResumeRecord) {
				assert.Equal(t, []string{"Go", "SQL"}, record.Skills.Technical)
			},
		},
		{
			name:  "single experience object",
			input: `{"experience":{"title":"Engineer","company":"Acme"}}`,
			check: func(t *testing.T, record *types.ResumeRecord) {
				require.Len(t, record.Experience, 1)
				assert.Equal(t, "Acme", record.Experience[0].Company)
			},
		},
		{
			name:  "experience as string",
			input: `{"experience":"none"}`,
			check: func(t *testing.T, record *types.ResumeRecord) {
				assert.Empty(t, record.Experience)
			},
		},
		{
			name:  "personal info as string",
			input: `{"personalInfo":"Jane"}`,
			check: func(t *testing.T, record *types.ResumeRecord) {
				assert.Equal(t, types.PersonalInfo{}, record.PersonalInfo)
			},
		},
		{
			name:  "hobby as single string",
			input: `{"hobbies":"chess"}`,
			check: func(t *testing.T, record *types.ResumeRecord) {
				assert.Equal(t, []string{"chess"}, record.Hobbies)
			},
		},
		{
			name:  "numeric current flag",
			input: `{"experience":[{"current":1}]}`,
			check: func(t *testing.T, record *types.ResumeRecord) {
				require.Len(t, record.Experience, 1)
				assert.True(t, bool(record.Experience[0].Current))
			},
		},
		{
			name:  "profile url as number",
			input: `{"codingProfiles":{"kaggle":42}}`,
			check: func(t *testing.T, record *types.ResumeRecord) {
				assert.Equal(t, "42", record.CodingProfiles.Kaggle)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := ParseRecord(tt.input)
			require.NoError(t, err)
			tt.check(t, &parsed.ResumeRecord)

			data, err := json.Marshal(parsed)
			require.NoError(t, err)
			assert.JSONEq(t, tt.input, string(data))
		})
	}
}

func TestParseRecord_Failures(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		details string
	}{
		{
			name:  "not json",
			input: "I could not read that resume.",
		},
		{
			name:  "truncated object",
			input: `{"personalInfo": {"fullName": "Jane"`,
		},
		{
			name:    "array root",
			input:   `[1,2,3]`,
			details: "(root)",
		},
		{
			name:    "string root",
			input:   `"John Doe"`,
			details: "(root)",
		},
		{
			name:  "empty",
			input: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := ParseRecord(tt.input)
			require.Error(t, err)
			assert.Nil(t, record)

			var extractionErr *ExtractionError
			require.ErrorAs(t, err, &extractionErr)
			assert.Equal(t, "Failed to parse AI response as JSON", extractionErr.Message)
			assert.Equal(t, tt.input, extractionErr.RawContent)
			assert.NotEmpty(t, extractionErr.Details)
			if tt.details != "" {
				assert.Contains(t, extractionErr.Details, tt.details)
			}
		})
	}
}
