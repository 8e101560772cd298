package parsing

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/resumer/internal/llm"
	"github.com/jonathan/resumer/internal/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCompleter struct {
	mu       sync.Mutex
	content  string
	err      error
	delay    time.Duration
	requests []llm.CompletionRequest
}

func (s *stubCompleter) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if s.err != nil {
		return "", s.err
	}
	return s.content, nil
}

func (s *stubCompleter) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func TestParse_FencedResponse(t *testing.T) {
	stub := &stubCompleter{content: "```json\n{\"personalInfo\":{\"fullName\":\"John Doe\"}}\n```"}
	parser := NewParser(stub, WithProvider("groq"))

	record, err := parser.Parse(context.Background(), types.ParseRequest{RawText: "John Doe\nEngineer"})
	require.NoError(t, err)

	assert.Equal(t, "John Doe", record.PersonalInfo.FullName)
	assert.Nil(t, record.Experience)
	assert.JSONEq(t, `{"personalInfo":{"fullName":"John Doe"}}`, string(record.Document))
	require.Equal(t, 1, stub.calls())
	assert.Contains(t, stub.requests[0].UserPrompt, "John Doe\nEngineer")
	assert.Contains(t, stub.requests[0].UserPrompt, "raw text resume")
}

func TestParse_ImageFraming(t *testing.T) {
	stub := &stubCompleter{content: `{"personalInfo":{"fullName":"Jane"}}`}
	parser := NewParser(stub)

	_, err := parser.Parse(context.Background(), types.ParseRequest{RawText: "Jane", IsImage: true})
	require.NoError(t, err)

	require.Equal(t, 1, stub.calls())
	assert.Contains(t, stub.requests[0].SystemPrompt, "OCR")
	assert.Contains(t, stub.requests[0].UserPrompt, "OCR-extracted image resume")
}

func TestParse_MissingRawText(t *testing.T) {
	for _, isImage := range []bool{false, true} {
		stub := &stubCompleter{content: `{}`}
		parser := NewParser(stub)

		record, err := parser.Parse(context.Background(), types.ParseRequest{RawText: "", IsImage: isImage})
		require.Error(t, err)
		assert.Nil(t, record)

		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "rawText", validationErr.Field)
		assert.Equal(t, "Missing raw text", validationErr.Message)
		assert.Equal(t, 0, stub.calls(), "no completion call for invalid input")
	}
}

func TestParse_UnparsableContent(t *testing.T) {
	stub := &stubCompleter{content: "  I could not read that resume.  "}
	parser := NewParser(stub)

	_, err := parser.Parse(context.Background(), types.ParseRequest{RawText: "???"})
	require.Error(t, err)

	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, "Failed to parse AI response as JSON", extractionErr.Message)
	assert.Equal(t, "I could not read that resume.", extractionErr.RawContent)
	assert.NotEmpty(t, extractionErr.Details)
}

func TestParse_ArrayResultRejected(t *testing.T) {
	stub := &stubCompleter{content: `[1,2,3] is the result, also see {"x":1}`}
	parser := NewParser(stub)

	_, err := parser.Parse(context.Background(), types.ParseRequest{RawText: "resume"})

	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, "[1,2,3]", extractionErr.RawContent)
}

func TestParse_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		statusCode int
		timeout    bool
	}{
		{
			name:       "api error",
			err:        &llm.APIError{Provider: llm.ProviderGroq, StatusCode: 503, Message: "overloaded"},
			statusCode: 503,
		},
		{
			name: "empty completion",
			err:  llm.ErrEmptyCompletion,
		},
		{
			name: "transport failure",
			err:  errors.New("connection refused"),
		},
		{
			name:    "deadline",
			err:     context.DeadlineExceeded,
			timeout: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubCompleter{err: tt.err}
			parser := NewParser(stub, WithProvider("groq"))

			record, err := parser.Parse(context.Background(), types.ParseRequest{RawText: "resume"})
			require.Error(t, err)
			assert.Nil(t, record)

			var upstreamErr *UpstreamError
			require.ErrorAs(t, err, &upstreamErr)
			assert.Equal(t, "groq", upstreamErr.Provider)
			assert.Equal(t, tt.statusCode, upstreamErr.StatusCode)
			assert.Equal(t, tt.timeout, upstreamErr.Timeout)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, 1, stub.calls(), "no retries")
		})
	}
}

func TestParse_Timeout(t *testing.T) {
	stub := &stubCompleter{content: `{}`, delay: time.Second}
	parser := NewParser(stub, WithTimeout(20*time.Millisecond))

	start := time.Now()
	_, err := parser.Parse(context.Background(), types.ParseRequest{RawText: "resume"})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 500*time.Millisecond)

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.True(t, upstreamErr.Timeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestParse_Canceled(t *testing.T) {
	stub := &stubCompleter{content: `{}`, delay: time.Second}
	parser := NewParser(stub)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := parser.Parse(ctx, types.ParseRequest{RawText: "resume"})

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.False(t, upstreamErr.Timeout)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParse_DoesNotLogRawText(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	ctx := logger.WithContext(context.Background())

	stub := &stubCompleter{content: `{"personalInfo":{"fullName":"Secret Person"}}`}
	parser := NewParser(stub)

	_, err := parser.Parse(ctx, types.ParseRequest{RawText: "Secret Person 555-0100"})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"mode":"text"`)
	assert.Contains(t, buf.String(), `"text_length":22`)
	assert.NotContains(t, buf.String(), "555-0100")
}

type stubClient struct {
	*stubCompleter
}

func (stubClient) Provider() llm.Provider { return llm.ProviderOpenAI }
func (stubClient) Model() string          { return "gpt-4o-mini" }
func (stubClient) Close() error           { return nil }

func TestParse_LogsProviderAndModel(t *testing.T) {
	var buf bytes.Buffer
	ctx := zerolog.New(&buf).WithContext(context.Background())

	parser := NewParser(stubClient{&stubCompleter{content: `{}`}})

	_, err := parser.Parse(ctx, types.ParseRequest{RawText: "Jane"})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"provider":"openai"`)
	assert.Contains(t, buf.String(), `"model":"gpt-4o-mini"`)
}

func TestParse_Concurrent(t *testing.T) {
	stub := &stubCompleter{content: `{"personalInfo":{"fullName":"Jane"}}`}
	parser := NewParser(stub)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			record, err := parser.Parse(context.Background(), types.ParseRequest{RawText: "Jane"})
			assert.NoError(t, err)
			assert.Equal(t, "Jane", record.PersonalInfo.FullName)
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, stub.calls())
}
