package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type fakeModel struct {
	reply  string
	err    error
	prompt string
}

func (m *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				m.prompt += text.Text
			}
		}
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: m.reply}}}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func TestExtractJobDetails(t *testing.T) {
	model := &fakeModel{reply: "```json\n{\"title\":\"Platform Engineer\",\"company\":\"Acme\",\"employmentType\":\"full-time\",\"salaryMin\":100000,\"skills\":[\"Go\",\"Kubernetes\"]}\n```"}
	svc := &LLMService{Client: model}

	req, err := svc.ExtractJobDetails(context.Background(), "<html><h1>Platform Engineer</h1></html>")
	require.NoError(t, err)

	assert.Equal(t, "Platform Engineer", req.Title)
	assert.Equal(t, "Acme", req.Company)
	assert.Equal(t, 100000, req.SalaryMin)
	assert.Equal(t, []string{"Go", "Kubernetes"}, req.Skills)
	assert.Contains(t, model.prompt, "<h1>Platform Engineer</h1>")
}

func TestExtractJobDetailsTruncatesInput(t *testing.T) {
	model := &fakeModel{reply: `{"title":"x"}`}
	svc := &LLMService{Client: model}

	_, err := svc.ExtractJobDetails(context.Background(), strings.Repeat("a", maxExtractionInput)+"TAIL")
	require.NoError(t, err)
	assert.NotContains(t, model.prompt, "TAIL")
}

func TestExtractJobDetailsErrors(t *testing.T) {
	var disabled *LLMService
	_, err := disabled.ExtractJobDetails(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrExtractionDisabled)

	boom := errors.New("quota exceeded")
	_, err = (&LLMService{Client: &fakeModel{err: boom}}).ExtractJobDetails(context.Background(), "x")
	assert.ErrorIs(t, err, boom)

	_, err = (&LLMService{Client: &fakeModel{reply: "not json"}}).ExtractJobDetails(context.Background(), "x")
	assert.ErrorContains(t, err, "parse model output")
}

func TestNewLLMServiceWithoutKey(t *testing.T) {
	svc, err := NewLLMService(context.Background(), "", "gemini-2.5-flash")
	require.NoError(t, err)
	assert.Nil(t, svc)
}

func TestTruncateUTF8(t *testing.T) {
	s := "ab" + "é" + "cd" // é is two bytes
	assert.Equal(t, "ab", truncateUTF8(s, 3))
	assert.Equal(t, "abé", truncateUTF8(s, 4))
	assert.Equal(t, s, truncateUTF8(s, 100))

	cut := truncateUTF8(strings.Repeat("a", maxExtractionInput-1)+"日本", maxExtractionInput)
	assert.True(t, utf8.ValidString(cut))
	assert.Len(t, cut, maxExtractionInput-1)
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("```\n{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("  {\"a\":1}  "))
}
