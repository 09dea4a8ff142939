package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/justsurfingit/job-portal/internal/dtos"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

var ErrExtractionDisabled = errors.New("job extraction is not configured")

const maxExtractionInput = 20000

type LLMService struct {
	Client llms.Model
}

// NewLLMService returns a nil service when no API key is configured; extraction is
// then reported as disabled instead of failing startup.
func NewLLMService(ctx context.Context, apiKey, model string) (*LLMService, error) {
	if apiKey == "" {
		return nil, nil
	}
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &LLMService{Client: llm}, nil
}

const jobExtractionPrompt = `
You are a job posting extraction agent. Analyze the raw HTML/text of a job posting and
extract structured data for a job board.

### INSTRUCTIONS:
1. Ignore navigation menus, footers, "similar jobs" lists and advertisements.
2. Output valid JSON only. Do not wrap the output in markdown code blocks.
3. If a piece of information is missing, use an empty string, 0 or an empty array. Do not guess.

### OUTPUT SCHEMA:
{
    "title": "Job title, e.g. Senior Backend Engineer",
    "company": "Company name",
    "location": "Job location or 'Remote'",
    "employmentType": "one of: full-time, part-time, contract, internship, remote",
    "salaryMin": 0,
    "salaryMax": 0,
    "description": "Clean summary of responsibilities. No HTML.",
    "requirements": ["requirement", "..."],
    "skills": ["Go", "PostgreSQL", "..."],
    "benefits": ["benefit", "..."],
    "category": "one of: technology, marketing, sales, design, finance, hr, operations, other",
    "experienceLevel": "one of: entry, mid, senior, executive"
}

### RAW CONTENT:
%s
`

// ExtractJobDetails turns a pasted posting into a job creation payload the poster can
// review before submitting.
func (s *LLMService) ExtractJobDetails(ctx context.Context, rawHTML string) (*dtos.JobCreationRequest, error) {
	if s == nil || s.Client == nil {
		return nil, ErrExtractionDisabled
	}
	rawHTML = truncateUTF8(rawHTML, maxExtractionInput)

	resp, err := llms.GenerateFromSinglePrompt(ctx, s.Client, fmt.Sprintf(jobExtractionPrompt, rawHTML))
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	var req dtos.JobCreationRequest
	if err := json.Unmarshal([]byte(stripCodeFence(resp)), &req); err != nil {
		return nil, fmt.Errorf("parse model output: %w", err)
	}
	return &req, nil
}

// truncateUTF8 cuts s to at most n bytes without splitting a character.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// stripCodeFence removes a ```json ... ``` wrapper models add despite being told not to.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
