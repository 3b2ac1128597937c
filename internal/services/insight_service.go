package services

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	apperrors "palco/internal/errors"
)

// insightService generates a textual suggestion for an event with a single
// Gemini request. One shot, no retry; a failed call surfaces as a generic
// insight error.
type insightService struct {
	model string
}

// NewInsightService creates a new InsightServicer using the given model name.
func NewInsightService(model string) InsightServicer {
	return &insightService{model: model}
}

// GenerateEventInsight sends the event facts to the model and returns its
// suggestion text.
func (s *insightService) GenerateEventInsight(ctx context.Context, input EventInsightInput) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInsightUnavailable, fmt.Errorf("create genai client: %w", err))
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: buildEventPrompt(input)},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, s.model, contents, nil)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInsightUnavailable, fmt.Errorf("generate content: %w", err))
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", apperrors.Wrap(apperrors.ErrInsightUnavailable, fmt.Errorf("empty response from model"))
	}

	return text, nil
}

// buildEventPrompt renders the prompt sent to the model. Kept pure so the
// template can be tested without a network call.
func buildEventPrompt(input EventInsightInput) string {
	var b strings.Builder

	b.WriteString("You are an assistant for a live-performance booking manager.\n\n")
	b.WriteString("Given the booked event below, write a short suggestion (3-5 sentences, plain text)\n")
	b.WriteString("covering pricing, scheduling, and anything the manager should watch out for.\n")
	b.WriteString("Do not use Markdown. Do not repeat the input back.\n\n")
	b.WriteString("Event:\n")
	fmt.Fprintf(&b, "- Date: %s\n", input.Date)
	if input.StartTime != "" {
		fmt.Fprintf(&b, "- Start time: %s\n", input.StartTime)
	}
	if input.Artist != "" {
		fmt.Fprintf(&b, "- Artist: %s\n", input.Artist)
	}
	if input.Contractor != "" {
		fmt.Fprintf(&b, "- Contractor: %s\n", input.Contractor)
	}
	fmt.Fprintf(&b, "- Agreed value: %s\n", FormatAmount(input.Value))
	if input.HistoricalFeedback != "" {
		b.WriteString("\nFeedback from previous events with this artist or contractor:\n")
		b.WriteString(input.HistoricalFeedback)
		b.WriteString("\n")
	}

	return b.String()
}
