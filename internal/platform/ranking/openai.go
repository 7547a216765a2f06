// Package ranking implements the catalog's RankingService on top of an
// OpenAI-compatible chat-completion API. The model receives the query and a
// reduced projection of the whole catalog and answers with an ordered list
// of book IDs under a fixed JSON schema.
package ranking

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sashabaranov/go-openai"

	"librairie/internal/catalog"
)

// MaxResults bounds the number of IDs the model may return.
const MaxResults = 50

// descriptionLimit is the projection's description truncation, in runes.
const descriptionLimit = 200

type Client struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

func NewClient(apiKey, model string, logger *slog.Logger) *Client {
	if model == "" {
		model = openai.GPT4oMini
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: logger,
	}
}

// bookProjection is what the model sees per book: enough to judge
// relevance, small enough to keep the prompt bounded.
type bookProjection struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Authors     []string `json:"authors,omitempty"`
	Description string   `json:"description,omitempty"`
	Categories  []string `json:"categories,omitempty"`
}

type rankResponse struct {
	RelevantBookIDs []string `json:"relevant_book_ids"`
}

// Rank asks the model for the IDs of the most relevant books, ordered by
// relevance. Single attempt; the pipeline owns the fallback.
func (c *Client) Rank(ctx context.Context, query string, books []catalog.Book) ([]string, error) {
	prompt, err := buildPrompt(query, books)
	if err != nil {
		return nil, fmt.Errorf("build ranking prompt: %w", err)
	}

	c.logger.Debug("requesting ai ranking", "model", c.model, "query", query, "books", len(books))
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You rank bookstore catalog entries by relevance to a search query. Answer with JSON only."},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("ranking call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("ranking call: model returned no choices")
	}

	ids, err := parseRankResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func buildPrompt(query string, books []catalog.Book) (string, error) {
	projections := make([]bookProjection, len(books))
	for i, b := range books {
		projections[i] = bookProjection{
			ID:          b.ID,
			Title:       b.Title,
			Authors:     b.Authors,
			Description: truncate(b.Description, descriptionLimit),
			Categories:  b.Categories,
		}
	}
	data, err := json.Marshal(projections)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Given this search query: %q, analyze all these books and return the IDs of the most relevant ones (up to %d), ordered by relevance. ", query, MaxResults)
	sb.WriteString("Consider title, author, description, categories, and semantic meaning. ")
	sb.WriteString(`Respond with a JSON object of the form {"relevant_book_ids": ["id", ...]}.`)
	sb.WriteString("\n\nBooks data: ")
	sb.Write(data)
	return sb.String(), nil
}

func parseRankResponse(content string) ([]string, error) {
	var parsed rankResponse
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("parse ranking response: %w", err)
	}
	ids := parsed.RelevantBookIDs
	if len(ids) > MaxResults {
		ids = ids[:MaxResults]
	}
	return ids, nil
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
