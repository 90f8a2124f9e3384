// Package aiclass classifies apps into the fixed category set through an
// OpenAI-compatible chat completions endpoint.
package aiclass

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"golang.org/x/time/rate"

	"github.com/chartpulse/chartpulse/internal/contract"
	"github.com/chartpulse/chartpulse/schema"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// systemPrompt pins the assistant to the classification role.
const systemPrompt = "你是一個精準的遊戲分類專家。"

// promptTemplate forces the model to answer with exactly one of the fixed
// category labels. The numbered options carry the keyword hints the
// historical classifier was tuned with.
const promptTemplate = `請根據以下遊戲名稱和類型，判斷它屬於哪一個主要分類。
遊戲名稱: "%s"
遊戲類型(Genre): "%s"

請「只回答」以下七個選項中的「一個」：
1. 角色扮演 (包含 RPG, 冒險, MMORPG)
2. 社交賭場 (包含 撲克, 老虎機, 賭博, 賓果)
3. 策略對戰 (包含 戰爭, 塔防, SLG, 帝國, 三國)
4. 動作競技 (包含 射擊, MOBA, 格鬥, 運動, 賽車)
5. 模擬沙盒 (包含 經營, 建造, 農場, 模擬器, 開放世界)
6. 休閒益智 (包含 三消, 合併, 填字, 益智, 消除, 放置)
7. 其他 (若以上皆非)

請「只輸出」分類名稱，不要包含任何數字、標點符號或額外說明。`

// numberedPrefix strips leading list numbering like "3. " from answers.
var numberedPrefix = regexp.MustCompile(`^\d+\.\s*`)

// chatRequest is the chat completions request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the relevant part of the chat completions response body.
type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Client calls an OpenAI-compatible endpoint, paced to one request per
// configured interval so batch classification stays under provider limits.
type Client struct {
	endpoint string
	model    string
	apiKey   string
	client   *http.Client
	limiter  *rate.Limiter
}

var _ contract.Classifier = &Client{} // Compile-time check

// NewClient creates a classifier client. endpoint is the full chat
// completions URL, e.g. "https://api.openai.com/v1/chat/completions".
func NewClient(endpoint, model, apiKey string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		endpoint: endpoint,
		model:    model,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: contract.DefaultHTTPTimeout},
		limiter:  rate.NewLimiter(rate.Every(contract.DefaultClassifyWait), 1),
	}
}

// Classify asks the model for a category. Transport and decode failures are
// errors; a well-formed but off-list answer degrades to the catch-all
// category, so every successful call yields a usable label.
func (c *Client) Classify(ctx context.Context, appName, genre string) (schema.Category, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf(promptTemplate, appName, genre)},
		},
		Temperature: 0,
		MaxTokens:   20,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal classify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build classify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("classify call failed for %q: %w", appName, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("classify call for %q returned status %d", appName, resp.StatusCode)
	}

	var payload chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode classify response for %q: %w", appName, err)
	}
	if len(payload.Choices) == 0 {
		return "", fmt.Errorf("classify response for %q had no choices", appName)
	}

	return NormalizeAnswer(payload.Choices[0].Message.Content), nil
}

// NormalizeAnswer maps a raw model answer onto the fixed category set:
// exact match after stripping numbering, then substring extraction for
// chatty answers, then the catch-all.
func NormalizeAnswer(raw string) schema.Category {
	cleaned := numberedPrefix.ReplaceAllString(strings.TrimSpace(raw), "")
	cleaned = strings.TrimSpace(cleaned)

	if schema.IsValidCategory(schema.Category(cleaned)) {
		return schema.Category(cleaned)
	}
	for _, category := range schema.AllCategories {
		if strings.Contains(cleaned, string(category)) {
			return category
		}
	}
	return schema.CatchAllCategory
}
