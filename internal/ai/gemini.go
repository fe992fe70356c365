// server/internal/ai/gemini.go
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"recycle-connect-api-server/config"
)

// prompt yêu cầu model trả về đúng JSON mà client hiểu được.
const identifyPrompt = "Identify the waste material in this image. Return a JSON object with keys: material (string), category (one of: Plastic, Glass, Metal, Paper, Electronics, Textile), confidence (number 0-1), description (short string)."

// IdentifyResult là câu trả lời của model cho một ảnh rác thải.
type IdentifyResult struct {
	Material    string  `json:"material"`
	Category    string  `json:"category"`
	Confidence  float64 `json:"confidence"`
	Description string  `json:"description"`
}

// Client gọi Gemini generateContent API qua REST. BaseURL có thể trỏ qua
// proxy nội bộ thay vì generativelanguage.googleapis.com.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	model      string
}

func NewClient(cfg config.AIConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		model:      cfg.Model,
	}
}

// --- Wire structs của generateContent ---

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// IdentifyWaste gửi ảnh (base64, có hoặc không có data-URI header) cho model
// và parse JSON trả về. Mọi lỗi từ phía model đều nổi lên cho handler —
// không retry ở đây.
func (c *Client) IdentifyWaste(ctx context.Context, image string) (*IdentifyResult, error) {
	// Bỏ header "data:image/jpeg;base64," nếu client gửi nguyên data URI.
	if idx := strings.Index(image, ","); idx >= 0 {
		image = image[idx+1:]
	}

	reqBody := generateRequest{
		Contents: []content{{
			Parts: []part{
				{Text: identifyPrompt},
				{InlineData: &inlineData{MimeType: "image/jpeg", Data: image}},
			},
		}},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, body)
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return nil, fmt.Errorf("failed to decode gemini response: %w", err)
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	// Model hay bọc JSON trong markdown code fence — gỡ ra trước khi parse.
	text := genResp.Candidates[0].Content.Parts[0].Text
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)

	var result IdentifyResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, fmt.Errorf("failed to parse identification result: %w", err)
	}
	return &result, nil
}
