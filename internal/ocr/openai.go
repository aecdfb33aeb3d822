package ocr

import (
	"context"
	"net/http"
	"strings"

	"github.com/nulzo/formatapi/internal/httpclient"
	"github.com/rotisserie/eris"
)

// OpenAIVision asks an OpenAI-compatible chat completions endpoint to list
// the models in an image.
type OpenAIVision struct {
	apiKey   string
	endpoint string
	model    string
	client   httpclient.HTTPClient
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []chatContent `json:"content"`
}

type chatContent struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewOpenAIVision creates the backend. A nil client uses http.DefaultClient.
func NewOpenAIVision(apiKey, baseURL, model string, client httpclient.HTTPClient) *OpenAIVision {
	if client == nil {
		client = http.DefaultClient
	}
	return &OpenAIVision{
		apiKey:   apiKey,
		endpoint: strings.TrimRight(baseURL, "/") + "/chat/completions",
		model:    model,
		client:   client,
	}
}

func (o *OpenAIVision) ExtractModels(ctx context.Context, imagePath string) ([]string, error) {
	mediaType, data, err := readImage(imagePath)
	if err != nil {
		return nil, err
	}

	req := chatRequest{
		Model: o.model,
		Messages: []chatMessage{{
			Role: "user",
			Content: []chatContent{
				{Type: "text", Text: prompt},
				{Type: "image_url", ImageURL: &imageURL{URL: "data:" + mediaType + ";base64," + data}},
			},
		}},
		MaxTokens: maxTokens,
	}
	headers := map[string]string{"Authorization": "Bearer " + o.apiKey}

	var resp chatResponse
	if err := httpclient.SendRequest(ctx, o.client, http.MethodPost, o.endpoint, headers, req, &resp); err != nil {
		return nil, eris.Wrap(err, "ocr: vision request")
	}
	if len(resp.Choices) == 0 {
		return nil, eris.New("ocr: vision response has no choices")
	}
	return contentLines(resp.Choices[0].Message.Content), nil
}
