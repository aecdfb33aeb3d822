package ocr

import (
	"context"
	"net/http"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
)

const defaultAnthropicModel = "claude-sonnet-4-5"

// AnthropicVision lists the models in an image with the Anthropic Messages
// API.
type AnthropicVision struct {
	client sdk.Client
	model  string
}

// NewAnthropicVision creates the backend. The base URL may carry a trailing
// "/v1"; the SDK adds its own version segment.
func NewAnthropicVision(apiKey, baseURL, model string, httpClient *http.Client) *AnthropicVision {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if base := strings.TrimSuffix(strings.TrimRight(baseURL, "/"), "/v1"); base != "" {
		opts = append(opts, option.WithBaseURL(base+"/"))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	if model == "" || !strings.HasPrefix(strings.ToLower(model), "claude") {
		model = defaultAnthropicModel
	}
	return &AnthropicVision{
		client: sdk.NewClient(opts...),
		model:  model,
	}
}

func (a *AnthropicVision) ExtractModels(ctx context.Context, imagePath string) ([]string, error) {
	mediaType, data, err := readImage(imagePath)
	if err != nil {
		return nil, err
	}

	msg, err := a.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(a.model),
		MaxTokens: maxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(
				sdk.NewImageBlockBase64(mediaType, data),
				sdk.NewTextBlock(prompt),
			),
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "ocr: anthropic create message")
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
			sb.WriteString("\n")
		}
	}
	return contentLines(sb.String()), nil
}
