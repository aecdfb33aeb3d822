// Package ocr reads model names out of screenshots, either with a local
// tesseract binary or through a vision-capable chat API.
package ocr

import (
	"context"
	"net/http"
	"strings"

	"github.com/nulzo/formatapi/internal/config"
	"github.com/nulzo/formatapi/internal/registry"
	"github.com/rotisserie/eris"
)

var (
	// ErrMissingCredentials is returned for AI mode without an API key.
	ErrMissingCredentials = eris.New("ocr: ai mode requires an api key")
	// ErrUnsupportedAPI is returned when the AI base URL is not a known
	// vision API.
	ErrUnsupportedAPI = eris.New("ocr: unsupported vision api")
)

// Extractor returns the model names visible in an image.
type Extractor interface {
	ExtractModels(ctx context.Context, imagePath string) ([]string, error)
}

// prompt is sent with the image to vision backends.
const prompt = "Identify all AI model names in this image. " +
	"List each model name on its own line, with no numbering or extra text."

// maxTokens caps the vision completion.
const maxTokens = 2000

// NewExtractor creates an Extractor based on config.
func NewExtractor(cfg config.OCRConfig) (Extractor, error) {
	switch strings.ToLower(cfg.Mode) {
	case config.OCRModeSystem, "":
		return NewTesseract(cfg.TesseractPath), nil
	case config.OCRModeAI:
		if cfg.AIAPIKey == "" {
			return nil, ErrMissingCredentials
		}
		client := &http.Client{Timeout: cfg.Timeout}
		if registry.Detect(cfg.AIBaseURL) == "anthropic" {
			return NewAnthropicVision(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel, client), nil
		}
		if isOpenAICompatible(cfg.AIBaseURL) {
			return NewOpenAIVision(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel, client), nil
		}
		return nil, eris.Wrapf(ErrUnsupportedAPI, "base url %q", cfg.AIBaseURL)
	default:
		return nil, eris.Errorf("ocr: unknown mode %q", cfg.Mode)
	}
}

func isOpenAICompatible(baseURL string) bool {
	u := strings.ToLower(baseURL)
	return strings.Contains(u, "openai") || strings.Contains(u, "/v1")
}

// contentLines splits a completion into trimmed non-empty lines.
func contentLines(s string) []string {
	lines := []string{}
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
