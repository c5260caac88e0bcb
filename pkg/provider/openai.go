package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const openAIName = "openai"

// OpenAIImageRunner serves "openai/<model>" identifiers through the images API.
type OpenAIImageRunner struct {
	client openai.Client
}

func NewOpenAIImageRunner(apiKey, baseURL string, timeout time.Duration) *OpenAIImageRunner {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithRequestTimeout(timeout),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(baseURL, "/")+"/"))
	}
	return &OpenAIImageRunner{client: openai.NewClient(opts...)}
}

func (r *OpenAIImageRunner) Run(ctx context.Context, identifier string, input map[string]interface{}) (Output, error) {
	prompt, _ := input["prompt"].(string)
	if prompt == "" {
		return nil, fmt.Errorf("openai images: prompt is required")
	}
	size, _ := input["size"].(string)
	if size == "" {
		size = "1024x1024"
	}

	resp, err := r.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Model:  openai.ImageModel(strings.TrimPrefix(identifier, "openai/")),
		Prompt: prompt,
		N:      openai.Int(1),
		Size:   openai.ImageGenerateParamsSize(size),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return nil, Classify(openAIName, apiErr.StatusCode, apiErr.Message)
		}
		return nil, fmt.Errorf("openai request failed: %w", err)
	}

	out := ArrayOf{Items: make([]Output, 0, len(resp.Data))}
	for _, img := range resp.Data {
		out.Items = append(out.Items, SyncURLObject{URL: img.URL})
	}
	return out, nil
}
