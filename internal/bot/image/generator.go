package image

import (
	"context"
	"fmt"

	botmodel "github.com/Addyshimla/splashark/internal/bot/model"
	logx "github.com/Addyshimla/splashark/pkg/logger"
	"github.com/sashabaranov/go-openai"
)

// Generator produces one image for a text prompt and returns its URL. The
// workflow attempts every generation exactly once; retries, if any, belong
// to the HTTP client configuration.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config holds the OpenAI connection and model parameters.
type Config struct {
	APIKey  string
	BaseURL string
	Model   botmodel.ImageModelConfig
}

// DALLEGenerator calls the OpenAI image API.
type DALLEGenerator struct {
	client  *openai.Client
	model   string
	size    string
	quality string
}

// NewDALLEGenerator creates a generator backed by the OpenAI image endpoint.
func NewDALLEGenerator(cfg Config) *DALLEGenerator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &DALLEGenerator{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model.Model,
		size:    cfg.Model.Size,
		quality: cfg.Model.Quality,
	}
}

// Generate requests a single image and returns the hosted URL.
func (g *DALLEGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateImage(ctx, openai.ImageRequest{
		Model:          g.model,
		Prompt:         prompt,
		N:              1,
		Size:           g.size,
		Quality:        g.quality,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		logx.Error().Err(err).Str("model", g.model).Msg("image generation request failed")
		return "", fmt.Errorf("image generation: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", fmt.Errorf("image generation: empty response from %s", g.model)
	}
	return resp.Data[0].URL, nil
}

var _ Generator = (*DALLEGenerator)(nil)
