package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	genai "google.golang.org/genai"

	"github.com/presscoach/backend/internal/config"
)

// ErrEmptyResponse is returned when the model answers with no usable
// candidate part.
var ErrEmptyResponse = errors.New("gemini: empty response from model")

const transcribePrompt = "Transcribe the following audio exactly as spoken. Do not add any commentary or timestamps."

// Client is a thin wrapper around the official genai client. It focuses
// on the call shapes the interview trainer needs: plain text, JSON-typed
// text, audio transcription, and image generation. No retries, caching,
// or output validation happen here.
type Client struct {
	cli            *genai.Client
	textModel      string
	portraitModels []string
	logoModel      string
}

// New builds a Client from the Gemini configuration.
func New(ctx context.Context, cfg config.GeminiConfig) (*Client, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Client{
		cli:            cli,
		textModel:      cfg.TextModel,
		portraitModels: cfg.PortraitModels,
		logoModel:      cfg.LogoModel,
	}, nil
}

// GenerateText sends one prompt and returns the model's text verbatim.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := c.cli.Models.GenerateContent(ctx, c.textModel,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		nil,
	)
	if err != nil {
		return "", err
	}
	return firstText(resp)
}

// GenerateJSON sends one prompt with the JSON response mode enabled and
// returns the raw payload. Parsing is the caller's concern.
func (c *Client) GenerateJSON(ctx context.Context, prompt string) (json.RawMessage, error) {
	resp, err := c.cli.Models.GenerateContent(ctx, c.textModel,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return nil, err
	}
	text, err := firstText(resp)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(text), nil
}

// Transcribe sends the audio bytes as an inline part together with a
// fixed transcription instruction. One blocking call, no chunking; the
// returned text is used verbatim as the answer for the current turn.
func (c *Client) Transcribe(ctx context.Context, audio []byte, format string) (string, error) {
	if format == "" {
		format = "wav"
	}
	resp, err := c.cli.Models.GenerateContent(ctx, c.textModel,
		[]*genai.Content{{Parts: []*genai.Part{
			{Text: transcribePrompt},
			{InlineData: &genai.Blob{MIMEType: "audio/" + format, Data: audio}},
		}}},
		nil,
	)
	if err != nil {
		return "", err
	}
	return firstText(resp)
}

// GeneratePortrait produces a 1:1 journalist headshot for the persona.
// It tries the configured models in order and returns the first image;
// the caller decides whether a failure matters.
func (c *Client) GeneratePortrait(ctx context.Context, personaDetails string) ([]byte, error) {
	prompt := fmt.Sprintf("Professional headshot of a journalist.\nPersona details: %s.\nHigh quality, realistic, professional lighting, 8k resolution.", personaDetails)

	var lastErr error
	for _, model := range c.portraitModels {
		img, err := c.generateImage(ctx, model, prompt, &genai.GenerateImagesConfig{
			NumberOfImages:    1,
			AspectRatio:       "1:1",
			SafetyFilterLevel: genai.SafetyFilterLevelBlockLowAndAbove,
			PersonGeneration:  genai.PersonGenerationAllowAdult,
		})
		if err != nil {
			log.Printf("[gateway] portrait generation with %s failed: %v", model, err)
			lastErr = err
			continue
		}
		return img, nil
	}
	if lastErr == nil {
		lastErr = ErrEmptyResponse
	}
	return nil, lastErr
}

// GenerateLogo produces a 1:1 outlet logo for the generated outlet name.
func (c *Client) GenerateLogo(ctx context.Context, outletName string) ([]byte, error) {
	prompt := fmt.Sprintf("Modern, professional news outlet logo for '%s'.\nMinimalist, trustworthy, bold typography.\nVector art style, white background.", outletName)

	return c.generateImage(ctx, c.logoModel, prompt, &genai.GenerateImagesConfig{
		NumberOfImages:    1,
		AspectRatio:       "1:1",
		SafetyFilterLevel: genai.SafetyFilterLevelBlockLowAndAbove,
	})
}

func (c *Client) generateImage(ctx context.Context, model, prompt string, cfg *genai.GenerateImagesConfig) ([]byte, error) {
	resp, err := c.cli.Models.GenerateImages(ctx, model, prompt, cfg)
	if err != nil {
		return nil, err
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil || len(resp.GeneratedImages[0].Image.ImageBytes) == 0 {
		return nil, ErrEmptyResponse
	}
	return resp.GeneratedImages[0].Image.ImageBytes, nil
}

func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ErrEmptyResponse
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	var b strings.Builder
	for _, part := range content.Parts {
		b.WriteString(part.Text)
	}
	if b.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}
