package agent

import (
	"context"
	"encoding/json"
)

// TextGateway is the generative text boundary the agents talk to.
type TextGateway interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateJSON(ctx context.Context, prompt string) (json.RawMessage, error)
}

// MediaGateway covers the best-effort image generation calls.
type MediaGateway interface {
	GeneratePortrait(ctx context.Context, personaDetails string) ([]byte, error)
	GenerateLogo(ctx context.Context, outletName string) ([]byte, error)
}
