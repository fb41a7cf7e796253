package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/presscoach/backend/internal/model/interview"
	"github.com/presscoach/backend/internal/model/persona"
)

// Fallbacks when the model fails to produce a usable identity.
const (
	defaultJournalistName = "Alex P. Keats"
	defaultOutletName     = "The Daily Tech"
)

// IdentityGenerator produces the journalist identity for a session: a
// name and outlet from one structured call, plus best-effort portrait
// and logo images that degrade to absent on failure.
type IdentityGenerator struct {
	text  TextGateway
	media MediaGateway
}

// NewIdentityGenerator wires the generator to its gateways. media may be
// nil to skip image generation entirely.
func NewIdentityGenerator(text TextGateway, media MediaGateway) *IdentityGenerator {
	return &IdentityGenerator{text: text, media: media}
}

// Generate builds the full identity. A gateway failure on the name call
// aborts the session start; image failures only cost the visuals.
func (g *IdentityGenerator) Generate(ctx context.Context, p persona.Persona, startupDescription string) (interview.Identity, error) {
	identity, err := g.generateNames(ctx, p, startupDescription)
	if err != nil {
		return interview.Identity{}, err
	}

	if g.media != nil {
		details := fmt.Sprintf("%s journalist, %s. %s", p.Name, p.Style, p.Description)
		if portrait, err := g.media.GeneratePortrait(ctx, details); err != nil {
			log.Printf("[agent] portrait generation failed, continuing without: %v", err)
		} else {
			identity.Portrait = portrait
		}

		if logo, err := g.media.GenerateLogo(ctx, identity.OutletName); err != nil {
			log.Printf("[agent] logo generation failed, continuing without: %v", err)
		} else {
			identity.Logo = logo
		}
	}

	return identity, nil
}

func (g *IdentityGenerator) generateNames(ctx context.Context, p persona.Persona, startupDescription string) (interview.Identity, error) {
	prompt := fmt.Sprintf(`Invent a fictional journalist identity for a mock interview.

Journalist Persona: %s (%s)
Startup Topic: %s

Respond with a JSON object of exactly two string fields:
"name" - a realistic full name for the journalist.
"outlet" - a creative, professional news outlet name fitting the persona (%s).`,
		p.Name, p.Style, startupDescription, p.OutletHint)

	raw, err := g.text.GenerateJSON(ctx, prompt)
	if err != nil {
		return interview.Identity{}, fmt.Errorf("generate identity: %w", err)
	}

	var payload struct {
		Name   string `json:"name"`
		Outlet string `json:"outlet"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		// Degrade: default name, and one plain text attempt at the
		// outlet before settling for the default.
		log.Printf("[agent] identity JSON unparsable, falling back: %v", err)
		return interview.Identity{
			JournalistName: defaultJournalistName,
			OutletName:     g.generateOutletName(ctx, p, startupDescription),
		}, nil
	}

	identity := interview.Identity{
		JournalistName: strings.TrimSpace(payload.Name),
		OutletName:     strings.TrimSpace(payload.Outlet),
	}
	if identity.JournalistName == "" {
		identity.JournalistName = defaultJournalistName
	}
	if identity.OutletName == "" {
		identity.OutletName = defaultOutletName
	}
	return identity, nil
}

// generateOutletName asks for a short literal outlet name with a plain
// text call, trimmed of surrounding whitespace.
func (g *IdentityGenerator) generateOutletName(ctx context.Context, p persona.Persona, startupDescription string) string {
	prompt := fmt.Sprintf(`Generate a creative, realistic name for a news outlet based on the following:
Journalist Persona: %s (%s)
Startup Topic: %s

The name should sound professional and fit the persona (e.g., TechCrunch style for tech, Forbes style for business).
Output ONLY the name.`, p.Name, p.Style, startupDescription)

	text, err := g.text.GenerateText(ctx, prompt)
	if err != nil {
		log.Printf("[agent] outlet name generation failed, using default: %v", err)
		return defaultOutletName
	}
	if name := strings.TrimSpace(text); name != "" {
		return name
	}
	return defaultOutletName
}
