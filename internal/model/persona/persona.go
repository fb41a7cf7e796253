package persona

// Persona is a journalistic archetype selected before the interview and
// fixed for its duration.
type Persona struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Style       string   `json:"style"`
	PromptHint  string   `json:"promptHint"`
	OutletHint  string   `json:"outletHint,omitempty"`
	FocusAreas  []string `json:"focusAreas,omitempty"`
	Description string   `json:"description,omitempty"`
}

// Difficulties lists the supported difficulty levels, mildest first.
func Difficulties() []string {
	return []string{"Easy", "Medium", "Hard", "Nightmare"}
}

// ValidDifficulty reports whether the given level is one of the
// supported knobs.
func ValidDifficulty(level string) bool {
	for _, d := range Difficulties() {
		if d == level {
			return true
		}
	}
	return false
}

// Seed provides the default journalist personas shipped with the product.
func Seed() []Persona {
	return []Persona{
		{
			ID:          "techcrunch",
			Name:        "TechCrunch",
			Style:       "Skeptical, Technical",
			PromptHint:  "Dig into the technology and the moat. Challenge vague claims about AI and scalability with pointed follow-ups.",
			OutletHint:  "tech trade press, TechCrunch style",
			FocusAreas:  []string{"technology", "differentiation", "scalability"},
			Description: "A seasoned tech reporter who has heard every pitch twice and wants specifics, not adjectives.",
		},
		{
			ID:          "forbes",
			Name:        "Forbes",
			Style:       "Business-focused, Friendly",
			PromptHint:  "Warm but commercially sharp. Steer toward revenue model, margins, market size, and the path to profitability.",
			OutletHint:  "business magazine, Forbes style",
			FocusAreas:  []string{"business model", "market", "growth"},
			Description: "A business journalist interested in the numbers behind the story and the founder's journey.",
		},
		{
			ID:          "theverge",
			Name:        "The Verge",
			Style:       "Consumer-focused, Trendy",
			PromptHint:  "Ask how real people experience the product. Probe design choices, accessibility, and cultural fit.",
			OutletHint:  "consumer tech and culture outlet",
			FocusAreas:  []string{"product experience", "design", "culture"},
			Description: "A consumer tech writer who cares about what the product feels like, not the cap table.",
		},
		{
			ID:          "investigative",
			Name:        "Investigative",
			Style:       "Aggressive, Fact-checking",
			PromptHint:  "Cross-examine. Compare answers against earlier statements, press on contradictions, and do not accept deflection.",
			OutletHint:  "investigative desk of a national paper",
			FocusAreas:  []string{"claims verification", "ethics", "accountability"},
			Description: "An investigative reporter building a case file. Every answer is a potential quote.",
		},
	}
}
