// Package types holds the shared data model: personas, generation
// configuration, artifacts, and the intermediate parsed record shape.
package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultCategories is used when a generation request does not name any.
var DefaultCategories = []string{"code", "config", "docs"}

// Generation limits enforced at config construction.
const (
	MinArtifacts = 1
	MaxArtifacts = 500
	MinMaxTokens = 100
	MaxMaxTokens = 65536
)

// ConfigError reports an out-of-range or missing generation parameter.
// It is surfaced immediately to the caller and never retried.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid generation config: %s %s", e.Field, e.Reason)
}

// GenerationConfig holds validated parameters for one generation run.
// Construct via NewGenerationConfig; a zero value is not valid.
type GenerationConfig struct {
	NumArtifacts int
	Temperature  float64
	MaxTokens    int
	Categories   []string
	Seed         *int64
	Model        string
}

// DefaultGenerationConfig returns the defaults used when a surface passes
// no overrides: 25 artifacts at temperature 0.75.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		NumArtifacts: 25,
		Temperature:  0.75,
		MaxTokens:    20000,
		Categories:   append([]string(nil), DefaultCategories...),
		Model:        "gemini-2.5-flash",
	}
}

// NewGenerationConfig builds a range-checked config. Invalid values fail
// construction rather than silently clamping.
func NewGenerationConfig(numArtifacts int, temperature float64, maxTokens int, categories []string, seed *int64, model string) (GenerationConfig, error) {
	if numArtifacts < MinArtifacts || numArtifacts > MaxArtifacts {
		return GenerationConfig{}, &ConfigError{Field: "num_artifacts", Reason: fmt.Sprintf("must be between %d and %d, got %d", MinArtifacts, MaxArtifacts, numArtifacts)}
	}
	if temperature < 0.0 || temperature > 1.0 {
		return GenerationConfig{}, &ConfigError{Field: "temperature", Reason: fmt.Sprintf("must be between 0.0 and 1.0, got %g", temperature)}
	}
	if maxTokens < MinMaxTokens || maxTokens > MaxMaxTokens {
		return GenerationConfig{}, &ConfigError{Field: "max_tokens", Reason: fmt.Sprintf("must be between %d and %d, got %d", MinMaxTokens, MaxMaxTokens, maxTokens)}
	}
	if len(categories) == 0 {
		return GenerationConfig{}, &ConfigError{Field: "categories", Reason: "must not be empty"}
	}
	if model == "" {
		model = DefaultGenerationConfig().Model
	}
	return GenerationConfig{
		NumArtifacts: numArtifacts,
		Temperature:  temperature,
		MaxTokens:    maxTokens,
		Categories:   append([]string(nil), categories...),
		Seed:         seed,
		Model:        model,
	}, nil
}

// PersonaContext describes one synthetic individual. It is built once per
// generation request and read-only afterwards.
type PersonaContext struct {
	PersonaID       string   `json:"persona_id"`
	Name            string   `json:"name"`
	Slug            string   `json:"slug"`
	Description     string   `json:"description"`
	Role            string   `json:"role"`
	Company         string   `json:"company"`
	Location        string   `json:"location"`
	ExperienceYears int      `json:"experience_years"`
	PrimaryLanguage string   `json:"primary_language"`
	TechStack       []string `json:"tech_stack"`
	Quirks          []string `json:"quirks"`
	Email           string   `json:"email"`
	GitHubUsername  string   `json:"github_username"`
}

// ContextString renders the persona for prompt injection.
func (p PersonaContext) ContextString() string {
	return fmt.Sprintf(`
Persona: %s (%s)
Role: %s
Company: %s
Experience: %d years
Tech Stack: %s
Location: %s
`, p.Name, p.Slug, p.Role, p.Company, p.ExperienceYears, strings.Join(p.TechStack, ", "), p.Location)
}

// ParsedRecord is the raw artifact mapping recovered from a provider
// response, prior to promotion into an Artifact. Title, Category, and
// Content are required for promotion; FileExtension may be empty.
type ParsedRecord struct {
	Title         string `json:"title"`
	Category      string `json:"category"`
	FileExtension string `json:"file_extension"`
	Content       string `json:"content"`
}

// Artifact is one generated content unit attributed to a persona.
type Artifact struct {
	ID            string         `json:"artifact_id"`
	PersonaSlug   string         `json:"persona_slug"`
	Category      string         `json:"category"`
	Title         string         `json:"title"`
	Content       string         `json:"content"`
	FileExtension string         `json:"file_extension"`
	CreatedAt     time.Time      `json:"created_at"`
	ModifiedAt    time.Time      `json:"modified_at"`
	Metadata      map[string]any `json:"metadata"`
}

// NewArtifact promotes a parsed record into an Artifact owned by the given
// persona, applying explicit defaults for missing optional fields.
func NewArtifact(personaSlug string, rec ParsedRecord) (Artifact, error) {
	if personaSlug == "" {
		return Artifact{}, fmt.Errorf("artifact requires an owning persona slug")
	}
	if rec.Content == "" {
		return Artifact{}, fmt.Errorf("artifact %q has no content", rec.Title)
	}

	category := rec.Category
	if category == "" {
		category = "code"
	}
	title := rec.Title
	if title == "" {
		title = "untitled"
	}
	ext := rec.FileExtension
	if ext == "" {
		ext = ".py"
	}

	now := time.Now().UTC()
	return Artifact{
		ID:            uuid.NewString(),
		PersonaSlug:   personaSlug,
		Category:      category,
		Title:         title,
		Content:       rec.Content,
		FileExtension: ext,
		CreatedAt:     now,
		ModifiedAt:    now,
		Metadata:      map[string]any{},
	}, nil
}
