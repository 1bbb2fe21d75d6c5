// Package prompt builds the generation prompts sent to the provider.
package prompt

import (
	"fmt"
	"strings"

	"personagen/internal/types"
)

// SystemPrompt frames the model as an artifact author for the persona's
// role.
const SystemPrompt = `You are an expert developer generating realistic digital artifacts.
Create authentic-looking code, configurations, and documentation that a %s would write.
Ensure artifacts are realistic, consistent, and contextually appropriate.`

// Build renders the full generation prompt: persona context, category
// list, and a strict instruction to return a JSON array of exactly
// NumArtifacts objects with title/category/file_extension/content
// fields.
func Build(persona types.PersonaContext, cfg types.GenerationConfig) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate exactly %d realistic artifacts for:\n\n%s\n",
		cfg.NumArtifacts, persona.ContextString())

	fmt.Fprintf(&b, "Categories: %s\n", strings.Join(cfg.Categories, ", "))
	fmt.Fprintf(&b, "Format: Return a JSON array with exactly %d artifacts.\n\n", cfg.NumArtifacts)

	fmt.Fprintf(&b, `Each artifact must have:
- title: Descriptive name
- category: %s
- file_extension: .py, .yaml, .md, etc.
- content: Realistic artifact content

`, strings.Join(cfg.Categories, "/"))

	b.WriteString(`Return ONLY valid JSON array. Start with [ and end with ].
Example format:
[
  {
    "title": "deployment.yaml",
    "category": "config",
    "file_extension": ".yaml",
    "content": "..."
  },
  ...
]

IMPORTANT:
- Use consistent naming/style across all artifacts
- Include authentic technical details
- Make content realistic and properly formatted
`)

	return b.String()
}

// BuildWithPrior appends prior-artifact context so a follow-up batch
// stays stylistically consistent with what the persona already has.
func BuildWithPrior(persona types.PersonaContext, cfg types.GenerationConfig, prior []types.Artifact) string {
	base := Build(persona, cfg)
	if len(prior) == 0 {
		return base
	}

	var b strings.Builder
	b.WriteString(base)
	b.WriteString("\nConsider these prior artifacts for consistency:\n")
	for _, a := range prior {
		fmt.Fprintf(&b, "- %s (%s%s)\n", a.Title, a.Category, a.FileExtension)
	}
	return b.String()
}
