// Package persona enriches short free-text descriptions into full
// synthetic persona profiles.
package persona

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"personagen/internal/types"
)

var roles = []string{
	"Backend Engineer",
	"Frontend Developer",
	"DevOps Engineer",
	"ML Engineer",
	"Data Engineer",
	"Full Stack Developer",
	"Security Engineer",
	"Cloud Architect",
	"SRE",
	"Database Administrator",
}

var companies = []string{
	"TechCorp",
	"CloudDynamics",
	"DataFlow Systems",
	"VentureAI",
	"SecureNet",
	"InnovateTech",
	"QuantumLeap",
	"NeuralWorks",
}

var locations = []string{
	"San Francisco, CA",
	"New York, NY",
	"Austin, TX",
	"Seattle, WA",
	"Boston, MA",
	"Denver, CO",
	"Portland, OR",
	"Remote",
}

var techStacks = map[string][]string{
	"Backend":  {"Python", "Go", "Rust", "Node.js", "Java"},
	"Frontend": {"React", "Vue", "Angular", "TypeScript"},
	"DevOps":   {"Kubernetes", "Docker", "Terraform", "Jenkins"},
	"Data":     {"Pandas", "Spark", "SQL", "TensorFlow"},
}

var quirks = []string{
	"Coffee addict",
	"Night owl",
	"Open source enthusiast",
	"Tech blogger",
	"Podcast listener",
	"Terminal lover",
	"Documentation focused",
}

var firstNames = []string{
	"Alice", "Bob", "Charlie", "Diana", "Eve", "Frank",
	"Grace", "Henry", "Isabel", "Jack", "Karen", "Leo",
}

var lastNames = []string{
	"Johnson", "Smith", "Williams", "Brown", "Jones",
	"Garcia", "Miller", "Davis", "Rodriguez", "Martinez",
}

// Builder turns descriptions into rich personas. Randomness comes from
// an explicit source so concurrent requests never share mutable seed
// state; a seeded builder is fully deterministic.
type Builder struct{}

// NewBuilder returns a persona builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Enrich expands a short description (for example "Senior Python
// engineer") into a full PersonaContext. When seed is non-nil the
// result is reproducible.
func (b *Builder) Enrich(description string, seed *int64) types.PersonaContext {
	var rng *rand.Rand
	if seed != nil {
		rng = rand.New(rand.NewSource(*seed))
	} else {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	role := b.extractRole(description, rng)

	name := firstNames[rng.Intn(len(firstNames))] + " " + lastNames[rng.Intn(len(lastNames))]
	slug := nameToSlug(name)

	company := companies[rng.Intn(len(companies))]
	location := locations[rng.Intn(len(locations))]
	experience := 2 + rng.Intn(14)

	// Sorted keys keep seeded runs deterministic across map iteration.
	stackNames := make([]string, 0, len(techStacks))
	for k := range techStacks {
		stackNames = append(stackNames, k)
	}
	sort.Strings(stackNames)
	stack := techStacks[stackNames[rng.Intn(len(stackNames))]]
	techStack := sample(rng, stack, 2+rng.Intn(3))

	personaQuirks := sample(rng, quirks, 1+rng.Intn(3))

	email := fmt.Sprintf("%s@%s.com", slug, strings.ToLower(strings.ReplaceAll(company, " ", "")))
	github := strings.ReplaceAll(slug, "-", "")

	return types.PersonaContext{
		PersonaID:       uuid.NewString()[:8],
		Name:            name,
		Slug:            slug,
		Description:     description,
		Role:            role,
		Company:         company,
		Location:        location,
		ExperienceYears: experience,
		PrimaryLanguage: "Python",
		TechStack:       techStack,
		Quirks:          personaQuirks,
		Email:           email,
		GitHubUsername:  github,
	}
}

// extractRole matches a known role inside the description, falling back
// to "<FirstWord> Engineer" and then to a random role.
func (b *Builder) extractRole(description string, rng *rand.Rand) string {
	lower := strings.ToLower(description)
	for _, role := range roles {
		if strings.Contains(lower, strings.ToLower(role)) {
			return role
		}
	}

	words := strings.Fields(strings.TrimSpace(description))
	if len(words) > 0 {
		first := words[0]
		return strings.ToUpper(first[:1]) + strings.ToLower(first[1:]) + " Engineer"
	}
	return roles[rng.Intn(len(roles))]
}

func nameToSlug(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", "-"))
}

// sample picks k distinct elements without mutating the input table.
func sample(rng *rand.Rand, items []string, k int) []string {
	if k > len(items) {
		k = len(items)
	}
	out := make([]string, 0, k)
	for _, idx := range rng.Perm(len(items))[:k] {
		out = append(out, items[idx])
	}
	return out
}
