package persona

import (
	"reflect"
	"strings"
	"testing"
)

func TestEnrich_FieldsPopulated(t *testing.T) {
	b := NewBuilder()
	p := b.Enrich("Senior Python engineer", nil)

	if p.Name == "" || p.Slug == "" || p.Company == "" || p.Location == "" {
		t.Errorf("identity fields not populated: %+v", p)
	}
	if p.ExperienceYears < 2 || p.ExperienceYears > 15 {
		t.Errorf("ExperienceYears = %d, want 2..15", p.ExperienceYears)
	}
	if len(p.TechStack) < 2 || len(p.TechStack) > 4 {
		t.Errorf("TechStack size = %d, want 2..4", len(p.TechStack))
	}
	if len(p.Quirks) < 1 || len(p.Quirks) > 3 {
		t.Errorf("Quirks size = %d, want 1..3", len(p.Quirks))
	}
	if p.Description != "Senior Python engineer" {
		t.Errorf("Description = %q", p.Description)
	}
}

func TestEnrich_SlugDerivation(t *testing.T) {
	b := NewBuilder()
	seed := int64(42)
	p := b.Enrich("engineer", &seed)

	want := strings.ToLower(strings.ReplaceAll(p.Name, " ", "-"))
	if p.Slug != want {
		t.Errorf("Slug = %q, want %q (derived from %q)", p.Slug, want, p.Name)
	}
	if strings.ContainsAny(p.Slug, " A-Z") {
		t.Errorf("Slug not URL-safe: %q", p.Slug)
	}
	if p.GitHubUsername != strings.ReplaceAll(p.Slug, "-", "") {
		t.Errorf("GitHubUsername = %q not derived from slug %q", p.GitHubUsername, p.Slug)
	}
	if !strings.HasPrefix(p.Email, p.Slug+"@") {
		t.Errorf("Email = %q not derived from slug", p.Email)
	}
}

func TestEnrich_SeedDeterminism(t *testing.T) {
	b := NewBuilder()
	seed := int64(1234)

	p1 := b.Enrich("DevOps engineer", &seed)
	p2 := b.Enrich("DevOps engineer", &seed)

	// Everything except the uuid-backed persona id must be identical.
	p1.PersonaID, p2.PersonaID = "", ""
	if !reflect.DeepEqual(p1, p2) {
		t.Errorf("seeded runs diverged:\n%+v\n%+v", p1, p2)
	}
}

func TestExtractRole(t *testing.T) {
	b := NewBuilder()
	seed := int64(7)

	testCases := []struct {
		description string
		want        string
	}{
		{"Senior Backend Engineer at a startup", "Backend Engineer"},
		{"experienced devops engineer", "DevOps Engineer"},
		{"curious tinkerer", "Curious Engineer"},
	}
	for _, tc := range testCases {
		p := b.Enrich(tc.description, &seed)
		if p.Role != tc.want {
			t.Errorf("Enrich(%q).Role = %q, want %q", tc.description, p.Role, tc.want)
		}
	}
}
