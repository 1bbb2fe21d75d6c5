package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"personagen/internal/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "artifacts.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testArtifact(id, slug string, createdAt time.Time) types.Artifact {
	return types.Artifact{
		ID:            id,
		PersonaSlug:   slug,
		Category:      "code",
		Title:         "main.py",
		Content:       "print('hello world')",
		FileExtension: ".py",
		CreatedAt:     createdAt,
		ModifiedAt:    createdAt,
		Metadata:      map[string]any{"model": "gemini-2.5-flash"},
	}
}

func TestInsertArtifact_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	now := time.Now().UTC().Truncate(time.Millisecond)
	require.True(t, s.InsertArtifact(testArtifact("a1", "alice-johnson", now)))

	got, err := s.GetArtifactsByPersona("alice-johnson")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a1", got[0].ID)
	assert.Equal(t, "print('hello world')", got[0].Content)
	assert.Equal(t, "gemini-2.5-flash", got[0].Metadata["model"])
	assert.True(t, got[0].CreatedAt.Equal(now))
}

func TestInsertArtifact_DuplicateIDReportsFalse(t *testing.T) {
	s := newTestStore(t)

	now := time.Now().UTC()
	require.True(t, s.InsertArtifact(testArtifact("dup", "alice", now)))
	assert.False(t, s.InsertArtifact(testArtifact("dup", "alice", now)))
}

func TestInsertArtifactsBatch_Independence(t *testing.T) {
	s := newTestStore(t)

	now := time.Now().UTC()
	require.True(t, s.InsertArtifact(testArtifact("taken", "alice", now)))

	batch := []types.Artifact{
		testArtifact("b1", "alice", now),
		testArtifact("taken", "alice", now), // collides
		testArtifact("b2", "alice", now),
	}
	count := s.InsertArtifactsBatch(batch)
	assert.Equal(t, 2, count, "collision must not poison the rest of the batch")

	got, err := s.GetArtifactsByPersona("alice")
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestGetArtifactsByPersona_MostRecentFirst(t *testing.T) {
	s := newTestStore(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.InsertArtifact(testArtifact("old", "alice", base))
	s.InsertArtifact(testArtifact("new", "alice", base.Add(time.Hour)))
	s.InsertArtifact(testArtifact("mid", "alice", base.Add(time.Minute)))

	got, err := s.GetArtifactsByPersona("alice")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"new", "mid", "old"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestListPersonaSlugs_DistinctAscending(t *testing.T) {
	s := newTestStore(t)

	now := time.Now().UTC()
	s.InsertArtifact(testArtifact("1", "zoe", now))
	s.InsertArtifact(testArtifact("2", "alice", now))
	s.InsertArtifact(testArtifact("3", "alice", now))
	s.InsertArtifact(testArtifact("4", "mike", now))

	slugs, err := s.ListPersonaSlugs()
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "mike", "zoe"}, slugs)
}

func TestSavePersona_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	p := types.PersonaContext{
		PersonaID:       "abc12345",
		Name:            "Alice Johnson",
		Slug:            "alice-johnson",
		Role:            "Backend Engineer",
		Company:         "TechCorp",
		Location:        "Austin, TX",
		ExperienceYears: 7,
		TechStack:       []string{"Go", "Kubernetes"},
	}
	require.NoError(t, s.SavePersona(p))

	got, err := s.GetPersona("alice-johnson")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.TechStack, got.TechStack)

	missing, err := s.GetPersona("nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestClear_WipesBothKinds(t *testing.T) {
	s := newTestStore(t)

	s.InsertArtifact(testArtifact("a1", "alice", time.Now().UTC()))
	require.NoError(t, s.SavePersona(types.PersonaContext{Slug: "alice", Name: "Alice"}))

	require.NoError(t, s.Clear())

	slugs, err := s.ListPersonaSlugs()
	require.NoError(t, err)
	assert.Empty(t, slugs)

	p, err := s.GetPersona("alice")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestOpen_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "artifacts.db")
	s, err := Open(path, nil)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, path, s.Path())
}
