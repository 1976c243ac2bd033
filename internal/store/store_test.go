package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRules(t *testing.T) {
	content := `rules:
  - category: FRAUD
    keywords:
      - phishing
      - account takeover
  - category: DUPLICATE_CHARGE
    keywords:
      - billed twice
`
	dir := t.TempDir()
	rulesFile := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(rulesFile, []byte(content), 0600))

	s := NewRuleStore(rulesFile, nil)
	rules, err := s.LoadRules()
	require.NoError(t, err)

	require.Len(t, rules, 2)
	assert.Equal(t, "FRAUD", rules[0].Category)
	assert.Equal(t, []string{"phishing", "account takeover"}, rules[0].Keywords)
	assert.Equal(t, "DUPLICATE_CHARGE", rules[1].Category)
	assert.Equal(t, []string{"billed twice"}, rules[1].Keywords)
}

func TestLoadRules_MissingFileIsNotAnError(t *testing.T) {
	s := NewRuleStore(filepath.Join(t.TempDir(), "absent.yaml"), nil)

	rules, err := s.LoadRules()

	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestLoadRules_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	rulesFile := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(rulesFile, []byte("rules: [not: valid: yaml"), 0600))

	s := NewRuleStore(rulesFile, nil)
	_, err := s.LoadRules()

	assert.Error(t, err)
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(existing, []byte("rules: []\n"), 0600))

	s := NewRuleStore("", nil)

	found, err := s.FindConfigFile(existing)
	require.NoError(t, err)
	assert.Equal(t, existing, found)

	_, err = s.FindConfigFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
