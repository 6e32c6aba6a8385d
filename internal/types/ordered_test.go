package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestOrdered_UnmarshalKeepsDeclarationOrder(t *testing.T) {
	var projects Ordered[Project]
	src := `
zeta:
  employer: acme
  start: 2020-01
alpha:
  employer: globex
  end: present
mid:
  employer: acme
`
	require.NoError(t, yaml.Unmarshal([]byte(src), &projects))

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, projects.Keys())
	assert.Equal(t, 3, projects.Len())

	p, ok := projects.Get("zeta")
	require.True(t, ok)
	assert.Equal(t, "acme", p.Employer)
	assert.Equal(t, "2020-01", p.Start)

	p, _ = projects.Get("alpha")
	assert.Equal(t, "present", p.End)
}

func TestOrdered_NullAndMissing(t *testing.T) {
	var doc CareerDocument
	require.NoError(t, yaml.Unmarshal([]byte("projects: ~\n"), &doc))
	assert.Equal(t, 0, doc.Projects.Len())
	assert.Equal(t, 0, doc.Employers.Len())

	_, ok := doc.Projects.Get("missing")
	assert.False(t, ok)
}

func TestOrdered_RejectsSequence(t *testing.T) {
	var o Ordered[string]
	err := yaml.Unmarshal([]byte("- a\n- b\n"), &o)
	assert.Error(t, err)
}

func TestOrdered_SetReplacesInPlace(t *testing.T) {
	var o Ordered[int]
	o.Set("a", 1)
	o.Set("b", 2)
	o.Set("a", 3)

	assert.Equal(t, []string{"a", "b"}, o.Keys())
	v, _ := o.Get("a")
	assert.Equal(t, 3, v)
}
