package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateArticleRequestPresence(t *testing.T) {
	var req UpdateArticleRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"New","references":null,"pseudonym":"","published":false}`), &req))

	assert.True(t, req.Title.Set)
	assert.Equal(t, "New", req.Title.Value)

	assert.True(t, req.References.Set)
	assert.True(t, req.References.Null)

	assert.True(t, req.Pseudonym.Set)
	assert.False(t, req.Pseudonym.Null)
	assert.True(t, req.Pseudonym.Cleared(func(s string) bool { return s == "" }))

	assert.True(t, req.Published.Set)
	assert.False(t, req.Published.Value)

	assert.False(t, req.Abstract.Set)
	assert.False(t, req.Tags.Set)
	assert.False(t, req.CoverStyle.Set)
	assert.False(t, req.Empty())
}

func TestUpdateArticleRequestEmpty(t *testing.T) {
	var req UpdateArticleRequest
	require.NoError(t, json.Unmarshal([]byte(`{"unknown":1}`), &req))
	assert.True(t, req.Empty())
}

func TestIdentityProfileDisplayName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", IdentityProfile{FirstName: "Ada", LastName: "Lovelace", Username: "ada"}.DisplayName())
	assert.Equal(t, "Grace", IdentityProfile{FullName: "Grace", Username: "gh"}.DisplayName())
	assert.Equal(t, "ada", IdentityProfile{Username: "ada"}.DisplayName())
	assert.Equal(t, "User", IdentityProfile{}.DisplayName())
	assert.Equal(t, "b@x.io", IdentityProfile{Emails: []string{"", "b@x.io"}}.PrimaryEmail())
}
