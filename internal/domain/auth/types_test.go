package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/oauth2"
)

func TestSession_Validate(t *testing.T) {
	user := User{ID: "u1", Email: "ada@example.com", Role: RoleAdmin}
	tok := oauth2.Token{AccessToken: "a", RefreshToken: "r"}

	assert.NoError(t, Session{ID: "s"}.Validate())
	assert.NoError(t, Session{ID: "s", User: user, Token: tok}.Validate())
	assert.Error(t, Session{ID: "s", Token: tok}.Validate())
	assert.Error(t, Session{ID: "s", User: user}.Validate())
}

func TestSession_WithTokenKeepsIdentity(t *testing.T) {
	s := Session{ID: "s", User: User{ID: "u1"}, Token: oauth2.Token{AccessToken: "old", RefreshToken: "r1"}}
	rotated := s.WithToken(oauth2.Token{AccessToken: "new", RefreshToken: "r2"})

	assert.Equal(t, "old", s.AccessToken())
	assert.Equal(t, "new", rotated.AccessToken())
	assert.Equal(t, "r2", rotated.RefreshToken())
	assert.Equal(t, s.User, rotated.User)
	assert.True(t, rotated.IsAuthenticated())
}

func TestUser_DisplayName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", User{FirstName: "Ada", LastName: "Lovelace"}.DisplayName())
	assert.Equal(t, "ada@example.com", User{Email: "ada@example.com"}.DisplayName())
	assert.Equal(t, "A", User{FirstName: "ada"}.Initial())
	assert.Equal(t, "?", User{}.Initial())
}
