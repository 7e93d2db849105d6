package session

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/lancerhub/lancerhub_be/internal/models"
)

func TestStateConstructors(t *testing.T) {
	assert.Equal(t, StatusResolving, Resolving().Status)
	assert.False(t, Resolving().Authenticated())

	assert.Equal(t, StatusAnonymous, Anonymous().Status)
	assert.False(t, Anonymous().Authenticated())

	uid := uuid.New()
	p := &models.Profile{ID: uid, UserType: models.UserTypeClient}
	s := Authenticated(uid, p)
	assert.True(t, s.Authenticated())
	assert.Equal(t, uid, s.IdentityID)
	assert.Same(t, p, s.Profile)
}

func TestAuthenticatedWithoutProfileIsStillAuthed(t *testing.T) {
	// the profile row may lag behind the identity record
	s := Authenticated(uuid.New(), nil)
	assert.True(t, s.Authenticated())
	assert.Nil(t, s.Profile)
}
