package session

import (
	"github.com/google/uuid"

	"github.com/lancerhub/lancerhub_be/internal/models"
)

type Status string

const (
	// StatusResolving means the resolver has not finished a cycle yet;
	// callers must render nothing rather than redirect.
	StatusResolving Status = "resolving"
	StatusAnonymous Status = "anonymous"
	StatusAuthed    Status = "authenticated"
)

// State is the outcome of one resolution cycle. An authenticated state may
// carry a nil Profile right after sign-in, when the identity record predates
// the profile row; callers must treat that as valid.
type State struct {
	Status     Status
	IdentityID uuid.UUID
	Profile    *models.Profile
}

func Resolving() State { return State{Status: StatusResolving} }

func Anonymous() State { return State{Status: StatusAnonymous} }

func Authenticated(id uuid.UUID, profile *models.Profile) State {
	return State{Status: StatusAuthed, IdentityID: id, Profile: profile}
}

func (s State) Authenticated() bool { return s.Status == StatusAuthed }
