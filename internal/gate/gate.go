// Package gate decides whether a requested view may render. The decision is
// advisory: every rule it advises on is re-checked by the workflow engine
// before a write is accepted.
package gate

import (
	"github.com/lancerhub/lancerhub_be/internal/models"
	"github.com/lancerhub/lancerhub_be/internal/session"
)

const (
	SignInPath  = "/auth"
	LandingPath = "/jobs"
)

// Requirement describes what a view demands of the session.
type Requirement struct {
	RequireAuth  bool
	RequiredRole models.UserType // zero value: no role requirement
}

// DefaultRequirement matches a plain protected view.
func DefaultRequirement() Requirement {
	return Requirement{RequireAuth: true}
}

// Decision is the gate's verdict. Pending means the session is still
// resolving and nothing should render yet. An ungranted request always
// resolves to a redirect, never an error.
type Decision struct {
	Allow      bool   `json:"allow"`
	Pending    bool   `json:"pending"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

func allow() Decision   { return Decision{Allow: true} }
func pending() Decision { return Decision{Pending: true} }

func redirect(path string) Decision { return Decision{RedirectTo: path} }

// Evaluate applies the ordered decision table, first match wins.
func Evaluate(s session.State, req Requirement) Decision {
	if s.Status == session.StatusResolving {
		return pending()
	}

	if req.RequireAuth && s.Status == session.StatusAnonymous {
		return redirect(SignInPath)
	}

	// Authenticated users do not re-enter auth-only views.
	if !req.RequireAuth && s.Status == session.StatusAuthed {
		return redirect(LandingPath)
	}

	if req.RequiredRole != "" {
		if s.Profile == nil || s.Profile.UserType != req.RequiredRole {
			return redirect(LandingPath)
		}
	}

	return allow()
}
