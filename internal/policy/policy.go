// Package policy decides what an actor may do with tracks and playlists. Every rule is a
// pure function of the actor and the resource; nothing here touches storage.
package policy

import (
	"tunebox/internal/apperr"
	"tunebox/internal/models"
)

// Decision is the outcome of a policy check.
type Decision int

const (
	Allow Decision = iota
	// Deny means the actor can see the resource but may not act on it.
	Deny
	// Hide means the resource must be reported as absent.
	Hide
	// Unauthenticated means the action needs a logged-in actor.
	Unauthenticated
)

// Action names an operation on a resource.
type Action string

const (
	Read     Action = "read"
	Create   Action = "create"
	Update   Action = "update"
	Delete   Action = "delete"
	Upload   Action = "upload"
	Stream   Action = "stream"
	Favorite Action = "favorite"
	AddTrack Action = "add"
	Remove   Action = "remove"
)

// Actor is the caller of an operation. The zero value is an anonymous caller.
type Actor struct {
	ID      string
	IsStaff bool
}

// ActorFor returns the actor for an authenticated user, or the anonymous actor for nil.
func ActorFor(u *models.User) Actor {
	if u == nil {
		return Actor{}
	}
	return Actor{ID: u.ID, IsStaff: u.IsStaff}
}

// Authenticated reports whether the actor is logged in.
func (a Actor) Authenticated() bool { return a.ID != "" }

// Owns reports whether the actor is the owner identified by ownerID.
func (a Actor) Owns(ownerID string) bool { return a.Authenticated() && a.ID == ownerID }

// Track decides an action on a track. A nil track is used for collection actions.
func Track(a Actor, t *models.Track, action Action) Decision {
	switch action {
	case Read:
		if t != nil && !t.IsPublished && !a.IsStaff {
			return Hide
		}
		return Allow
	case Create, Update, Delete, Upload:
		if !a.Authenticated() {
			return Unauthenticated
		}
		if !a.IsStaff {
			return Deny
		}
		return Allow
	case Stream, Favorite:
		if !a.Authenticated() {
			return Unauthenticated
		}
		if t != nil && !t.IsPublished && !a.IsStaff {
			return Hide
		}
		return Allow
	default:
		return Deny
	}
}

// CanSeePlaylist reports whether p is visible to the actor.
func CanSeePlaylist(a Actor, p *models.Playlist) bool {
	return p.IsPublic || a.IsStaff || a.Owns(p.UserID)
}

// Playlist decides an action on a playlist. A nil playlist is used for list and create,
// which are always scoped to the actor's own playlists.
func Playlist(a Actor, p *models.Playlist, action Action) Decision {
	if !a.Authenticated() {
		return Unauthenticated
	}
	if p == nil {
		if action == Read || action == Create {
			return Allow
		}
		return Deny
	}

	visible := CanSeePlaylist(a, p)
	switch action {
	case Read:
		if !visible {
			return Hide
		}
		return Allow
	case Update, Delete:
		if !visible {
			return Hide
		}
		if !a.Owns(p.UserID) {
			return Deny
		}
		return Allow
	case AddTrack, Remove:
		if a.Owns(p.UserID) || a.IsStaff {
			return Allow
		}
		return Deny
	default:
		return Deny
	}
}

// Err converts a decision into the error callers return. entity names the resource in
// not-found messages.
func (d Decision) Err(entity string) error {
	switch d {
	case Allow:
		return nil
	case Hide:
		return apperr.NotFound("%s not found", entity)
	case Unauthenticated:
		return apperr.ErrUnauthorized
	default:
		return apperr.ErrForbidden
	}
}
