package task

import (
	"github.com/example/task-api/domain/user"
)

// Action is an operation an actor attempts on a task.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Actor is the authenticated caller of a task operation.
type Actor struct {
	ID   string    `json:"id"`
	Role user.Role `json:"role"`
}

// ActorFromUser builds an Actor from a resolved user.
func ActorFromUser(u *user.User) Actor {
	return Actor{ID: u.ID, Role: u.Role}
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == user.RoleAdmin
}

// Can reports whether actor may perform action on t.
// For ActionCreate, t is ignored and may be nil.
func Can(actor Actor, action Action, t *Task) bool {
	if actor.ID == "" {
		return false
	}

	switch action {
	case ActionCreate:
		return true
	case ActionView, ActionUpdate, ActionDelete:
		if t == nil {
			return false
		}
		return actor.ID == t.OwnerID || actor.IsAdmin()
	default:
		return false
	}
}

// Scope selects which tasks a list query returns.
type Scope struct {
	// All is set for admins; OwnerID is ignored when it is true.
	All     bool
	OwnerID string
}

// ListScope returns the list scope for actor.
func ListScope(actor Actor) Scope {
	if actor.IsAdmin() {
		return Scope{All: true}
	}
	return Scope{OwnerID: actor.ID}
}
