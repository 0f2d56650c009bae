// Package policy decides whether an actor may perform an action on a
// resource. It performs no I/O; callers load ownership and existence first.
package policy

import (
	"github.com/nsxzhou1114/restaurant-api/internal/apperror"
	"github.com/nsxzhou1114/restaurant-api/internal/model"
)

// Action guarded operation
type Action string

const (
	ActionRestaurantCreate Action = "restaurant:create"
	ActionRestaurantUpdate Action = "restaurant:update"
	ActionRestaurantDelete Action = "restaurant:delete"
	ActionReviewCreate     Action = "review:create"
	ActionFavoriteCreate   Action = "favorite:create"
	ActionFavoriteDelete   Action = "favorite:delete"
	ActionNotificationRead Action = "notification:read"
	ActionCategoryManage   Action = "category:manage"
	ActionUserDelete       Action = "user:delete"
	// owner-only operations on tea-like resources, no admin override
	ActionOwnedUpdate Action = "owned:update"
	ActionOwnedDelete Action = "owned:delete"
)

// Actor authenticated caller
type Actor struct {
	ID   uint
	Role model.Role
}

// Anonymous reports whether the actor is unauthenticated
func (a Actor) Anonymous() bool {
	return a.ID == 0
}

// Resource what the action targets. OwnerID is the owning user, Exists
// whether a conflicting or target row is present.
type Resource struct {
	OwnerID uint
	Exists  bool
}

// Decision authorization outcome
type Decision struct {
	Allowed bool
	Kind    apperror.Kind
	Reason  string
}

// Err returns nil when allowed, otherwise a typed error
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return apperror.New(d.Kind, d.Reason, nil)
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(kind apperror.Kind, reason string) Decision {
	return Decision{Kind: kind, Reason: reason}
}

// Authorize evaluates action for actor against resource
func Authorize(actor Actor, action Action, res Resource) Decision {
	if actor.Anonymous() {
		return deny(apperror.KindUnauthorized, "authentication required")
	}

	switch action {
	case ActionRestaurantCreate:
		if actor.Role == model.RoleRestaurantOwner || actor.Role == model.RoleAdmin {
			return allow()
		}
		return deny(apperror.KindForbidden, "only restaurant owners or admins can create restaurants")

	case ActionRestaurantUpdate, ActionRestaurantDelete:
		if actor.ID == res.OwnerID || actor.Role == model.RoleAdmin {
			return allow()
		}
		return deny(apperror.KindForbidden, "forbidden")

	case ActionReviewCreate:
		if res.Exists {
			return deny(apperror.KindConflict, "you have already reviewed this restaurant")
		}
		return allow()

	case ActionFavoriteCreate:
		if res.Exists {
			return deny(apperror.KindConflict, "restaurant already in favorites")
		}
		return allow()

	case ActionFavoriteDelete:
		if !res.Exists {
			return deny(apperror.KindNotFound, "favorite not found")
		}
		return allow()

	case ActionNotificationRead:
		if actor.ID == res.OwnerID {
			return allow()
		}
		return deny(apperror.KindForbidden, "forbidden")

	case ActionOwnedUpdate, ActionOwnedDelete:
		if actor.ID == res.OwnerID {
			return allow()
		}
		return deny(apperror.KindForbidden, "only the owner can modify this resource")

	case ActionCategoryManage, ActionUserDelete:
		if actor.Role == model.RoleAdmin {
			return allow()
		}
		return deny(apperror.KindForbidden, "admin privileges required")
	}

	return deny(apperror.KindForbidden, "unknown action")
}
