package auth

import "github.com/sharath018/eventify-backend/internal/apperr"

// Guards shared by every resource. Each returns nil when access is allowed.

func RequireActive(u *User) error {
	if u == nil {
		return apperr.ErrUnauthenticated
	}
	if !u.IsActive {
		return apperr.ErrAccountDisabled
	}
	return nil
}

func HasRole(role string, allowed ...string) bool {
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}

func RequireRole(u *User, roles ...string) error {
	if err := RequireActive(u); err != nil {
		return err
	}
	if !HasRole(u.Role, roles...) {
		return apperr.ErrForbidden
	}
	return nil
}

func RequireAdmin(u *User) error {
	return RequireRole(u, RoleAdmin)
}

func RequireOrganizerOrAdmin(u *User) error {
	if err := RequireRole(u, RoleOrganizer, RoleAdmin); err != nil {
		if apperr.KindOf(err) == apperr.KindForbidden {
			return apperr.Forbidden("Only organizers and admins can perform this action")
		}
		return err
	}
	return nil
}

// RequireOwnerOrAdmin allows the owner of a resource or any admin. action
// completes the message, e.g. "update this event".
func RequireOwnerOrAdmin(u *User, ownerID uint, action string) error {
	if err := RequireActive(u); err != nil {
		return err
	}
	if u.ID == ownerID || u.IsAdmin() {
		return nil
	}
	return apperr.Forbidden("Not authorized to " + action)
}
