// Package access holds the pure authorization predicates for org and file
// operations. Every decision is derived from the user record passed in, never
// from cached state, so membership changes take effect on the next request.
package access

import (
	"github.com/filedrive/filedrive/internal/model"
)

// CanAccessOrg reports whether user may operate within orgID. An org context
// is accessible when it is the user's personal workspace (their id), the
// legacy personal alias (their external token), or an org they are a member
// of. The two personal branches are exact equality checks on purpose:
// substring matching would grant access across unrelated ids.
func CanAccessOrg(user *model.User, orgID string) bool {
	if user == nil || orgID == "" {
		return false
	}
	if orgID == user.ID {
		return true
	}
	if orgID == user.ExternalToken {
		return true
	}
	return user.Membership(orgID) != nil
}

// CanAccessFile reports whether user may see file. A file in an org the user
// cannot access is indistinguishable from a missing file to callers.
func CanAccessFile(user *model.User, file *model.File) bool {
	if file == nil {
		return false
	}
	return CanAccessOrg(user, file.OrgID)
}

// CanDeleteOrRestore reports whether user may soft-delete or restore file.
// The same rule governs both transitions so a user who can delete can always
// undo it. Owners may always act on their own files; org admins may act on
// any file in their org.
func CanDeleteOrRestore(user *model.User, file *model.File) bool {
	if user == nil || file == nil {
		return false
	}
	if file.OwnerID == user.ID {
		return true
	}
	m := user.Membership(file.OrgID)
	return m != nil && m.Role == model.RoleAdmin
}
