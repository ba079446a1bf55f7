package model

import (
	"time"
)

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// OrgMembership links a user to an organization with a role.
// Memberships are ordered by join time.
type OrgMembership struct {
	OrgID     string    `db:"org_id"`
	Role      string    `db:"role"`
	CreatedAt time.Time `db:"created_at"`
}

type User struct {
	ID            string    `db:"id"`
	ExternalToken string    `db:"external_token"` // Identity provider token, unique and immutable
	Name          string    `db:"name"`
	Image         string    `db:"image"`
	CreatedAt     time.Time `db:"created_at"`

	// Loaded alongside the user, not a column
	Memberships []OrgMembership `db:"-"`
}

// Membership returns the user's membership in orgID, or nil.
func (u *User) Membership(orgID string) *OrgMembership {
	for i := range u.Memberships {
		if u.Memberships[i].OrgID == orgID {
			return &u.Memberships[i]
		}
	}
	return nil
}
