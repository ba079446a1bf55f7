package service

import (
	"errors"
	"testing"

	"github.com/filedrive/filedrive/internal/model"
)

func TestResolveFailsClosed(t *testing.T) {
	svc := NewIdentityService(newFakeUserRepo())

	_, err := svc.Resolve("")
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("empty token: expected ErrUnauthenticated, got %v", err)
	}

	_, err = svc.Resolve("token|unknown")
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("unknown user: expected ErrUnauthenticated, got %v", err)
	}
}

func TestCreateAndResolveUser(t *testing.T) {
	svc := NewIdentityService(newFakeUserRepo())

	created, err := svc.CreateUser("token|u1", "Ada", "https://img.example.com/ada.png")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	resolved, err := svc.Resolve("token|u1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.ID != created.ID || resolved.Name != "Ada" {
		t.Fatalf("resolved user mismatch: %+v", resolved)
	}
}

func TestCreateUserReplayIsIdempotent(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewIdentityService(repo)

	first, err := svc.CreateUser("token|u1", "Ada", "")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	// Provider webhooks redeliver; the replay resolves to the same user
	second, err := svc.CreateUser("token|u1", "Ada", "")
	if err != nil {
		t.Fatalf("replayed CreateUser: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("replay created a second user: %s != %s", second.ID, first.ID)
	}
}

func TestUpdateUser(t *testing.T) {
	svc := NewIdentityService(newFakeUserRepo())

	_, err := svc.CreateUser("token|u1", "Ada", "old.png")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	err = svc.UpdateUser("token|u1", "Ada Lovelace", "new.png")
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	user, err := svc.Resolve("token|u1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if user.Name != "Ada Lovelace" || user.Image != "new.png" {
		t.Fatalf("profile not updated: %+v", user)
	}

	err = svc.UpdateUser("token|unknown", "x", "y")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddOrgMembership(t *testing.T) {
	svc := NewIdentityService(newFakeUserRepo())

	_, err := svc.CreateUser("token|u1", "Ada", "")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	err = svc.AddOrgMembership("token|u1", "org-acme", "")
	if err != nil {
		t.Fatalf("AddOrgMembership: %v", err)
	}

	user, _ := svc.Resolve("token|u1")
	m := user.Membership("org-acme")
	if m == nil || m.Role != model.RoleMember {
		t.Fatalf("expected member role by default, got %+v", m)
	}

	// Replayed grant is a no-op
	err = svc.AddOrgMembership("token|u1", "org-acme", model.RoleAdmin)
	if err != nil {
		t.Fatalf("replayed AddOrgMembership: %v", err)
	}
	user, _ = svc.Resolve("token|u1")
	if got := user.Membership("org-acme").Role; got != model.RoleMember {
		t.Fatalf("replay must not change the role, got %s", got)
	}

	err = svc.AddOrgMembership("token|u1", "org-x", "owner")
	if !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestSetOrgRole(t *testing.T) {
	svc := NewIdentityService(newFakeUserRepo())

	_, err := svc.CreateUser("token|u1", "Ada", "")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	err = svc.AddOrgMembership("token|u1", "org-acme", model.RoleMember)
	if err != nil {
		t.Fatalf("AddOrgMembership: %v", err)
	}

	err = svc.SetOrgRole("token|u1", "org-acme", model.RoleAdmin)
	if err != nil {
		t.Fatalf("SetOrgRole: %v", err)
	}
	user, _ := svc.Resolve("token|u1")
	if got := user.Membership("org-acme").Role; got != model.RoleAdmin {
		t.Fatalf("role = %s, want admin", got)
	}

	err = svc.SetOrgRole("token|u1", "org-unknown", model.RoleAdmin)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing membership, got %v", err)
	}
}
