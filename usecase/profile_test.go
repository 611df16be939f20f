package usecase

import (
	"context"
	"testing"

	domainProfile "github.com/commentify/commentify/domains/profile"
)

func TestProfileServiceCreateAndList(t *testing.T) {
	svc := NewProfileService(newTestDB(t))
	ctx := context.Background()

	created, err := svc.Create(ctx, "user@example.com", domainProfile.CreateProfileRequest{
		Name:   "Main account",
		Cookie: testCookieExport,
	})
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if created.ID == "" {
		t.Fatal("Create() returned empty ID")
	}
	if created.Platform != domainProfile.PlatformInstagram {
		t.Fatalf("Create() platform = %q, want instagram default", created.Platform)
	}

	profiles, err := svc.List(ctx, "user@example.com", "")
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if len(profiles) != 1 || profiles[0].Name != "Main account" {
		t.Fatalf("List() = %+v", profiles)
	}
}

func TestProfileServiceCreateRejectsBadCookie(t *testing.T) {
	svc := NewProfileService(newTestDB(t))

	_, err := svc.Create(context.Background(), "user@example.com", domainProfile.CreateProfileRequest{
		Name:   "Broken",
		Cookie: `[{"name":"mid","value":"x"}]`,
	})
	if err == nil {
		t.Fatal("Create() accepted a cookie export without session tokens")
	}
}

func TestProfileServiceCreateRejectsBadProxy(t *testing.T) {
	svc := NewProfileService(newTestDB(t))

	_, err := svc.Create(context.Background(), "user@example.com", domainProfile.CreateProfileRequest{
		Name:   "Proxied",
		Cookie: testCookieExport,
		Proxy:  "proxy.example.com:8080",
	})
	if err == nil {
		t.Fatal("Create() accepted a malformed proxy descriptor")
	}
}

func TestProfileServiceScopedByUser(t *testing.T) {
	svc := NewProfileService(newTestDB(t))
	ctx := context.Background()

	created, err := svc.Create(ctx, "owner@example.com", domainProfile.CreateProfileRequest{
		Name:   "Owned",
		Cookie: testCookieExport,
	})
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	others, err := svc.List(ctx, "other@example.com", "")
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if len(others) != 0 {
		t.Fatalf("List() leaked %d profiles across users", len(others))
	}

	// cross-user delete must not remove the record
	if err := svc.Delete(ctx, "other@example.com", created.ID); err == nil {
		t.Fatal("Delete() for wrong user succeeded")
	}
	mine, _ := svc.List(ctx, "owner@example.com", "")
	if len(mine) != 1 {
		t.Fatalf("profile disappeared after cross-user delete attempt")
	}
}

func TestProfileServiceGetByIDsKeepsOrder(t *testing.T) {
	svc := NewProfileService(newTestDB(t))
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"a", "b", "c"} {
		p, err := svc.Create(ctx, "user@example.com", domainProfile.CreateProfileRequest{
			Name:   name,
			Cookie: testCookieExport,
		})
		if err != nil {
			t.Fatalf("Create(%s) unexpected error: %v", name, err)
		}
		ids = append(ids, p.ID)
	}

	reversed := []string{ids[2], ids[0]}
	got, err := svc.GetByIDs(ctx, "user@example.com", reversed)
	if err != nil {
		t.Fatalf("GetByIDs() unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Name != "c" || got[1].Name != "a" {
		t.Fatalf("GetByIDs() = %+v, want caller order", got)
	}
}

func TestProfileServiceDelete(t *testing.T) {
	svc := NewProfileService(newTestDB(t))
	ctx := context.Background()

	created, _ := svc.Create(ctx, "user@example.com", domainProfile.CreateProfileRequest{
		Name:   "Gone soon",
		Cookie: testCookieExport,
	})
	if err := svc.Delete(ctx, "user@example.com", created.ID); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}
	profiles, _ := svc.List(ctx, "user@example.com", "")
	if len(profiles) != 0 {
		t.Fatalf("List() after delete = %+v", profiles)
	}
}
