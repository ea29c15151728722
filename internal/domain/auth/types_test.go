package auth

import "testing"

func TestSnapshot_StripsTransientFields(t *testing.T) {
	sess := Session{
		Record: Record{
			UID:          "u-1",
			Username:     "Maria",
			Email:        "maria@unimet.edu.ve",
			Phone:        "+58-424-0000000",
			ProfileImage: "https://img.example/m.png",
			Role:         RoleGuide,
		},
		AuthHandle:   &Credential{ID: "u-1", Email: "maria@unimet.edu.ve"},
		DirectoryRef: "rec-9",
	}

	snap := sess.Snapshot()
	back := SessionFromSnapshot(snap)

	if back.AuthHandle != nil {
		t.Fatalf("expected no auth handle after round-trip")
	}
	if back.DirectoryRef != "" {
		t.Fatalf("expected no directory ref after round-trip")
	}
	if back.Record != sess.Record {
		t.Fatalf("attributes changed across round-trip: %+v != %+v", back.Record, sess.Record)
	}
}

func TestRole_Valid(t *testing.T) {
	for _, r := range []Role{RoleStudent, RoleAdmin, RoleGuide} {
		if !r.Valid() {
			t.Fatalf("role %q should be valid", r)
		}
	}
	if Role("owner").Valid() {
		t.Fatalf("unknown role accepted")
	}
}

func TestSession_CanEditProfile(t *testing.T) {
	if (Session{Record: Record{Provider: ProviderGoogle}}).CanEditProfile() {
		t.Fatalf("federated principal must not edit its profile")
	}
	if !(Session{}).CanEditProfile() {
		t.Fatalf("native principal should edit its profile")
	}
}
