package view

import "testing"

func TestFromPath(t *testing.T) {
	cases := []struct {
		path       string
		want       View
		normalized bool
	}{
		{"/", Home, false},
		{"", Home, false},
		{"/register", Register, false},
		{"/editProfile", EditProfile, false},
		{"/login", Login, false},
		{"/aboutUs", AboutUs, false},
		{"/blogGuide", BlogGuide, false},
		{"/blogGuide/article-3", BlogGuide, false},
		{"/unknown", Home, true},
		{"/admin/panel", Home, true},
	}
	for _, tc := range cases {
		got, display, normalized := FromPath(tc.path)
		if got != tc.want {
			t.Fatalf("FromPath(%q) = %q, want %q", tc.path, got, tc.want)
		}
		if normalized != tc.normalized {
			t.Fatalf("FromPath(%q) normalized = %v, want %v", tc.path, normalized, tc.normalized)
		}
		if normalized && display != "/" {
			t.Fatalf("FromPath(%q) display = %q, want /", tc.path, display)
		}
	}
}

func TestView_Valid(t *testing.T) {
	for _, v := range []View{Home, Register, EditProfile, Login, AboutUs, BlogGuide} {
		if !v.Valid() {
			t.Fatalf("view %q should be valid", v)
		}
	}
	if View("dashboard").Valid() {
		t.Fatalf("unknown view accepted")
	}
}
