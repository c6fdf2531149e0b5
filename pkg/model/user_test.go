package model

import "testing"

func TestIsAdmin(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleAdmin, true},
		{RoleEditor, false},
		{RoleViewer, false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsAdmin(tt.role); got != tt.want {
			t.Errorf("IsAdmin(%q) = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestIsEditor(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleAdmin, true},
		{RoleEditor, true},
		{RoleViewer, false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsEditor(tt.role); got != tt.want {
			t.Errorf("IsEditor(%q) = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestRole_Satisfies(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		required Role
		want     bool
	}{
		{"no requirement viewer", RoleViewer, "", true},
		{"admin gate admin", RoleAdmin, RoleAdmin, true},
		{"admin gate editor", RoleEditor, RoleAdmin, false},
		{"admin gate viewer", RoleViewer, RoleAdmin, false},
		{"editor gate admin", RoleAdmin, RoleEditor, true},
		{"editor gate editor", RoleEditor, RoleEditor, true},
		{"editor gate viewer", RoleViewer, RoleEditor, false},
		{"viewer gate viewer", RoleViewer, RoleViewer, true},
		{"viewer gate admin", RoleAdmin, RoleViewer, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.role.Satisfies(tt.required); got != tt.want {
				t.Errorf("%q.Satisfies(%q) = %v, want %v", tt.role, tt.required, got, tt.want)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in     string
		want   Role
		wantOK bool
	}{
		{"admin", RoleAdmin, true},
		{"editor", RoleEditor, true},
		{"viewer", RoleViewer, true},
		{"superuser", RoleViewer, false},
		{"ADMIN", RoleViewer, false},
		{"", RoleViewer, false},
	}
	for _, tt := range tests {
		got, ok := ParseRole(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseRole(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestUser_NilSafe(t *testing.T) {
	var u *User
	if u.IsAdmin() || u.IsEditor() {
		t.Error("nil user must not be admin or editor")
	}
}
