package models

import "testing"

func TestUser_DisplayName(t *testing.T) {
	tests := []struct {
		name     string
		user     User
		expected string
	}{
		{"name wins", User{Sub: "s1", Email: "a@b.c", Name: "Ada"}, "Ada"},
		{"email fallback", User{Sub: "s1", Email: "a@b.c"}, "a@b.c"},
		{"sub fallback", User{Sub: "s1"}, "s1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.DisplayName(); got != tt.expected {
				t.Errorf("DisplayName() = %q, want %q", got, tt.expected)
			}
		})
	}
}
