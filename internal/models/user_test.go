package models

import "testing"

func TestCanDecide(t *testing.T) {
	testCases := []struct {
		actor  string
		target string
		want   bool
	}{
		{RoleAdmin, RoleTeacher, true},
		{RoleAdmin, RoleParent, true},
		{RoleAdmin, RoleStudent, false},
		{RoleAdmin, RoleAdmin, false},
		{RoleTeacher, RoleParent, true},
		{RoleTeacher, RoleTeacher, false},
		{RoleTeacher, RoleStudent, false},
		{RoleParent, RoleParent, false},
		{RoleStudent, RoleParent, false},
	}

	for _, tc := range testCases {
		t.Run(tc.actor+"_"+tc.target, func(t *testing.T) {
			if got := CanDecide(tc.actor, tc.target); got != tc.want {
				t.Errorf("CanDecide(%s, %s) = %v, want %v", tc.actor, tc.target, got, tc.want)
			}
		})
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	u := &User{}
	if err := u.SetPassword("s3cret-pass"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if u.PasswordHash == "s3cret-pass" {
		t.Fatal("password stored in plain text")
	}
	if !u.CheckPassword("s3cret-pass") {
		t.Error("correct password rejected")
	}
	if u.CheckPassword("wrong") {
		t.Error("wrong password accepted")
	}
}

func TestDeletable(t *testing.T) {
	if Deletable(RoleAdmin) {
		t.Error("admin accounts must not be deletable")
	}
	for _, role := range []string{RoleStudent, RoleParent, RoleTeacher} {
		if !Deletable(role) {
			t.Errorf("%s accounts should be deletable", role)
		}
	}
}
