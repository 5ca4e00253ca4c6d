package models

import "testing"

func TestDisplayName(t *testing.T) {
	cases := []struct {
		user User
		want string
	}{
		{User{UserFname: "Ada", UserLname: "Wong", Username: "awong"}, "Ada Wong"},
		{User{UserFname: "Ada", Username: "awong"}, "Ada"},
		{User{UserLname: "Wong", Username: "awong"}, "Wong"},
		{User{Username: "awong"}, "awong"},
	}
	for _, tc := range cases {
		if got := tc.user.DisplayName(); got != tc.want {
			t.Errorf("DisplayName() = %q, want %q", got, tc.want)
		}
	}
}
