package services_test

import (
	"testing"

	"budgetapp/models"
	"budgetapp/services"
)

func TestCanMutateTransaction(t *testing.T) {
	cases := []struct {
		name      string
		role      string
		author    string
		requester string
		want      bool
	}{
		{"owner edits own", models.RoleOwner, "u1", "u1", true},
		{"owner edits other's", models.RoleOwner, "u2", "u1", true},
		{"contributor edits own", models.RoleContributor, "u1", "u1", true},
		{"contributor edits other's", models.RoleContributor, "u2", "u1", false},
		{"unknown role", "viewer", "u1", "u1", false},
		{"empty role", "", "u1", "u1", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := services.CanMutateTransaction(tc.role, tc.author, tc.requester)
			if got != tc.want {
				t.Errorf("CanMutateTransaction(%q, %q, %q) = %v, want %v",
					tc.role, tc.author, tc.requester, got, tc.want)
			}
		})
	}
}
