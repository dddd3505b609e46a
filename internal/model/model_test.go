package model

import "testing"

func TestRoleAtLeast(t *testing.T) {
	tests := []struct {
		role     string
		minimum  string
		expected bool
	}{
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleCoordinator, true},
		{RoleAdmin, RoleField, true},
		{RoleCoordinator, RoleAdmin, false},
		{RoleCoordinator, RoleCoordinator, true},
		{RoleCoordinator, RoleField, true},
		{RoleField, RoleAdmin, false},
		{RoleField, RoleCoordinator, false},
		{RoleField, RoleField, true},
		// Unknown roles fail-closed.
		{"unknown", RoleField, false},
		{RoleAdmin, "unknown", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got := RoleAtLeast(tt.role, tt.minimum)
		if got != tt.expected {
			t.Errorf("RoleAtLeast(%q, %q) = %v, want %v", tt.role, tt.minimum, got, tt.expected)
		}
	}
}

func TestValidReturnDecision(t *testing.T) {
	tests := []struct {
		status   string
		expected bool
	}{
		{ReturnStatusReturned, true},
		{ReturnStatusOnHold, true},
		{ReturnStatusRejected, true},
		// Pending is a creation state, not a reviewer decision.
		{ReturnStatusPending, false},
		{"", false},
		{"approved", false},
	}

	for _, tt := range tests {
		if got := ValidReturnDecision(tt.status); got != tt.expected {
			t.Errorf("ValidReturnDecision(%q) = %v, want %v", tt.status, got, tt.expected)
		}
	}
}

func TestLoanOpen(t *testing.T) {
	loan := AssetLoanRecord{}
	if !loan.Open() {
		t.Error("loan without returned_at should be open")
	}

	now := loan.BorrowedAt
	loan.ReturnedAt = &now
	if loan.Open() {
		t.Error("loan with returned_at should be closed")
	}
}
