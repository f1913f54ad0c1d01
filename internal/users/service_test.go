package users

import (
	"testing"

	"github.com/dEvAshirvad/clashers-academy-backend/internal/models"
)

func TestValidateRegister(t *testing.T) {
	tests := []struct {
		name       string
		req        models.RegisterRequest
		wantFields []string
	}{
		{
			name: "valid",
			req:  models.RegisterRequest{Email: "jane@example.com", Password: "secret1", Role: models.RoleStudent},
		},
		{
			name:       "bad email",
			req:        models.RegisterRequest{Email: "not-an-email", Password: "secret1"},
			wantFields: []string{"email"},
		},
		{
			name:       "short password",
			req:        models.RegisterRequest{Email: "jane@example.com", Password: "abc"},
			wantFields: []string{"password"},
		},
		{
			name:       "unknown role",
			req:        models.RegisterRequest{Email: "jane@example.com", Password: "secret1", Role: "admin"},
			wantFields: []string{"role"},
		},
		{
			name:       "issues accumulate",
			req:        models.RegisterRequest{Email: "nope", Password: "a", Role: "admin"},
			wantFields: []string{"email", "password", "role"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := validateRegister(tt.req)
			if len(issues) != len(tt.wantFields) {
				t.Fatalf("got %d issues %v, want %d", len(issues), issues, len(tt.wantFields))
			}
			for i, f := range tt.wantFields {
				if issues[i].Field != f {
					t.Errorf("issue %d field = %q, want %q", i, issues[i].Field, f)
				}
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := normalizeEmail("  Jane@Example.COM "); got != "jane@example.com" {
		t.Errorf("normalizeEmail = %q", got)
	}
}

func TestProfileRegistryRejectsUnknownRole(t *testing.T) {
	registry := NewProfileRegistry(nil)

	for _, role := range []models.UserRole{models.RoleStudent, models.RoleMentor, models.RoleInstitute} {
		if _, err := registry.For(role); err != nil {
			t.Errorf("For(%s): %v", role, err)
		}
	}
	if _, err := registry.For("admin"); err == nil {
		t.Error("For(admin) should fail")
	}
}

func TestFilterFieldsDropsDisallowedKeys(t *testing.T) {
	var upd struct {
		Bio    *string  `json:"bio"`
		Awards []string `json:"awards"`
	}
	fields := map[string]interface{}{
		"bio":       "hello",
		"awards":    []interface{}{"gold"},
		"isDeleted": true,
		"userId":    "11111111-1111-1111-1111-111111111111",
	}
	if err := filterFields(fields, &upd, "bio", "awards"); err != nil {
		t.Fatalf("filterFields: %v", err)
	}
	if upd.Bio == nil || *upd.Bio != "hello" {
		t.Errorf("bio = %v, want hello", upd.Bio)
	}
	if len(upd.Awards) != 1 || upd.Awards[0] != "gold" {
		t.Errorf("awards = %v", upd.Awards)
	}
}

func TestFilterFieldsRejectsWrongTypes(t *testing.T) {
	var upd struct {
		TargetYear *int `json:"targetYear"`
	}
	fields := map[string]interface{}{"targetYear": "next year"}
	if err := filterFields(fields, &upd, "targetYear"); err == nil {
		t.Error("expected an error for a non-numeric targetYear")
	}
}
