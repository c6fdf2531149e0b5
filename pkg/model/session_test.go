package model

import "testing"

func TestAuthState_Status(t *testing.T) {
	user := &User{ID: "1", Role: RoleViewer}
	tests := []struct {
		name  string
		state AuthState
		want  SessionStatus
	}{
		{"zero", AuthState{}, StatusAnonymous},
		{"loading wins", AuthState{Loading: true, IsAuthenticated: true, User: user, Token: "t"}, StatusPending},
		{"authenticated", AuthState{IsAuthenticated: true, User: user, Token: "t"}, StatusAuthenticated},
		{"error", AuthState{Error: "Invalid credentials"}, StatusError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.Status(); got != tt.want {
				t.Errorf("Status() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAuthState_CloneDoesNotShareUser(t *testing.T) {
	orig := AuthState{User: &User{ID: "1", Role: RoleEditor}}
	cp := orig.Clone()
	cp.User.Role = RoleAdmin
	if orig.User.Role != RoleEditor {
		t.Errorf("original role changed to %q", orig.User.Role)
	}
	if (AuthState{}).Role() != "" {
		t.Error("Role() of empty state should be empty")
	}
}

func TestAnyActive(t *testing.T) {
	done := []Ingestion{{Status: IngestionCompleted}, {Status: IngestionFailed}}
	if AnyActive(done) {
		t.Error("terminal ingestions reported active")
	}
	if !AnyActive(append(done, Ingestion{Status: IngestionProcessing})) {
		t.Error("processing ingestion not reported active")
	}
}
