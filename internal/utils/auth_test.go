package utils

import "testing"

func TestHashPassword_RoundTrips(t *testing.T) {
	hashed, err := HashPassword("supersecret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hashed == "supersecret" {
		t.Fatalf("password stored in the clear")
	}
	if err := VerifyPassword(hashed, "supersecret"); err != nil {
		t.Fatalf("verify correct password: %v", err)
	}
	if err := VerifyPassword(hashed, "wrongpassword"); err == nil {
		t.Fatalf("expected mismatch error")
	}
}

func TestNormalizeUsername_LowersAndTrims(t *testing.T) {
	if got := NormalizeUsername("  Alice "); got != "alice" {
		t.Fatalf("got %q", got)
	}
}

func TestValidateRegistration(t *testing.T) {
	cases := []struct {
		name     string
		username string
		email    string
		password string
		wantErr  bool
	}{
		{"valid", "alice", "alice@example.com", "supersecret", false},
		{"blank username", "  ", "alice@example.com", "supersecret", true},
		{"no at sign", "alice", "alice.example.com", "supersecret", true},
		{"no domain dot", "alice", "alice@example", "supersecret", true},
		{"whitespace in email", "alice", "al ice@example.com", "supersecret", true},
		{"short password", "alice", "alice@example.com", "seven77", true},
		{"eight char password", "alice", "alice@example.com", "eight888", false},
	}
	for _, tc := range cases {
		err := ValidateRegistration(tc.username, tc.email, tc.password)
		if tc.wantErr && err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !tc.wantErr && err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
	}
}

func TestValidateLogin(t *testing.T) {
	if err := ValidateLogin("alice", "pw"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateLogin("", "pw"); err == nil {
		t.Fatalf("expected username error")
	}
	if err := ValidateLogin("alice", ""); err == nil {
		t.Fatalf("expected password error")
	}
}
