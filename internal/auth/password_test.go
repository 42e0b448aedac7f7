package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_Hash(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid password", "password123", false},
		{"empty password", "", false},
		{"long password", "a" + string(make([]byte, 70)), false}, // bcrypt max is 72 bytes
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := h.Hash(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("Hash() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && hash == "" {
				t.Error("Hash() returned empty hash")
			}
		})
	}
}

func TestPasswordHasher_DifferentHashes(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	hash1, _ := h.Hash("testpassword")
	hash2, _ := h.Hash("testpassword")

	if hash1 == hash2 {
		t.Error("Hash() should produce different hashes for same password")
	}
	for _, hash := range []string{hash1, hash2} {
		ok, err := h.Verify(hash, "testpassword")
		if err != nil || !ok {
			t.Errorf("Verify() = (%v, %v), want (true, nil)", ok, err)
		}
	}
}

func TestPasswordHasher_Verify(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	password := "testpassword123"
	hash, err := h.Hash(password)
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	tests := []struct {
		name     string
		hash     string
		password string
		want     bool
		wantErr  bool
	}{
		{"correct password", hash, password, true, false},
		{"wrong password", hash, "wrongpassword", false, false},
		{"empty password", hash, "", false, false},
		{"malformed hash", "not-a-bcrypt-hash", password, false, true},
		{"empty hash", "", password, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := h.Verify(tt.hash, tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("Verify() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("Verify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewPasswordHasher_CostClamped(t *testing.T) {
	// Out-of-range costs fall back to the bcrypt default instead of failing later.
	for _, cost := range []int{-1, 0, 100} {
		h := NewPasswordHasher(cost)
		if h.cost != bcrypt.DefaultCost {
			t.Errorf("NewPasswordHasher(%d) cost = %d, want %d", cost, h.cost, bcrypt.DefaultCost)
		}
	}
}
