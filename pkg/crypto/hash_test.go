package crypto

import (
	"strings"
	"testing"
)

// TestHashPassword проверяет базовое хеширование пароля
func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"unicode password", "пароль123"},
		{"long password", strings.Repeat("a", 70)}, // близко к лимиту 72
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			if err != nil {
				t.Fatalf("HashPassword failed: %v", err)
			}

			if hash == "" {
				t.Error("Hash should not be empty")
			}

			// bcrypt prefix
			if !strings.HasPrefix(hash, "$2a$") && !strings.HasPrefix(hash, "$2b$") {
				t.Errorf("Hash should start with bcrypt prefix, got: %s", hash[:10])
			}

			if hash == tt.password {
				t.Error("Hash should not equal password")
			}
		})
	}
}

// TestHashPasswordEmptyError проверяет ошибку при пустом пароле
func TestHashPasswordEmptyError(t *testing.T) {
	_, err := HashPassword("")
	if err != ErrEmptyPassword {
		t.Errorf("HashPassword empty: got error %v, want %v", err, ErrEmptyPassword)
	}
}

// TestHashPasswordTooLong проверяет ошибку при слишком длинном пароле
func TestHashPasswordTooLong(t *testing.T) {
	longPassword := strings.Repeat("a", 73) // больше 72 байт
	_, err := HashPassword(longPassword)
	if err != ErrPasswordTooLong {
		t.Errorf("HashPassword too long: got error %v, want %v", err, ErrPasswordTooLong)
	}
}

// TestHashPasswordDifferentHashes проверяет что каждый хеш уникален (разный salt)
func TestHashPasswordDifferentHashes(t *testing.T) {
	password := "samepassword"

	hash1, _ := HashPassword(password)
	hash2, _ := HashPassword(password)

	if hash1 == hash2 {
		t.Error("Two hashes of the same password should be different (different salts)")
	}
}

// TestVerifyPassword проверяет сверку пароля с хешем
func TestVerifyPassword(t *testing.T) {
	password := "admin-panel-password"
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if err := VerifyPassword(password, hash); err != nil {
		t.Errorf("correct password: got error %v", err)
	}

	if err := VerifyPassword("wrong-password", hash); err != ErrPasswordMismatch {
		t.Errorf("wrong password: got error %v, want %v", err, ErrPasswordMismatch)
	}

	if err := VerifyPassword("", hash); err != ErrEmptyPassword {
		t.Errorf("empty password: got error %v, want %v", err, ErrEmptyPassword)
	}

	if err := VerifyPassword(password, ""); err != ErrInvalidHash {
		t.Errorf("empty hash: got error %v, want %v", err, ErrInvalidHash)
	}

	if err := VerifyPassword(password, "not-a-bcrypt-hash"); err != ErrInvalidHash {
		t.Errorf("invalid hash: got error %v, want %v", err, ErrInvalidHash)
	}
}

// TestCheckPasswordMatch проверяет булеву обёртку для Basic auth
func TestCheckPasswordMatch(t *testing.T) {
	password := "admin-panel-password"
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if !CheckPasswordMatch(password, hash) {
		t.Error("CheckPasswordMatch should return true for the correct password")
	}
	if CheckPasswordMatch("wrong", hash) {
		t.Error("CheckPasswordMatch should return false for a wrong password")
	}
	if CheckPasswordMatch(password, "garbage") {
		t.Error("CheckPasswordMatch should return false for an invalid hash")
	}
}
