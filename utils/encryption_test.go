package utils

import (
	"testing"

	"outreachly/config"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	config.AppConfig.EncryptionKey = "0123456789abcdef0123456789abcdef"

	secret := "smtp-app-password"
	encrypted, err := Encrypt(secret)
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	if encrypted == secret {
		t.Fatal("ciphertext must differ from plaintext")
	}

	decrypted, err := Decrypt(encrypted)
	if err != nil {
		t.Fatalf("decrypt failed: %v", err)
	}
	if decrypted != secret {
		t.Errorf("round trip mismatch: got %q", decrypted)
	}
}

func TestEncryptEmptyString(t *testing.T) {
	config.AppConfig.EncryptionKey = "0123456789abcdef0123456789abcdef"

	encrypted, err := Encrypt("")
	if err != nil || encrypted != "" {
		t.Errorf("empty plaintext should stay empty, got %q err %v", encrypted, err)
	}
	decrypted, err := Decrypt("")
	if err != nil || decrypted != "" {
		t.Errorf("empty ciphertext should stay empty, got %q err %v", decrypted, err)
	}
}

func TestDecryptGarbage(t *testing.T) {
	config.AppConfig.EncryptionKey = "0123456789abcdef0123456789abcdef"

	if _, err := Decrypt("AAAA"); err == nil {
		t.Error("short ciphertext should error")
	}
}
