// file: utils/jwt_test.go
package utils

import (
	"NovaCTF/config"
	"NovaCTF/models"
	"strings"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	config.Load()

	user := models.User{ID: 42, Username: "alice", Role: models.RoleAdmin}
	token, err := GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "alice" {
		t.Fatalf("claims = %d/%s, want 42/alice", claims.UserID, claims.Username)
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	config.Load()

	token, err := GenerateToken(models.User{ID: 1, Username: "bob"})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := ParseToken(tampered); err == nil {
		t.Fatal("tampered token accepted")
	}
}

func TestGenerateFlagShape(t *testing.T) {
	a := GenerateFlag()
	b := GenerateFlag()
	if !strings.HasPrefix(a, "nova{") || !strings.HasSuffix(a, "}") {
		t.Fatalf("unexpected flag shape: %s", a)
	}
	if a == b {
		t.Fatal("two generated flags collided")
	}
}
