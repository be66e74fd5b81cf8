package utils

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HarshitSharma-h8/messmate/models"
)

func testUser(t *testing.T) *models.User {
	t.Helper()
	u, err := models.NewStudent("Anu", "21CS042", "anu@example.com", "9000000001", "hash", models.GenderFemale, primitive.NewObjectID(), "CS", 3)
	if err != nil {
		t.Fatalf("new student: %v", err)
	}
	return u
}

func TestJWTRoundTrip(t *testing.T) {
	m, err := NewJWTManager("secret", time.Hour)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	u := testUser(t)

	token, err := m.Generate(u)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if claims.Subject != u.ID.Hex() {
		t.Errorf("subject = %q, want %s", claims.Subject, u.ID.Hex())
	}
	if claims.Role != models.RoleStudent {
		t.Errorf("role = %q, want STUDENT", claims.Role)
	}
	if claims.MessID != u.MessID.Hex() {
		t.Errorf("mess = %q, want %s", claims.MessID, u.MessID.Hex())
	}
	if claims.Degree != "CS" || claims.Semester != 3 {
		t.Errorf("class = %q/%d, want CS/3", claims.Degree, claims.Semester)
	}
}

func TestJWTWrongSecret(t *testing.T) {
	signer, _ := NewJWTManager("secret-a", time.Hour)
	verifier, _ := NewJWTManager("secret-b", time.Hour)

	token, err := signer.Generate(testUser(t))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := verifier.Parse(token); err == nil {
		t.Fatal("token signed with a different secret parsed successfully")
	}
}

func TestJWTExpired(t *testing.T) {
	m, _ := NewJWTManager("secret", -time.Minute)

	token, err := m.Generate(testUser(t))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := m.Parse(token); err == nil {
		t.Fatal("expired token parsed successfully")
	}
}

func TestJWTEmptySecret(t *testing.T) {
	if _, err := NewJWTManager("", time.Hour); err == nil {
		t.Fatal("empty secret accepted")
	}
}
