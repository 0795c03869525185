package service

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashAndVerify(t *testing.T) {
	svc := NewPasswordService(bcrypt.MinCost)

	hash, err := svc.Hash("Some$ecret123pass")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "Some$ecret123pass" {
		t.Fatal("hash equals plaintext")
	}

	ok, err := svc.Verify(hash, "Some$ecret123pass")
	if err != nil || !ok {
		t.Fatalf("Verify(correct) = %v, %v", ok, err)
	}

	ok, err = svc.Verify(hash, "wrong-password")
	if err != nil {
		t.Fatalf("a plain mismatch must not be an error, got %v", err)
	}
	if ok {
		t.Fatal("wrong password verified")
	}
}

func TestPasswordVerifyMalformedHash(t *testing.T) {
	svc := NewPasswordService(bcrypt.MinCost)

	ok, err := svc.Verify("not-a-bcrypt-hash", "anything")
	if ok {
		t.Fatal("verification succeeded against garbage hash")
	}
	if err == nil {
		t.Fatal("a malformed stored hash must surface as an error")
	}
}

func TestPasswordHashesAreSalted(t *testing.T) {
	svc := NewPasswordService(bcrypt.MinCost)

	first, err := svc.Hash("Some$ecret123pass")
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Hash("Some$ecret123pass")
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Fatal("two hashes of the same password are identical")
	}
}

func TestPasswordServiceBoundsCost(t *testing.T) {
	// Out-of-range costs fall back to the bcrypt default instead of
	// failing at hash time.
	svc := NewPasswordService(99)

	hash, err := svc.Hash("Some$ecret123pass")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("unexpected hash format %q", hash)
	}
}
