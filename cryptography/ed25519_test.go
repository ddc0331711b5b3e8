package cryptography

import "testing"

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestDeriveIdentityIsDeterministic(t *testing.T) {
	first, err := DeriveIdentity(testMnemonic, "", nil)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	second, err := DeriveIdentity(testMnemonic, "", DefaultDerivePath)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if first.PubKey != second.PubKey {
		t.Fatalf("same mnemonic and path gave %s and %s", first.PubKey, second.PubKey)
	}
	if !IsValidPubKey(first.PubKey) {
		t.Fatalf("pubkey %q is not a 32 byte base58 key", first.PubKey)
	}
}

func TestDeriveIdentityDiffersByPath(t *testing.T) {
	a, err := DeriveIdentity(testMnemonic, "", []uint32{44, 420, 0, 0})
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	b, err := DeriveIdentity(testMnemonic, "", []uint32{44, 420, 0, 1})
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if a.PubKey == b.PubKey {
		t.Fatalf("different paths produced the same key")
	}
}

func TestDeriveIdentityGeneratesMnemonic(t *testing.T) {
	id, err := DeriveIdentity("", "", nil)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if id.Mnemonic == "" {
		t.Fatalf("expected a generated mnemonic")
	}
}

func TestDeriveIdentityRejectsInvalidMnemonic(t *testing.T) {
	if _, err := DeriveIdentity("not a real mnemonic phrase", "", nil); err == nil {
		t.Fatalf("expected an error for an invalid mnemonic")
	}
}

func TestSignAndVerify(t *testing.T) {
	id, err := DeriveIdentity(testMnemonic, "", nil)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	sig := id.Sign("record-payload")
	if !VerifySignature("record-payload", id.PubKey, sig) {
		t.Fatalf("signature did not verify")
	}
	if VerifySignature("tampered-payload", id.PubKey, sig) {
		t.Fatalf("signature verified for a different message")
	}
	if VerifySignature("record-payload", "short", sig) {
		t.Fatalf("signature verified against an invalid key")
	}
}
