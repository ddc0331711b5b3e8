package cryptography

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"

	"github.com/btcsuite/btcutil/base58"
	"github.com/tyler-smith/go-bip32"
	"github.com/tyler-smith/go-bip39"
)

// DefaultDerivePath is m/44'/420'/0'/0' (hardened), 420 being the gateway chain id.
var DefaultDerivePath = []uint32{44, 420, 0, 0}

// Identity is the keypair the gateway signs its invocation journal with.
type Identity struct {
	Mnemonic  string
	Bip44Path []uint32
	PubKey    string // base58 of the raw 32 byte key
	private   ed25519.PrivateKey
}

// DeriveIdentity derives the keypair from a bip39 mnemonic along a hardened bip32 path.
// An empty mnemonic generates a fresh 24-word one, so the identity is ephemeral.
func DeriveIdentity(mnemonic, mnemonicPassword string, bip44DerivePath []uint32) (*Identity, error) {

	if mnemonic == "" {
		entropy, err := bip39.NewEntropy(256)
		if err != nil {
			return nil, err
		}
		if mnemonic, err = bip39.NewMnemonic(entropy); err != nil {
			return nil, err
		}
	}

	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, errors.New("invalid bip39 mnemonic")
	}

	seed := bip39.NewSeed(mnemonic, mnemonicPassword)

	masterPrivateKey, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, err
	}

	if len(bip44DerivePath) == 0 {
		bip44DerivePath = DefaultDerivePath
	}

	childKey := masterPrivateKey
	for _, pathPart := range bip44DerivePath {
		if childKey, err = childKey.NewChildKey(bip32.FirstHardenedChild + pathPart); err != nil {
			return nil, err
		}
	}

	// bip32 private keys are 32 bytes, which is exactly an ed25519 seed.
	privateKey := ed25519.NewKeyFromSeed(childKey.Key)
	publicKey, _ := privateKey.Public().(ed25519.PublicKey)

	return &Identity{
		Mnemonic:  mnemonic,
		Bip44Path: bip44DerivePath,
		PubKey:    base58.Encode(publicKey),
		private:   privateKey,
	}, nil

}

// Sign returns the base64 ed25519 signature of msg.
func (id *Identity) Sign(msg string) string {
	return base64.StdEncoding.EncodeToString(ed25519.Sign(id.private, []byte(msg)))
}

func VerifySignature(message, base58PubKey, base64Signature string) bool {

	publicKey := base58.Decode(base58PubKey)
	if len(publicKey) != ed25519.PublicKeySize {
		return false
	}

	signature, err := base64.StdEncoding.DecodeString(base64Signature)
	if err != nil {
		return false
	}

	return ed25519.Verify(ed25519.PublicKey(publicKey), []byte(message), signature)

}

// IsValidPubKey reports whether s is a base58-encoded raw ed25519 public key.
func IsValidPubKey(base58PubKey string) bool {
	return len(base58.Decode(base58PubKey)) == ed25519.PublicKeySize
}
