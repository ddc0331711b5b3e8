package http_pack

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// jwtIssuedAtWindow bounds how far a token's iat may be from the gateway clock, in either
// direction. Tokens carry no expiry; freshness is all that is checked.
const jwtIssuedAtWindow = 60 * time.Second

var errStaleToken = errors.New("token iat outside the allowed window")

// LoadJwtSecret reads a hex encoded 32 byte secret, 0x prefix optional.
func LoadJwtSecret(path string) ([]byte, error) {

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read jwt secret: %w", err)
	}

	text := strings.TrimPrefix(strings.TrimSpace(string(raw)), "0x")

	secret, err := hex.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("decode jwt secret: %w", err)
	}
	if len(secret) != 32 {
		return nil, fmt.Errorf("jwt secret must be 32 bytes, got %d", len(secret))
	}

	return secret, nil

}

// VerifyBearer checks an HS256 token signed with secret whose iat is within the window.
func VerifyBearer(header string, secret []byte, now time.Time) error {

	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return errors.New("missing bearer token")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithLeeway(jwtIssuedAtWindow),
	)

	var claims jwt.RegisteredClaims

	if _, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) { return secret, nil }); err != nil {
		return err
	}

	if claims.IssuedAt == nil {
		return errors.New("token has no iat")
	}

	drift := now.Sub(claims.IssuedAt.Time)
	if drift > jwtIssuedAtWindow || drift < -jwtIssuedAtWindow {
		return errStaleToken
	}

	return nil

}
