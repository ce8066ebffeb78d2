// Package jwttest mints RS256 tokens for tests, standing in for the external
// identity authority.
package jwttest

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ifat-github/casting-agency/internal/domain"
)

const (
	DefaultIssuer   = "https://casting-agency.test/"
	DefaultAudience = "casting"
)

// Issuer signs tokens with a freshly generated RSA key
type Issuer struct {
	KeyID    string
	Issuer   string
	Audience string
	Now      func() time.Time

	key *rsa.PrivateKey
}

func NewIssuer(t testing.TB, kid string) *Issuer {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key: %v", err)
	}
	return &Issuer{
		KeyID:    kid,
		Issuer:   DefaultIssuer,
		Audience: DefaultAudience,
		Now:      time.Now,
		key:      key,
	}
}

func (i *Issuer) SigningKey() domain.SigningKey {
	return domain.SigningKey{KeyID: i.KeyID, Algorithm: domain.AlgorithmRS256, PublicKey: &i.key.PublicKey}
}

// PublicKeyPEM encodes the verification key as a PKIX PEM block
func (i *Issuer) PublicKeyPEM(t testing.TB) []byte {
	t.Helper()
	der, err := x509.MarshalPKIXPublicKey(&i.key.PublicKey)
	if err != nil {
		t.Fatalf("marshal public key: %v", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
}

// Claims returns claims valid for one hour from Now
func (i *Issuer) Claims(sub string, permissions ...string) *domain.Claims {
	now := i.Now()
	return &domain.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.Issuer,
			Subject:   sub,
			Audience:  jwt.ClaimStrings{i.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Permissions: permissions,
	}
}

// Token mints a valid token for sub carrying permissions
func (i *Issuer) Token(t testing.TB, sub string, permissions ...string) string {
	t.Helper()
	return i.Sign(t, i.Claims(sub, permissions...))
}

// Sign signs arbitrary claims with the issuer's key and kid
func (i *Issuer) Sign(t testing.TB, claims jwt.Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = i.KeyID
	signed, err := token.SignedString(i.key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

// SignRaw signs the given header and payload JSON verbatim, allowing tests
// to produce tokens a well-behaved issuer never would.
func (i *Issuer) SignRaw(t testing.TB, header, payload string) string {
	t.Helper()
	signingString := encode([]byte(header)) + "." + encode([]byte(payload))
	sig, err := jwt.SigningMethodRS256.Sign(signingString, i.key)
	if err != nil {
		t.Fatalf("sign raw token: %v", err)
	}
	return signingString + "." + encode(sig)
}

func encode(seg []byte) string {
	return base64.RawURLEncoding.EncodeToString(seg)
}
