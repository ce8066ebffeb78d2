package jwks

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	jose "github.com/go-jose/go-jose/v4"
	"github.com/ifat-github/casting-agency/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeySet(t *testing.T) {
	rsaKey := newSigningKey(t, "rsa-sig")
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	set := jose.JSONWebKeySet{Keys: []jose.JSONWebKey{
		{Key: rsaKey.PublicKey, KeyID: "rsa-sig", Algorithm: "RS256", Use: "sig"},
		{Key: rsaKey.PublicKey, KeyID: "rsa-no-alg"},
		{Key: rsaKey.PublicKey, KeyID: "rsa-enc", Algorithm: "RSA-OAEP", Use: "enc"},
		{Key: rsaKey.PublicKey, KeyID: "rsa-ps256", Algorithm: "PS256", Use: "sig"},
		{Key: &ecKey.PublicKey, KeyID: "ec", Algorithm: "ES256", Use: "sig"},
		{Key: rsaKey.PublicKey, Algorithm: "RS256", Use: "sig"},
	}}
	doc, err := json.Marshal(set)
	require.NoError(t, err)

	keys, err := ParseKeySet(doc)
	require.NoError(t, err)

	assert.Len(t, keys, 2)
	assert.Contains(t, keys, "rsa-sig")
	assert.Contains(t, keys, "rsa-no-alg")
	assert.Equal(t, domain.AlgorithmRS256, keys["rsa-no-alg"].Algorithm)
}

func TestParseKeySet_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "not json", doc: "not json"},
		{name: "empty set", doc: `{"keys":[]}`},
		{name: "missing keys", doc: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseKeySet([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestMarshalKeySet_RoundTrip(t *testing.T) {
	a := newSigningKey(t, "a")
	b := newSigningKey(t, "b")

	doc, err := MarshalKeySet(a, b)
	require.NoError(t, err)

	keys, err := ParseKeySet(doc)
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.True(t, a.PublicKey.Equal(keys["a"].PublicKey))
	assert.True(t, b.PublicKey.Equal(keys["b"].PublicKey))
}

func TestParsePEMKey(t *testing.T) {
	key := newSigningKey(t, "")
	der, err := x509.MarshalPKIXPublicKey(key.PublicKey)
	require.NoError(t, err)
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})

	t.Run("explicit key id", func(t *testing.T) {
		got, err := ParsePEMKey(pemBytes, "configured")
		require.NoError(t, err)
		assert.Equal(t, "configured", got.KeyID)
		assert.True(t, key.PublicKey.Equal(got.PublicKey))
	})

	t.Run("thumbprint key id", func(t *testing.T) {
		got, err := ParsePEMKey(pemBytes, "")
		require.NoError(t, err)

		want, err := KeyID(key.PublicKey)
		require.NoError(t, err)
		assert.Equal(t, want, got.KeyID)
		assert.NotEmpty(t, got.KeyID)
	})

	t.Run("from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "public.pem")
		require.NoError(t, os.WriteFile(path, pemBytes, 0o600))

		got, err := LoadPEMKey(path, "file")
		require.NoError(t, err)
		assert.Equal(t, "file", got.KeyID)
	})

	t.Run("invalid pem", func(t *testing.T) {
		_, err := ParsePEMKey([]byte("garbage"), "x")
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadPEMKey(filepath.Join(t.TempDir(), "absent.pem"), "x")
		assert.Error(t, err)
	})
}

func pemFor(t *testing.T, key domain.SigningKey) []byte {
	t.Helper()
	der, err := x509.MarshalPKIXPublicKey(key.PublicKey)
	require.NoError(t, err)
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
}
