package jwks

import (
	"crypto"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	jose "github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/ifat-github/casting-agency/internal/domain"
)

// ErrNoUsableKeys is returned when a key set holds no RS256 signature keys
var ErrNoUsableKeys = errors.New("jwks: no usable RS256 signing keys")

// ParseKeySet decodes a JWKS document into a key ring indexed by key ID.
// Keys that are not RSA public keys meant for RS256 signatures are skipped.
func ParseKeySet(doc []byte) (map[string]domain.SigningKey, error) {
	var set jose.JSONWebKeySet
	if err := json.Unmarshal(doc, &set); err != nil {
		return nil, fmt.Errorf("jwks: decode key set: %w", err)
	}

	keys := make(map[string]domain.SigningKey, len(set.Keys))
	for _, k := range set.Keys {
		if k.KeyID == "" {
			continue
		}
		if k.Use != "" && k.Use != "sig" {
			continue
		}
		if k.Algorithm != "" && k.Algorithm != domain.AlgorithmRS256 {
			continue
		}
		pub, ok := k.Key.(*rsa.PublicKey)
		if !ok {
			continue
		}
		keys[k.KeyID] = domain.SigningKey{
			KeyID:     k.KeyID,
			Algorithm: domain.AlgorithmRS256,
			PublicKey: pub,
		}
	}

	if len(keys) == 0 {
		return nil, ErrNoUsableKeys
	}
	return keys, nil
}

// MarshalKeySet encodes signing keys as a JWKS document
func MarshalKeySet(keys ...domain.SigningKey) ([]byte, error) {
	set := jose.JSONWebKeySet{Keys: make([]jose.JSONWebKey, 0, len(keys))}
	for _, k := range keys {
		set.Keys = append(set.Keys, jose.JSONWebKey{
			Key:       k.PublicKey,
			KeyID:     k.KeyID,
			Algorithm: domain.AlgorithmRS256,
			Use:       "sig",
		})
	}
	return json.Marshal(set)
}

// KeyID derives a key ID from the RFC 7638 thumbprint of pub
func KeyID(pub *rsa.PublicKey) (string, error) {
	jwk := jose.JSONWebKey{Key: pub}
	thumb, err := jwk.Thumbprint(crypto.SHA256)
	if err != nil {
		return "", fmt.Errorf("jwks: thumbprint: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(thumb), nil
}

// LoadPEMKey reads an RSA public key from a PEM file. When kid is empty the
// key's thumbprint is used.
func LoadPEMKey(path, kid string) (domain.SigningKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.SigningKey{}, fmt.Errorf("jwks: read public key: %w", err)
	}
	return ParsePEMKey(data, kid)
}

// ParsePEMKey parses an RSA public key in PEM form
func ParsePEMKey(data []byte, kid string) (domain.SigningKey, error) {
	pub, err := jwt.ParseRSAPublicKeyFromPEM(data)
	if err != nil {
		return domain.SigningKey{}, fmt.Errorf("jwks: parse public key: %w", err)
	}
	if kid == "" {
		if kid, err = KeyID(pub); err != nil {
			return domain.SigningKey{}, err
		}
	}
	return domain.SigningKey{KeyID: kid, Algorithm: domain.AlgorithmRS256, PublicKey: pub}, nil
}
