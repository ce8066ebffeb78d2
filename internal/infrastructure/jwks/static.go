package jwks

import (
	"context"

	"github.com/ifat-github/casting-agency/internal/domain"
)

// StaticProvider serves a fixed set of keys, typically loaded from a PEM file
type StaticProvider struct {
	keys map[string]domain.SigningKey
}

func NewStaticProvider(keys ...domain.SigningKey) *StaticProvider {
	m := make(map[string]domain.SigningKey, len(keys))
	for _, k := range keys {
		m[k.KeyID] = k
	}
	return &StaticProvider{keys: m}
}

func (s *StaticProvider) GetKey(_ context.Context, kid string) (domain.SigningKey, error) {
	if key, ok := s.keys[kid]; ok {
		return key, nil
	}
	return domain.SigningKey{}, unknownKey(kid)
}
