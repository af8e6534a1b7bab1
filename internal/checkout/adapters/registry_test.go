package adapters

import (
	"context"
	"testing"

	"github.com/celebreapp/celebre/internal/checkout/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAdapter struct{}

func (stubAdapter) CreateLink(context.Context, domain.LinkRequest) (string, error) {
	return "https://pay.example/x", nil
}

func (stubAdapter) ParseWebhook(context.Context, []byte) (*domain.Notice, error) {
	return &domain.Notice{}, nil
}

type stubFactory struct {
	provider string
}

func (f stubFactory) Provider() string { return f.provider }

func (f stubFactory) NewAdapter(domain.AdapterConfig) (domain.Adapter, error) {
	return stubAdapter{}, nil
}

func TestRegistryLookup(t *testing.T) {
	registry := NewRegistry(stubFactory{provider: "InfinitePay"}, nil)

	assert.True(t, registry.ProviderExists("infinitepay"))
	assert.True(t, registry.ProviderExists(" INFINITEPAY "))
	assert.False(t, registry.ProviderExists("pix"))

	adapter, err := registry.NewAdapter("infinitepay", domain.AdapterConfig{})
	require.NoError(t, err)
	assert.NotNil(t, adapter)

	_, err = registry.NewAdapter("pix", domain.AdapterConfig{})
	assert.ErrorIs(t, err, domain.ErrProviderNotFound)
}
