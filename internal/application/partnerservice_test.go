package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/storypartner/internal/application"
	"github.com/ericfisherdev/storypartner/internal/domain/model"
)

type mockPartnerStore struct {
	partners map[string]model.Partner
	err      error
	calls    []string
}

func (m *mockPartnerStore) GetBySlug(_ context.Context, slug string) (*model.Partner, error) {
	m.calls = append(m.calls, slug)
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.partners[slug]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func TestPartnerService_Lookup(t *testing.T) {
	store := &mockPartnerStore{partners: map[string]model.Partner{
		"kino-nowe": {Slug: "kino-nowe", Name: "Kino Nowe"},
	}}
	svc := application.NewPartnerService(store)

	got, err := svc.Lookup(context.Background(), " Kino-Nowe ")

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Kino Nowe", got.Name)
	assert.Equal(t, []string{"kino-nowe"}, store.calls)
}

func TestPartnerService_Lookup_NotFound(t *testing.T) {
	svc := application.NewPartnerService(&mockPartnerStore{})

	got, err := svc.Lookup(context.Background(), "missing")

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPartnerService_Lookup_InvalidSlugSkipsStore(t *testing.T) {
	store := &mockPartnerStore{}
	svc := application.NewPartnerService(store)

	for _, slug := range []string{"", "-abc", "abc-", "a/b", "ąę", "a b"} {
		got, err := svc.Lookup(context.Background(), slug)
		require.NoError(t, err)
		assert.Nil(t, got, slug)
	}
	assert.Empty(t, store.calls)
}

func TestPartnerService_Lookup_StoreError(t *testing.T) {
	svc := application.NewPartnerService(&mockPartnerStore{err: errors.New("connection refused")})

	got, err := svc.Lookup(context.Background(), "kino-nowe")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "kino-nowe")
	assert.Nil(t, got)
}
