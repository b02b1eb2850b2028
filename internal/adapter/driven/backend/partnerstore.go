package backend

import (
	"context"
	"fmt"

	"github.com/ericfisherdev/storypartner/internal/domain/model"
	"github.com/ericfisherdev/storypartner/internal/domain/port/driven"
)

// Compile-time interface satisfaction checks.
var (
	_ driven.PartnerStore = (*PartnerStore)(nil)
	_ driven.ProfileStore = (*ProfileStore)(nil)
)

// partnerRow is the JSON shape of a row in the Partners table.
type partnerRow struct {
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	NameGenitive string `json:"name_genitive"`
	HeroAudioURL string `json:"hero_audio_url"`
	HeroPhotoURL string `json:"hero_photo_url"`
	LogoURL      string `json:"logo_url"`
	Theme        struct {
		Primary string `json:"primary"`
		Accent  string `json:"accent"`
	} `json:"theme"`
	IsActive bool `json:"is_active"`
}

func (r partnerRow) toModel() *model.Partner {
	status := model.PartnerStatusInactive
	if r.IsActive {
		status = model.PartnerStatusActive
	}
	return &model.Partner{
		Slug:         r.Slug,
		Name:         r.Name,
		NameGenitive: r.NameGenitive,
		HeroAudioURL: r.HeroAudioURL,
		HeroPhotoURL: r.HeroPhotoURL,
		LogoURL:      r.LogoURL,
		Theme:        model.Theme{Primary: r.Theme.Primary, Accent: r.Theme.Accent},
		Status:       status,
	}
}

// PartnerStore reads partners from the backend Partners table.
type PartnerStore struct {
	client *Client
}

// NewPartnerStore creates a PartnerStore using the given client.
func NewPartnerStore(client *Client) *PartnerStore {
	return &PartnerStore{client: client}
}

// GetBySlug returns the partner with the given slug, or nil, nil if no row
// matches.
func (s *PartnerStore) GetBySlug(ctx context.Context, slug string) (*model.Partner, error) {
	var rows []partnerRow
	if err := s.client.selectOne(ctx, "Partners", "slug", slug, &rows); err != nil {
		return nil, fmt.Errorf("get partner %s: %w", slug, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toModel(), nil
}

// profileRow is the JSON shape of a row in the Profiles table.
type profileRow struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	PartnerSlug string `json:"partner_slug"`
	Role        string `json:"role"`
}

// ProfileStore reads profiles from the backend Profiles table.
type ProfileStore struct {
	client *Client
}

// NewProfileStore creates a ProfileStore using the given client.
func NewProfileStore(client *Client) *ProfileStore {
	return &ProfileStore{client: client}
}

// GetByUserID returns the profile for userID, or nil, nil if no row matches.
func (s *ProfileStore) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	var rows []profileRow
	if err := s.client.selectOne(ctx, "Profiles", "id", userID, &rows); err != nil {
		return nil, fmt.Errorf("get profile %s: %w", userID, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	row := rows[0]
	role := model.Role(row.Role)
	if role != model.RoleAdmin {
		role = model.RolePartner
	}
	return &model.Profile{
		UserID:      row.ID,
		Email:       row.Email,
		DisplayName: row.DisplayName,
		PartnerSlug: row.PartnerSlug,
		Role:        role,
	}, nil
}
