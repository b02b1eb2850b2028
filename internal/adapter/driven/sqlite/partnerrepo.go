package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ericfisherdev/storypartner/internal/domain/model"
	"github.com/ericfisherdev/storypartner/internal/domain/port/driven"
)

// Compile-time interface satisfaction checks.
var (
	_ driven.PartnerStore  = (*PartnerRepo)(nil)
	_ driven.PartnerWriter = (*PartnerRepo)(nil)
)

// PartnerRepo is the SQLite implementation of the PartnerStore port interface.
type PartnerRepo struct {
	db *DB
}

// NewPartnerRepo creates a new PartnerRepo backed by the given DB.
func NewPartnerRepo(db *DB) *PartnerRepo {
	return &PartnerRepo{db: db}
}

// Upsert inserts a partner or replaces the existing partner with the same slug.
func (r *PartnerRepo) Upsert(ctx context.Context, p model.Partner) error {
	const query = `
		INSERT INTO partners (slug, name, name_genitive, hero_audio_url, hero_photo_url, logo_url,
			primary_color, accent_color, status, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(slug) DO UPDATE SET
			name = excluded.name,
			name_genitive = excluded.name_genitive,
			hero_audio_url = excluded.hero_audio_url,
			hero_photo_url = excluded.hero_photo_url,
			logo_url = excluded.logo_url,
			primary_color = excluded.primary_color,
			accent_color = excluded.accent_color,
			status = excluded.status,
			updated_at = CURRENT_TIMESTAMP`

	status := p.Status
	if status == "" {
		status = model.PartnerStatusInactive
	}

	_, err := r.db.Writer.ExecContext(ctx, query,
		p.Slug, p.Name, p.NameGenitive, p.HeroAudioURL, p.HeroPhotoURL, p.LogoURL,
		p.Theme.Primary, p.Theme.Accent, string(status),
	)
	if err != nil {
		return fmt.Errorf("upsert partner %s: %w", p.Slug, err)
	}
	return nil
}

// Remove deletes a partner by slug. Returns ErrPartnerNotFound if no partner
// has that slug.
func (r *PartnerRepo) Remove(ctx context.Context, slug string) error {
	const query = `DELETE FROM partners WHERE slug = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, slug)
	if err != nil {
		return fmt.Errorf("remove partner %s: %w", slug, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("remove partner %s: %w", slug, driven.ErrPartnerNotFound)
	}
	return nil
}

// GetBySlug retrieves a partner by slug. Returns nil, nil if the partner does
// not exist.
func (r *PartnerRepo) GetBySlug(ctx context.Context, slug string) (*model.Partner, error) {
	const query = `
		SELECT slug, name, name_genitive, hero_audio_url, hero_photo_url, logo_url,
			primary_color, accent_color, status
		FROM partners WHERE slug = ?`

	p, err := scanPartner(r.db.Reader.QueryRowContext(ctx, query, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get partner %s: %w", slug, err)
	}
	return p, nil
}

// ListAll returns all partners ordered by slug.
func (r *PartnerRepo) ListAll(ctx context.Context) ([]model.Partner, error) {
	const query = `
		SELECT slug, name, name_genitive, hero_audio_url, hero_photo_url, logo_url,
			primary_color, accent_color, status
		FROM partners ORDER BY slug`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	defer rows.Close()

	var partners []model.Partner
	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, fmt.Errorf("scan partner: %w", err)
		}
		partners = append(partners, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate partners: %w", err)
	}

	return partners, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPartner(s scanner) (*model.Partner, error) {
	var p model.Partner
	var status string

	err := s.Scan(&p.Slug, &p.Name, &p.NameGenitive, &p.HeroAudioURL, &p.HeroPhotoURL, &p.LogoURL,
		&p.Theme.Primary, &p.Theme.Accent, &status)
	if err != nil {
		return nil, err
	}
	p.Status = model.PartnerStatus(status)

	return &p, nil
}
