package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ericfisherdev/storypartner/internal/domain/model"
	"github.com/ericfisherdev/storypartner/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ProfileStore = (*ProfileRepo)(nil)

// ProfileRepo is the SQLite implementation of the ProfileStore port interface.
type ProfileRepo struct {
	db *DB
}

// NewProfileRepo creates a new ProfileRepo backed by the given DB.
func NewProfileRepo(db *DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

// GetByUserID retrieves a profile by user ID. Returns nil, nil if the profile
// does not exist.
func (r *ProfileRepo) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	const query = `
		SELECT user_id, email, display_name, COALESCE(partner_slug, ''), role
		FROM profiles WHERE user_id = ?`

	var p model.Profile
	var role string
	err := r.db.Reader.QueryRowContext(ctx, query, userID).Scan(&p.UserID, &p.Email, &p.DisplayName, &p.PartnerSlug, &role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", userID, err)
	}
	p.Role = model.Role(role)

	return &p, nil
}

// Upsert inserts or replaces a profile. An empty PartnerSlug is stored as NULL.
func (r *ProfileRepo) Upsert(ctx context.Context, p model.Profile) error {
	const query = `
		INSERT INTO profiles (user_id, email, display_name, partner_slug, role)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			email = excluded.email,
			display_name = excluded.display_name,
			partner_slug = excluded.partner_slug,
			role = excluded.role`

	var slug sql.NullString
	if p.PartnerSlug != "" {
		slug = sql.NullString{String: p.PartnerSlug, Valid: true}
	}
	role := p.Role
	if role == "" {
		role = model.RolePartner
	}

	if _, err := r.db.Writer.ExecContext(ctx, query, p.UserID, normalizeEmail(p.Email), p.DisplayName, slug, string(role)); err != nil {
		return fmt.Errorf("upsert profile %s: %w", p.UserID, err)
	}
	return nil
}
