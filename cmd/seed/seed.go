package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	sqliteadapter "github.com/ericfisherdev/storypartner/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/storypartner/internal/application"
	"github.com/ericfisherdev/storypartner/internal/domain/model"
)

// profileNamespace derives stable user IDs from emails, so reseeding keeps
// existing sessions and profile rows.
var profileNamespace = uuid.MustParse("6f1c1d9e-54a4-4c39-9a0e-2f3b8f7c0d11")

type seedFile struct {
	Partners []seedPartner `yaml:"partners"`
	Profiles []seedProfile `yaml:"profiles"`
}

type seedPartner struct {
	Slug         string `yaml:"slug"`
	Name         string `yaml:"name"`
	NameGenitive string `yaml:"name_genitive"`
	HeroAudioURL string `yaml:"hero_audio_url"`
	HeroPhotoURL string `yaml:"hero_photo_url"`
	LogoURL      string `yaml:"logo_url"`
	Theme        struct {
		Primary string `yaml:"primary"`
		Accent  string `yaml:"accent"`
	} `yaml:"theme"`
	Status string `yaml:"status"`
}

type seedProfile struct {
	ID          string `yaml:"id"`
	Email       string `yaml:"email"`
	DisplayName string `yaml:"display_name"`
	Partner     string `yaml:"partner"`
	Role        string `yaml:"role"`
	// Password is for local development only; PasswordEnv names an
	// environment variable holding the password instead.
	Password    string `yaml:"password"`
	PasswordEnv string `yaml:"password_env"`
}

type seedResult struct {
	Partners  int
	Profiles  int
	Passwords int
	Pruned    int
}

// parseSeed decodes and validates a seed document. Unknown keys are errors.
func parseSeed(data []byte) (seedFile, error) {
	var doc seedFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return seedFile{}, fmt.Errorf("parse seed file: %w", err)
	}

	var errs []error
	slugs := make(map[string]bool, len(doc.Partners))
	for i, p := range doc.Partners {
		switch {
		case !application.ValidSlug(p.Slug):
			errs = append(errs, fmt.Errorf("partners[%d]: invalid slug %q", i, p.Slug))
		case slugs[p.Slug]:
			errs = append(errs, fmt.Errorf("partners[%d]: duplicate slug %q", i, p.Slug))
		}
		slugs[p.Slug] = true
		if strings.TrimSpace(p.Name) == "" {
			errs = append(errs, fmt.Errorf("partners[%d]: name is required", i))
		}
		switch model.PartnerStatus(p.Status) {
		case "", model.PartnerStatusActive, model.PartnerStatusInactive:
		default:
			errs = append(errs, fmt.Errorf("partners[%d]: unknown status %q", i, p.Status))
		}
	}

	for i, p := range doc.Profiles {
		if !strings.Contains(p.Email, "@") {
			errs = append(errs, fmt.Errorf("profiles[%d]: invalid email %q", i, p.Email))
		}
		switch model.Role(p.Role) {
		case "", model.RolePartner, model.RoleAdmin:
		default:
			errs = append(errs, fmt.Errorf("profiles[%d]: unknown role %q", i, p.Role))
		}
		if p.Password != "" && p.PasswordEnv != "" {
			errs = append(errs, fmt.Errorf("profiles[%d]: set password or password_env, not both", i))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return seedFile{}, fmt.Errorf("invalid seed file: %w", err)
	}
	return doc, nil
}

// apply upserts the document into db. With prune, partners not listed are
// removed; their profiles keep existing with no partner.
func apply(ctx context.Context, db *sqliteadapter.DB, doc seedFile, prune bool, getenv func(string) string) (seedResult, error) {
	var res seedResult

	partners := sqliteadapter.NewPartnerRepo(db)
	profiles := sqliteadapter.NewProfileRepo(db)
	accounts := sqliteadapter.NewAccountRepo(db)

	keep := make(map[string]bool, len(doc.Partners))
	for _, p := range doc.Partners {
		partner := model.Partner{
			Slug:         p.Slug,
			Name:         p.Name,
			NameGenitive: p.NameGenitive,
			HeroAudioURL: p.HeroAudioURL,
			HeroPhotoURL: p.HeroPhotoURL,
			LogoURL:      p.LogoURL,
			Theme:        model.Theme{Primary: p.Theme.Primary, Accent: p.Theme.Accent},
			Status:       model.PartnerStatus(p.Status),
		}
		if err := partners.Upsert(ctx, partner); err != nil {
			return res, fmt.Errorf("seed partner %s: %w", p.Slug, err)
		}
		keep[p.Slug] = true
		res.Partners++
	}

	if prune {
		existing, err := partners.ListAll(ctx)
		if err != nil {
			return res, fmt.Errorf("list partners: %w", err)
		}
		for _, p := range existing {
			if keep[p.Slug] {
				continue
			}
			if err := partners.Remove(ctx, p.Slug); err != nil {
				return res, fmt.Errorf("prune partner %s: %w", p.Slug, err)
			}
			res.Pruned++
		}
	}

	for _, p := range doc.Profiles {
		email := strings.ToLower(strings.TrimSpace(p.Email))
		id := p.ID
		if id == "" {
			id = uuid.NewSHA1(profileNamespace, []byte(email)).String()
		}

		profile := model.Profile{
			UserID:      id,
			Email:       email,
			DisplayName: p.DisplayName,
			PartnerSlug: p.Partner,
			Role:        model.Role(p.Role),
		}
		if err := profiles.Upsert(ctx, profile); err != nil {
			return res, fmt.Errorf("seed profile %s: %w", email, err)
		}
		res.Profiles++

		password := p.Password
		if p.PasswordEnv != "" {
			password = getenv(p.PasswordEnv)
			if password == "" {
				return res, fmt.Errorf("seed profile %s: %s is not set", email, p.PasswordEnv)
			}
		}
		if password == "" {
			continue
		}
		if err := accounts.SetPassword(ctx, email, password); err != nil {
			return res, fmt.Errorf("seed password for %s: %w", email, err)
		}
		res.Passwords++
	}

	return res, nil
}
