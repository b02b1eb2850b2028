package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ericfisherdev/storypartner/internal/domain/model"
	"github.com/ericfisherdev/storypartner/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.IdentityProvider = (*AccountRepo)(nil)

// localSessionTTL bounds local sign-ins; the session service applies its own
// TTL on top.
const localSessionTTL = 24 * time.Hour

// dummyHash is compared against when the email is unknown so that unknown
// accounts cost the same bcrypt work as a wrong password.
var dummyHash = sync.OnceValue(func() []byte {
	hash, _ := bcrypt.GenerateFromPassword([]byte("storypartner"), bcrypt.DefaultCost)
	return hash
})

// AccountRepo is the local identity provider: bcrypt password hashes stored on
// the profiles table. It issues no access tokens.
type AccountRepo struct {
	db  *DB
	now func() time.Time
}

// NewAccountRepo creates a new AccountRepo backed by the given DB.
func NewAccountRepo(db *DB) *AccountRepo {
	return &AccountRepo{db: db, now: time.Now}
}

// SetPassword hashes password with bcrypt and stores it for the profile with
// the given email. The profile must already exist.
func (r *AccountRepo) SetPassword(ctx context.Context, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	const query = `UPDATE profiles SET password_hash = ? WHERE email = ?`
	result, err := r.db.Writer.ExecContext(ctx, query, string(hash), normalizeEmail(email))
	if err != nil {
		return fmt.Errorf("set password for %s: %w", email, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("set password for %s: no profile with that email", email)
	}
	return nil
}

// SignInWithPassword verifies the password against the stored hash. Unknown
// emails, accounts without a password and wrong passwords all return
// ErrInvalidCredentials.
func (r *AccountRepo) SignInWithPassword(ctx context.Context, email, password string) (*model.AuthSession, error) {
	const query = `SELECT user_id, email, password_hash FROM profiles WHERE email = ?`

	var userID, storedEmail, hash string
	err := r.db.Reader.QueryRowContext(ctx, query, normalizeEmail(email)).Scan(&userID, &storedEmail, &hash)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && hash == "") {
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		return nil, driven.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("get account %s: %w", email, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, driven.ErrInvalidCredentials
	}

	return &model.AuthSession{
		UserID:    userID,
		Email:     storedEmail,
		ExpiresAt: r.now().Add(localSessionTTL),
	}, nil
}

// SignOut is a no-op: local accounts have no server-side token state.
func (r *AccountRepo) SignOut(context.Context, string) error {
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
