package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/keyxmakerx/devpalette/internal/apperror"
)

// UserRepository defines the data access contract for user operations.
// All SQL lives in the concrete implementation -- no SQL leaks out.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateLastLogin(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateProfile(ctx context.Context, id, name string, profileImage *string) error
	Delete(ctx context.Context, id string) error

	// Two-factor.
	EnableTwoFactor(ctx context.Context, id, secret string, backupCodeHashes []string) error
	DisableTwoFactor(ctx context.Context, id string) error
	ConsumeBackupCode(ctx context.Context, id, codeHash string) (bool, error)
}

// userRepository implements UserRepository with hand-written MariaDB queries.
type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository backed by the given DB pool.
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, name, password_hash, profile_image,
	two_factor_enabled, two_factor_secret, created_at, last_login_at`

// Create inserts a new user row into the users table.
func (r *userRepository) Create(ctx context.Context, user *User) error {
	query := `INSERT INTO users (id, email, name, password_hash, created_at)
	          VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

// FindByID retrieves a user by their UUID.
// Returns apperror.NotFound if no user exists with this ID.
func (r *userRepository) FindByID(ctx context.Context, id string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row, "id")
}

// FindByEmail retrieves a user by their email address.
// Returns apperror.NotFound if no user exists with this email.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row, "email")
}

func scanUser(row *sql.Row, by string) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.ProfileImage,
		&user.TwoFactorEnabled,
		&user.TwoFactorSecret,
		&user.CreatedAt,
		&user.LastLoginAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying user by %s: %w", by, err)
	}
	return user, nil
}

// EmailExists returns true if a user with the given email already exists.
// Used during registration to check for duplicates before hashing the password.
func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking email existence: %w", err)
	}
	return exists, nil
}

// UpdateLastLogin sets the last_login_at timestamp to now for the given user.
func (r *userRepository) UpdateLastLogin(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = ?`, id); err != nil {
		return fmt.Errorf("updating last login: %w", err)
	}
	return nil
}

// UpdatePassword sets a new password hash for a user.
func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.execOne(ctx, "updating password",
		`UPDATE users SET password_hash = ? WHERE id = ?`, passwordHash, id)
}

// UpdateProfile replaces the display name and profile picture.
func (r *userRepository) UpdateProfile(ctx context.Context, id, name string, profileImage *string) error {
	return r.execOne(ctx, "updating profile",
		`UPDATE users SET name = ?, profile_image = ? WHERE id = ?`, name, profileImage, id)
}

// Delete removes the user. Backup codes go with it via ON DELETE CASCADE.
func (r *userRepository) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, "deleting user", `DELETE FROM users WHERE id = ?`, id)
}

// execOne runs a statement that must touch exactly one user row.
func (r *userRepository) execOne(ctx context.Context, what, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	// MariaDB reports 0 rows for an UPDATE that changes nothing, so only
	// treat a miss as not-found when the row is really gone.
	if n, _ := result.RowsAffected(); n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)`, args[len(args)-1]).Scan(&exists); err != nil {
			return fmt.Errorf("%s: %w", what, err)
		}
		if !exists {
			return apperror.NewNotFound("user not found")
		}
	}
	return nil
}

// --- Two-factor ---

// EnableTwoFactor stores the secret and replaces all backup codes in one
// transaction.
func (r *userRepository) EnableTwoFactor(ctx context.Context, id, secret string, backupCodeHashes []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET two_factor_enabled = TRUE, two_factor_secret = ? WHERE id = ?`, secret, id); err != nil {
		return fmt.Errorf("enabling two-factor: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM user_backup_codes WHERE user_id = ?`, id); err != nil {
		return fmt.Errorf("clearing backup codes: %w", err)
	}
	for _, h := range backupCodeHashes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_backup_codes (user_id, code_hash) VALUES (?, ?)`, id, h); err != nil {
			return fmt.Errorf("inserting backup code: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing two-factor setup: %w", err)
	}
	return nil
}

// DisableTwoFactor clears the secret and all backup codes.
func (r *userRepository) DisableTwoFactor(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET two_factor_enabled = FALSE, two_factor_secret = NULL WHERE id = ?`, id); err != nil {
		return fmt.Errorf("disabling two-factor: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM user_backup_codes WHERE user_id = ?`, id); err != nil {
		return fmt.Errorf("clearing backup codes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing two-factor removal: %w", err)
	}
	return nil
}

// ConsumeBackupCode marks an unused backup code as used. Returns false when
// no unused code with that hash exists.
func (r *userRepository) ConsumeBackupCode(ctx context.Context, id, codeHash string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE user_backup_codes SET used_at = NOW()
		 WHERE user_id = ? AND code_hash = ? AND used_at IS NULL`, id, codeHash)
	if err != nil {
		return false, fmt.Errorf("consuming backup code: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("consuming backup code: %w", err)
	}
	return n == 1, nil
}
