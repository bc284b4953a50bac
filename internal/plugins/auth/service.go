package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base32"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/argon2"

	"github.com/keyxmakerx/devpalette/internal/apperror"
	"github.com/keyxmakerx/devpalette/internal/kvstore"
	"github.com/keyxmakerx/devpalette/internal/mail"
	"github.com/keyxmakerx/devpalette/internal/sanitize"
)

// Redis key prefixes, appended to the configured application prefix.
const (
	sessionKeyPrefix      = "session:"
	userSessionsKeyPrefix = "user-sessions:"
	challengeKeyPrefix    = "login-challenge:"
	resetKeyPrefix        = "reset-code:"
	pendingTOTPKeyPrefix  = "2fa-pending:"
)

// sessionTokenBytes is the number of random bytes in a session token.
// 32 bytes = 256 bits of entropy, hex-encoded to 64 characters.
const sessionTokenBytes = 32

// maxCodeAttempts bounds guesses against a reset code or login challenge
// before it is discarded.
const maxCodeAttempts = 5

// Backup code shape: backupCodeCount codes of backupCodeLen characters.
const (
	backupCodeCount    = 10
	backupCodeLen      = 8
	backupCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// argon2id parameters tuned for a self-hosted application running on
// modest hardware (2-4 CPU cores, 2-4 GB RAM). These follow OWASP
// recommendations for argon2id: memory=64MB, iterations=3, parallelism=4.
const (
	argonTime    = 3
	argonMemory  = 64 * 1024 // 64 MB in KiB
	argonThreads = 4
	argonKeyLen  = 32
	argonSaltLen = 16
)

// ServiceConfig carries the auth settings the service needs.
type ServiceConfig struct {
	KeyPrefix    string
	SessionTTL   time.Duration
	ResetCodeTTL time.Duration
	ChallengeTTL time.Duration
	Issuer       string
}

// AuthService defines the business logic contract for authentication.
// Handlers call these methods -- they never touch the repository directly.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*LoginResult, error)
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	LoginTwoFactor(ctx context.Context, challenge, code string) (*LoginResult, error)
	ValidateSession(ctx context.Context, token string) (*Session, error)
	DestroySession(ctx context.Context, token string) error

	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, input ResetPasswordInput) error

	GetAccount(ctx context.Context, userID string) (*User, error)
	UpdateAccount(ctx context.Context, userID string, input UpdateAccountInput) (*User, error)
	DeleteAccount(ctx context.Context, userID string) error

	BeginTwoFactorSetup(ctx context.Context, userID string) (*TwoFactorSetup, error)
	EnableTwoFactor(ctx context.Context, userID, code string) error
	DisableTwoFactor(ctx context.Context, userID string) error
}

// authService implements AuthService with argon2id hashing and Redis sessions.
type authService struct {
	repo   UserRepository
	redis  redis.UniversalClient
	store  kvstore.Store
	locks  *kvstore.Locker
	mailer mail.Mailer
	cfg    ServiceConfig
	now    func() time.Time
}

// NewAuthService creates a new auth service with the given dependencies.
// store is the collection store, used to remove a deleted account's colors
// and palettes. locks must be the Locker shared with the collection services.
func NewAuthService(repo UserRepository, rdb redis.UniversalClient, store kvstore.Store, locks *kvstore.Locker, mailer mail.Mailer, cfg ServiceConfig) AuthService {
	return &authService{
		repo:   repo,
		redis:  rdb,
		store:  store,
		locks:  locks,
		mailer: mailer,
		cfg:    cfg,
		now:    time.Now,
	}
}

// Register creates a new user account and signs it in. It validates
// uniqueness, hashes the password with argon2id, and persists the user.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*LoginResult, error) {
	email := normalizeEmail(input.Email)
	name := sanitize.Name(input.Name)
	if name == "" {
		return nil, apperror.NewValidation("name is required")
	}

	// Check if email is already taken before doing expensive hashing.
	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("checking email: %w", err))
	}
	if exists {
		return nil, apperror.NewConflict("an account with this email already exists")
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("hashing password: %w", err))
	}

	user := &User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating user: %w", err))
	}

	slog.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return s.startSession(ctx, user)
}

// Login authenticates a user by email and password. Accounts with two-factor
// enabled get a short-lived challenge instead of a session.
func (s *authService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		// Don't reveal whether the email exists -- use generic message.
		if apperror.IsNotFound(err) {
			MetricLogins.WithLabelValues("invalid_credentials").Inc()
			return nil, apperror.NewUnauthorized("invalid email or password")
		}
		return nil, apperror.NewInternal(fmt.Errorf("finding user: %w", err))
	}

	if !verifyPassword(input.Password, user.PasswordHash) {
		MetricLogins.WithLabelValues("invalid_credentials").Inc()
		return nil, apperror.NewUnauthorized("invalid email or password")
	}

	if user.TwoFactorEnabled {
		challenge := uuid.NewString()
		if err := s.setJSON(ctx, challengeKeyPrefix+challenge, loginChallenge{UserID: user.ID}, s.cfg.ChallengeTTL); err != nil {
			return nil, apperror.NewInternal(fmt.Errorf("storing login challenge: %w", err))
		}
		MetricLogins.WithLabelValues("two_factor_required").Inc()
		return &LoginResult{RequiresTwoFactor: true, Challenge: challenge}, nil
	}

	return s.startSession(ctx, user)
}

// LoginTwoFactor completes a challenged login. The code check is simulated:
// any six digits except 000000 pass. An unused backup code also passes and
// is consumed.
func (s *authService) LoginTwoFactor(ctx context.Context, challenge, code string) (*LoginResult, error) {
	key := challengeKeyPrefix + challenge

	var ch loginChallenge
	found, err := s.getJSON(ctx, key, &ch)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("reading login challenge: %w", err))
	}
	if !found {
		return nil, apperror.NewUnauthorized("login challenge expired, please sign in again")
	}

	ok := validSimulatedCode(code)
	if !ok {
		ok, err = s.repo.ConsumeBackupCode(ctx, ch.UserID, hashCode(normalizeBackupCode(code)))
		if err != nil {
			return nil, apperror.NewInternal(fmt.Errorf("checking backup code: %w", err))
		}
	}
	if !ok {
		MetricLogins.WithLabelValues("invalid_two_factor").Inc()
		if err := s.countAttempt(ctx, key, &ch, &ch.Attempts); err != nil {
			return nil, apperror.NewInternal(err)
		}
		return nil, apperror.NewUnauthorized("invalid verification code")
	}

	if err := s.redis.Del(ctx, s.key(key)).Err(); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("deleting login challenge: %w", err))
	}

	user, err := s.repo.FindByID(ctx, ch.UserID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnauthorized("account no longer exists")
		}
		return nil, apperror.NewInternal(fmt.Errorf("finding user: %w", err))
	}
	return s.startSession(ctx, user)
}

// ValidateSession looks up a session token in Redis and returns the session
// data if it exists and hasn't expired.
func (s *authService) ValidateSession(ctx context.Context, token string) (*Session, error) {
	var session Session
	found, err := s.getJSON(ctx, sessionKeyPrefix+token, &session)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("reading session from Redis: %w", err))
	}
	if !found {
		return nil, apperror.NewUnauthorized("session expired or invalid")
	}
	return &session, nil
}

// DestroySession removes a session from Redis, effectively logging the user out.
func (s *authService) DestroySession(ctx context.Context, token string) error {
	session, err := s.ValidateSession(ctx, token)
	if err != nil {
		// Already gone.
		return nil
	}
	pipe := s.redis.TxPipeline()
	pipe.Del(ctx, s.key(sessionKeyPrefix+token))
	pipe.SRem(ctx, s.key(userSessionsKeyPrefix+session.UserID), token)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperror.NewInternal(fmt.Errorf("deleting session from Redis: %w", err))
	}
	return nil
}

// --- Password reset ---

// RequestPasswordReset emails a six-digit code to the account owner. It
// succeeds silently for unknown emails so callers cannot enumerate accounts.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if apperror.IsNotFound(err) {
			slog.Debug("password reset requested for unknown email")
			return nil
		}
		return apperror.NewInternal(fmt.Errorf("finding user: %w", err))
	}

	code, err := randomDigits(6)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("generating reset code: %w", err))
	}

	rc := resetCode{UserID: user.ID, CodeHash: hashCode(code)}
	if err := s.setJSON(ctx, resetKeyPrefix+email, rc, s.cfg.ResetCodeTTL); err != nil {
		return apperror.NewInternal(fmt.Errorf("storing reset code: %w", err))
	}

	body := fmt.Sprintf("Hi %s,\n\nYour DevPalette password reset code is %s.\n\n"+
		"It expires in %d minutes. If you did not ask for it, ignore this email.\n",
		user.Name, code, int(s.cfg.ResetCodeTTL.Minutes()))
	if err := s.mailer.SendMail(ctx, user.Email, "Your DevPalette reset code", body); err != nil {
		return apperror.NewInternal(fmt.Errorf("sending reset email: %w", err))
	}

	slog.Info("password reset requested", slog.String("user_id", user.ID))
	return nil
}

// ResetPassword checks and consumes an emailed code, stores the new password,
// and signs out every existing session of the account.
func (s *authService) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	email := normalizeEmail(input.Email)
	key := resetKeyPrefix + email

	var rc resetCode
	found, err := s.getJSON(ctx, key, &rc)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("reading reset code: %w", err))
	}
	if !found {
		return apperror.NewBadRequest("invalid or expired reset code")
	}

	if subtle.ConstantTimeCompare([]byte(hashCode(input.Code)), []byte(rc.CodeHash)) != 1 {
		if err := s.countAttempt(ctx, key, &rc, &rc.Attempts); err != nil {
			return apperror.NewInternal(err)
		}
		return apperror.NewBadRequest("invalid or expired reset code")
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("hashing password: %w", err))
	}
	if err := s.repo.UpdatePassword(ctx, rc.UserID, hash); err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewBadRequest("invalid or expired reset code")
		}
		return apperror.NewInternal(fmt.Errorf("updating password: %w", err))
	}

	if err := s.redis.Del(ctx, s.key(key)).Err(); err != nil {
		slog.Warn("failed to delete used reset code", slog.Any("error", err))
	}
	if err := s.destroyAllSessions(ctx, rc.UserID); err != nil {
		return apperror.NewInternal(err)
	}

	slog.Info("password reset", slog.String("user_id", rc.UserID))
	return nil
}

// --- Account ---

// GetAccount returns the signed-in user's profile.
func (s *authService) GetAccount(ctx context.Context, userID string) (*User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("finding user: %w", err))
	}
	return user, nil
}

// UpdateAccount changes the display name and/or profile picture.
func (s *authService) UpdateAccount(ctx context.Context, userID string, input UpdateAccountInput) (*User, error) {
	user, err := s.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := sanitize.Name(*input.Name)
		if name == "" {
			return nil, apperror.NewValidation("name is required")
		}
		user.Name = name
	}
	if input.ProfileImage != nil {
		img, ok := sanitize.ProfileImage(*input.ProfileImage)
		if !ok {
			return nil, apperror.NewValidation("profile image must be a PNG, JPEG, GIF or WebP of at most 5 MB")
		}
		if img == "" {
			user.ProfileImage = nil
		} else {
			user.ProfileImage = &img
		}
	}

	if err := s.repo.UpdateProfile(ctx, user.ID, user.Name, user.ProfileImage); err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("updating profile: %w", err))
	}
	return user, nil
}

// DeleteAccount removes the user along with its sessions and collections.
// Sessions go first so no new request can start for the account. The
// collections are removed under their locks and then retired, so a write
// already queued behind the delete cannot store them again.
func (s *authService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		if apperror.IsNotFound(err) {
			return err
		}
		return apperror.NewInternal(fmt.Errorf("deleting user: %w", err))
	}

	if err := s.destroyAllSessions(ctx, userID); err != nil {
		return apperror.NewInternal(err)
	}
	if err := s.redis.Del(ctx, s.key(pendingTOTPKeyPrefix+userID)).Err(); err != nil {
		slog.Warn("failed to delete pending two-factor setup", slog.Any("error", err))
	}
	if err := s.deleteCollections(ctx, userID); err != nil {
		return apperror.NewInternal(err)
	}

	slog.Info("account deleted", slog.String("user_id", userID))
	return nil
}

// deleteCollections takes the colors lock before the palettes lock, the
// same order imports use.
func (s *authService) deleteCollections(ctx context.Context, userID string) error {
	keys := []string{
		kvstore.UserKey(kvstore.ColorsKey, userID),
		kvstore.UserKey(kvstore.PalettesKey, userID),
	}
	for _, key := range keys {
		unlock, err := s.locks.Lock(key)
		if errors.Is(err, kvstore.ErrRetired) {
			continue
		}
		if err != nil {
			return fmt.Errorf("locking %s: %w", key, err)
		}
		defer unlock()
	}

	if err := s.store.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("deleting collections: %w", err)
	}
	for _, key := range keys {
		s.locks.Retire(key)
	}
	return nil
}

// --- Two-factor setup ---

// BeginTwoFactorSetup generates a secret and backup codes and parks them in
// Redis until EnableTwoFactor confirms a code.
func (s *authService) BeginTwoFactorSetup(ctx context.Context, userID string) (*TwoFactorSetup, error) {
	user, err := s.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.TwoFactorEnabled {
		return nil, apperror.NewConflict("two-factor login is already enabled")
	}

	secret, err := generateTOTPSecret()
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("generating secret: %w", err))
	}
	codes, err := generateBackupCodes()
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("generating backup codes: %w", err))
	}

	setup := &TwoFactorSetup{
		Secret:      secret,
		OTPAuthURL:  otpauthURL(s.cfg.Issuer, user.Email, secret),
		BackupCodes: codes,
	}
	if err := s.setJSON(ctx, pendingTOTPKeyPrefix+userID, setup, s.cfg.ChallengeTTL); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("storing pending setup: %w", err))
	}
	return setup, nil
}

// EnableTwoFactor confirms the pending setup with a (simulated) code and
// persists the secret and hashed backup codes.
func (s *authService) EnableTwoFactor(ctx context.Context, userID, code string) error {
	var setup TwoFactorSetup
	found, err := s.getJSON(ctx, pendingTOTPKeyPrefix+userID, &setup)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("reading pending setup: %w", err))
	}
	if !found {
		return apperror.NewBadRequest("no two-factor setup in progress")
	}
	if !validSimulatedCode(code) {
		return apperror.NewValidation("invalid verification code")
	}

	hashes := make([]string, len(setup.BackupCodes))
	for i, c := range setup.BackupCodes {
		hashes[i] = hashCode(c)
	}
	if err := s.repo.EnableTwoFactor(ctx, userID, setup.Secret, hashes); err != nil {
		return apperror.NewInternal(fmt.Errorf("enabling two-factor: %w", err))
	}
	if err := s.redis.Del(ctx, s.key(pendingTOTPKeyPrefix+userID)).Err(); err != nil {
		slog.Warn("failed to delete pending two-factor setup", slog.Any("error", err))
	}

	slog.Info("two-factor enabled", slog.String("user_id", userID))
	return nil
}

// DisableTwoFactor removes the secret and backup codes.
func (s *authService) DisableTwoFactor(ctx context.Context, userID string) error {
	if err := s.repo.DisableTwoFactor(ctx, userID); err != nil {
		return apperror.NewInternal(fmt.Errorf("disabling two-factor: %w", err))
	}
	slog.Info("two-factor disabled", slog.String("user_id", userID))
	return nil
}

// --- Sessions ---

// startSession creates a session for user and records the login.
func (s *authService) startSession(ctx context.Context, user *User) (*LoginResult, error) {
	token, err := generateSessionToken()
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("generating session token: %w", err))
	}

	session := Session{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: s.now().UTC(),
	}
	data, err := json.Marshal(session)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("marshaling session: %w", err))
	}

	indexKey := s.key(userSessionsKeyPrefix + user.ID)
	pipe := s.redis.TxPipeline()
	pipe.Set(ctx, s.key(sessionKeyPrefix+token), data, s.cfg.SessionTTL)
	pipe.SAdd(ctx, indexKey, token)
	pipe.Expire(ctx, indexKey, s.cfg.SessionTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("storing session in Redis: %w", err))
	}

	// Update the user's last login timestamp (fire-and-forget, non-critical).
	if err := s.repo.UpdateLastLogin(ctx, user.ID); err != nil {
		slog.Warn("failed to update last login",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
	}

	MetricLogins.WithLabelValues("success").Inc()
	slog.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return &LoginResult{Token: token, User: user}, nil
}

// destroyAllSessions signs the user out everywhere.
func (s *authService) destroyAllSessions(ctx context.Context, userID string) error {
	indexKey := s.key(userSessionsKeyPrefix + userID)
	tokens, err := s.redis.SMembers(ctx, indexKey).Result()
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}

	keys := make([]string, 0, len(tokens)+1)
	for _, t := range tokens {
		keys = append(keys, s.key(sessionKeyPrefix+t))
	}
	keys = append(keys, indexKey)
	if err := s.redis.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("deleting sessions: %w", err)
	}
	return nil
}

// --- Redis helpers ---

func (s *authService) key(k string) string {
	return s.cfg.KeyPrefix + k
}

func (s *authService) setJSON(ctx context.Context, k string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, s.key(k), data, ttl).Err()
}

func (s *authService) getJSON(ctx context.Context, k string, dst any) (bool, error) {
	data, err := s.redis.Get(ctx, s.key(k)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

// countAttempt records a failed guess against the value at k. v is the
// decoded value and attempts points into it. Once maxCodeAttempts is reached
// the value is deleted; otherwise it is rewritten keeping its TTL.
func (s *authService) countAttempt(ctx context.Context, k string, v any, attempts *int) error {
	*attempts++
	if *attempts >= maxCodeAttempts {
		if err := s.redis.Del(ctx, s.key(k)).Err(); err != nil {
			return fmt.Errorf("discarding exhausted code: %w", err)
		}
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := s.redis.Set(ctx, s.key(k), data, redis.KeepTTL).Err(); err != nil {
		return fmt.Errorf("recording failed attempt: %w", err)
	}
	return nil
}

// --- Password Hashing (argon2id) ---

// hashPassword creates an argon2id hash of the given password. The output
// format is: $argon2id$v=19$m=65536,t=3,p=4$<salt>$<hash>
func hashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash)), nil
}

// verifyPassword checks a plaintext password against an argon2id hash string.
func verifyPassword(password, encodedHash string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false
	}

	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	expectedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false
	}

	computedHash := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(expectedHash)))

	// Constant-time comparison to prevent timing attacks.
	return subtle.ConstantTimeCompare(expectedHash, computedHash) == 1
}

// --- Helpers ---

// generateSessionToken creates a cryptographically random hex-encoded token.
func generateSessionToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// validSimulatedCode is the stand-in for a TOTP check: six digits, and not
// the all-zero test code.
func validSimulatedCode(code string) bool {
	if len(code) != 6 || code == "000000" {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// generateTOTPSecret returns 80 random bits as 16 base32 characters.
func generateTOTPSecret() (string, error) {
	b := make([]byte, 10)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(b), nil
}

func otpauthURL(issuer, email, secret string) string {
	q := url.Values{}
	q.Set("secret", secret)
	q.Set("issuer", issuer)
	return "otpauth://totp/" + url.PathEscape(issuer+":"+email) + "?" + q.Encode()
}

func generateBackupCodes() ([]string, error) {
	codes := make([]string, backupCodeCount)
	for i := range codes {
		c, err := randomString(backupCodeAlphabet, backupCodeLen)
		if err != nil {
			return nil, err
		}
		codes[i] = c
	}
	return codes, nil
}

func randomDigits(n int) (string, error) {
	return randomString("0123456789", n)
}

func randomString(alphabet string, n int) (string, error) {
	limit := big.NewInt(int64(len(alphabet)))
	b := make([]byte, n)
	for i := range b {
		v, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b[i] = alphabet[v.Int64()]
	}
	return string(b), nil
}

// hashCode returns the hex SHA-256 of a short code. Reset and backup codes
// are stored only in this form.
func hashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizeBackupCode(code string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(code), "-", ""))
}
