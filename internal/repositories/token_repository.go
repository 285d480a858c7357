package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/Sitara-Husain/ECommerce/internal/models"
	"github.com/Sitara-Husain/ECommerce/internal/utils"
)

// TokenRepository manages the three token ledgers: refresh tokens,
// issued-access-token records and the blacklist.
//
// Refresh tokens are stored hashed; lookups hash internally. Blacklist
// entries are one-to-one with issuance records and are created with
// get-or-create semantics so repeated logouts are safe.
type TokenRepository interface {
	// Refresh-token ledger.
	CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error
	// GetRefreshToken fetches by raw token value. Returns nil if not found.
	GetRefreshToken(ctx context.Context, rawToken string) (*models.RefreshToken, error)
	RemoveRefreshToken(ctx context.Context, id uuid.UUID) error
	RevokeRefreshToken(ctx context.Context, id uuid.UUID) error
	RevokeAllRefreshTokensByUserID(ctx context.Context, userID uuid.UUID) error
	// ListOutstandingRefreshTokens returns the user's unrevoked tokens.
	ListOutstandingRefreshTokens(ctx context.Context, userID uuid.UUID) ([]*models.RefreshToken, error)

	// Issuance records.
	UpsertIssuedToken(ctx context.Context, rec *models.IssuedAccessToken) error
	GetOrCreateIssuedToken(ctx context.Context, rec *models.IssuedAccessToken) (*models.IssuedAccessToken, error)
	ListIssuedTokensByUserID(ctx context.Context, userID uuid.UUID) ([]*models.IssuedAccessToken, error)

	// Blacklist.
	BlacklistIssuedToken(ctx context.Context, tokenRecordID uuid.UUID) error
	IsBlacklistedByJTI(ctx context.Context, jti string) (bool, error)
	IsBlacklistedByRawToken(ctx context.Context, rawToken string) (bool, error)

	// Cleanup.
	CleanupExpiredRefreshTokens(ctx context.Context) error
	CleanupExpiredIssuedTokens(ctx context.Context) error
}

type tokenRepo struct {
	db DB
}

// NewTokenRepository creates a new instance of the token repository.
func NewTokenRepository(db DB) TokenRepository {
	return &tokenRepo{db: db}
}

// ----------------------------
// Refresh tokens
// ----------------------------

func (r *tokenRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	q := `
		INSERT INTO refresh_tokens (id, user_id, token, expires_at, created_at, revoked)
		VALUES ($1, $2, $3, $4, NOW(), $5)
	`
	_, err := r.db.Exec(ctx, q,
		token.ID,
		token.UserID,
		utils.HashToken(token.Token),
		token.ExpiresAt,
		token.Revoked,
	)
	return err
}

func (r *tokenRepo) GetRefreshToken(ctx context.Context, rawToken string) (*models.RefreshToken, error) {
	hashed := utils.HashToken(rawToken)
	q := `
		SELECT id, user_id, token, expires_at, created_at, revoked
		FROM refresh_tokens
		WHERE token = $1
	`
	row := r.db.QueryRow(ctx, q, hashed)

	var rt models.RefreshToken
	err := row.Scan(&rt.ID, &rt.UserID, &rt.Token, &rt.ExpiresAt, &rt.CreatedAt, &rt.Revoked)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &rt, nil
}

func (r *tokenRepo) RemoveRefreshToken(ctx context.Context, id uuid.UUID) error {
	q := `DELETE FROM refresh_tokens WHERE id = $1`
	_, err := r.db.Exec(ctx, q, id)
	return err
}

func (r *tokenRepo) RevokeRefreshToken(ctx context.Context, id uuid.UUID) error {
	q := `UPDATE refresh_tokens SET revoked = TRUE WHERE id = $1`
	_, err := r.db.Exec(ctx, q, id)
	return err
}

func (r *tokenRepo) RevokeAllRefreshTokensByUserID(ctx context.Context, userID uuid.UUID) error {
	q := `UPDATE refresh_tokens SET revoked = TRUE WHERE user_id = $1 AND revoked = FALSE`
	_, err := r.db.Exec(ctx, q, userID)
	return err
}

func (r *tokenRepo) ListOutstandingRefreshTokens(ctx context.Context, userID uuid.UUID) ([]*models.RefreshToken, error) {
	q := `
		SELECT id, user_id, token, expires_at, created_at, revoked
		FROM refresh_tokens
		WHERE user_id = $1 AND revoked = FALSE
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.RefreshToken
	for rows.Next() {
		var rt models.RefreshToken
		if err := rows.Scan(&rt.ID, &rt.UserID, &rt.Token, &rt.ExpiresAt, &rt.CreatedAt, &rt.Revoked); err != nil {
			return nil, err
		}
		out = append(out, &rt)
	}
	return out, rows.Err()
}

// ----------------------------
// Issuance records
// ----------------------------

// UpsertIssuedToken updates the user's live issuance record in place,
// or inserts one if none exists. Records already referenced by a
// blacklist entry are never touched: the entry owns them and their
// jti/token values must stay frozen for the verifier. The update is
// pinned to a single row so that a second live row (possible after a
// concurrent login) can never collide on the unique jti.
func (r *tokenRepo) UpsertIssuedToken(ctx context.Context, rec *models.IssuedAccessToken) error {
	q := `
		UPDATE issued_access_tokens
		SET jti = $1, token = $2, created_at = NOW(), expires_at = $3
		WHERE id = (
			SELECT id FROM issued_access_tokens
			WHERE user_id = $4
			  AND id NOT IN (SELECT token_record_id FROM blacklisted_tokens)
			ORDER BY created_at
			LIMIT 1
		)
	`
	tag, err := r.db.Exec(ctx, q, rec.JTI, rec.Token, rec.ExpiresAt, rec.UserID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	ins := `
		INSERT INTO issued_access_tokens (id, user_id, jti, token, created_at, expires_at)
		VALUES ($1, $2, $3, $4, NOW(), $5)
	`
	_, err = r.db.Exec(ctx, ins, rec.ID, rec.UserID, rec.JTI, rec.Token, rec.ExpiresAt)
	return err
}

func (r *tokenRepo) GetOrCreateIssuedToken(ctx context.Context, rec *models.IssuedAccessToken) (*models.IssuedAccessToken, error) {
	ins := `
		INSERT INTO issued_access_tokens (id, user_id, jti, token, created_at, expires_at)
		VALUES ($1, $2, $3, $4, NOW(), $5)
		ON CONFLICT (jti) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, ins, rec.ID, rec.UserID, rec.JTI, rec.Token, rec.ExpiresAt); err != nil {
		return nil, err
	}

	q := `
		SELECT id, user_id, jti, token, created_at, expires_at
		FROM issued_access_tokens
		WHERE jti = $1
	`
	row := r.db.QueryRow(ctx, q, rec.JTI)

	var out models.IssuedAccessToken
	err := row.Scan(&out.ID, &out.UserID, &out.JTI, &out.Token, &out.CreatedAt, &out.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *tokenRepo) ListIssuedTokensByUserID(ctx context.Context, userID uuid.UUID) ([]*models.IssuedAccessToken, error) {
	q := `
		SELECT id, user_id, jti, token, created_at, expires_at
		FROM issued_access_tokens
		WHERE user_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.IssuedAccessToken
	for rows.Next() {
		var rec models.IssuedAccessToken
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.JTI, &rec.Token, &rec.CreatedAt, &rec.ExpiresAt); err != nil {
			return nil, err
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

// ----------------------------
// Blacklist
// ----------------------------

func (r *tokenRepo) BlacklistIssuedToken(ctx context.Context, tokenRecordID uuid.UUID) error {
	q := `
		INSERT INTO blacklisted_tokens (id, token_record_id, blacklisted_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (token_record_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, q, uuid.New(), tokenRecordID)
	return err
}

func (r *tokenRepo) IsBlacklistedByJTI(ctx context.Context, jti string) (bool, error) {
	q := `
		SELECT EXISTS (
			SELECT 1
			FROM blacklisted_tokens b
			JOIN issued_access_tokens t ON t.id = b.token_record_id
			WHERE t.jti = $1
		)
	`
	var exists bool
	err := r.db.QueryRow(ctx, q, jti).Scan(&exists)
	return exists, err
}

func (r *tokenRepo) IsBlacklistedByRawToken(ctx context.Context, rawToken string) (bool, error) {
	q := `
		SELECT EXISTS (
			SELECT 1
			FROM blacklisted_tokens b
			JOIN issued_access_tokens t ON t.id = b.token_record_id
			WHERE t.token = $1
		)
	`
	var exists bool
	err := r.db.QueryRow(ctx, q, rawToken).Scan(&exists)
	return exists, err
}

// ----------------------------
// Cleanup
// ----------------------------

func (r *tokenRepo) CleanupExpiredRefreshTokens(ctx context.Context) error {
	q := `DELETE FROM refresh_tokens WHERE expires_at < NOW()`
	_, err := r.db.Exec(ctx, q)
	return err
}

// CleanupExpiredIssuedTokens removes issuance records whose access
// token has passed its natural expiry; blacklist entries cascade.
func (r *tokenRepo) CleanupExpiredIssuedTokens(ctx context.Context) error {
	q := `DELETE FROM issued_access_tokens WHERE expires_at < NOW()`
	_, err := r.db.Exec(ctx, q)
	return err
}
