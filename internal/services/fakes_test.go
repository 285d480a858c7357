package services

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Sitara-Husain/ECommerce/internal/config"
	"github.com/Sitara-Husain/ECommerce/internal/models"
	"github.com/Sitara-Husain/ECommerce/internal/utils"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate RSA key: %v", err)
	}
	return &config.Config{
		AppName:            config.AppName,
		RSAPrivateKey:      key,
		RSAPublicKey:       &key.PublicKey,
		AccessTokenExpiry:  config.DefaultAccessTokenExpiry,
		RefreshTokenExpiry: config.DefaultRefreshTokenExpiry,
		BlacklistEnabled:   true,
	}
}

// ---------------------------------------------------------------------
// fakeTokenRepo – in-memory TokenRepository
// ---------------------------------------------------------------------

type fakeTokenRepo struct {
	mu sync.Mutex

	refresh map[uuid.UUID]*models.RefreshToken // token field stored hashed
	issued  map[uuid.UUID]*models.IssuedAccessToken
	black   map[uuid.UUID]bool // keyed by issuance record ID

	// revokeErrs injects per-token failures into RevokeRefreshToken.
	revokeErrs map[uuid.UUID]error
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{
		refresh:    make(map[uuid.UUID]*models.RefreshToken),
		issued:     make(map[uuid.UUID]*models.IssuedAccessToken),
		black:      make(map[uuid.UUID]bool),
		revokeErrs: make(map[uuid.UUID]error),
	}
}

func (f *fakeTokenRepo) CreateRefreshToken(_ context.Context, token *models.RefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *token
	cp.Token = utils.HashToken(token.Token)
	f.refresh[cp.ID] = &cp
	return nil
}

func (f *fakeTokenRepo) GetRefreshToken(_ context.Context, rawToken string) (*models.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	hashed := utils.HashToken(rawToken)
	for _, rt := range f.refresh {
		if rt.Token == hashed {
			cp := *rt
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeTokenRepo) RemoveRefreshToken(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.refresh, id)
	return nil
}

func (f *fakeTokenRepo) RevokeRefreshToken(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.revokeErrs[id]; ok {
		return err
	}
	if rt, ok := f.refresh[id]; ok {
		rt.Revoked = true
	}
	return nil
}

func (f *fakeTokenRepo) RevokeAllRefreshTokensByUserID(_ context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rt := range f.refresh {
		if rt.UserID == userID {
			rt.Revoked = true
		}
	}
	return nil
}

func (f *fakeTokenRepo) ListOutstandingRefreshTokens(_ context.Context, userID uuid.UUID) ([]*models.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.RefreshToken
	for _, rt := range f.refresh {
		if rt.UserID == userID && !rt.Revoked {
			cp := *rt
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeTokenRepo) UpsertIssuedToken(_ context.Context, rec *models.IssuedAccessToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	// Rewrite the single oldest live row, like the LIMIT 1 update.
	var target *models.IssuedAccessToken
	for _, existing := range f.issued {
		if existing.UserID != rec.UserID || f.black[existing.ID] {
			continue
		}
		if target == nil || existing.CreatedAt.Before(target.CreatedAt) {
			target = existing
		}
	}
	if target != nil {
		target.JTI = rec.JTI
		target.Token = rec.Token
		target.CreatedAt = time.Now()
		target.ExpiresAt = rec.ExpiresAt
		return nil
	}
	cp := *rec
	cp.CreatedAt = time.Now()
	f.issued[cp.ID] = &cp
	return nil
}

func (f *fakeTokenRepo) GetOrCreateIssuedToken(_ context.Context, rec *models.IssuedAccessToken) (*models.IssuedAccessToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.issued {
		if existing.JTI == rec.JTI {
			cp := *existing
			return &cp, nil
		}
	}
	cp := *rec
	cp.CreatedAt = time.Now()
	f.issued[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeTokenRepo) ListIssuedTokensByUserID(_ context.Context, userID uuid.UUID) ([]*models.IssuedAccessToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.IssuedAccessToken
	for _, rec := range f.issued {
		if rec.UserID == userID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeTokenRepo) BlacklistIssuedToken(_ context.Context, tokenRecordID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.black[tokenRecordID] = true
	return nil
}

func (f *fakeTokenRepo) IsBlacklistedByJTI(_ context.Context, jti string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, rec := range f.issued {
		if rec.JTI == jti && f.black[id] {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTokenRepo) IsBlacklistedByRawToken(_ context.Context, rawToken string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, rec := range f.issued {
		if rec.Token == rawToken && f.black[id] {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTokenRepo) CleanupExpiredRefreshTokens(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	for id, rt := range f.refresh {
		if rt.ExpiresAt.Before(now) {
			delete(f.refresh, id)
		}
	}
	return nil
}

func (f *fakeTokenRepo) CleanupExpiredIssuedTokens(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	for id, rec := range f.issued {
		if rec.ExpiresAt.Before(now) {
			delete(f.issued, id)
			delete(f.black, id)
		}
	}
	return nil
}

// ---------------------------------------------------------------------
// fakeUserRepo – in-memory UserRepository
// ---------------------------------------------------------------------

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *user
	cp.Email = strings.ToLower(cp.Email)
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.users[cp.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == strings.ToLower(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == strings.ToLower(email) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) RecordLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil
	}
	if u.FirstLoginAt == nil {
		t := at
		u.FirstLoginAt = &t
	}
	t := at
	u.LastLoginAt = &t
	u.UpdatedAt = time.Now()
	return nil
}

func (f *fakeUserRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		u.IsActive = active
		u.UpdatedAt = time.Now()
	}
	return nil
}

// ---------------------------------------------------------------------
// fakeProductRepo – in-memory ProductRepository
// ---------------------------------------------------------------------

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*models.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*models.Product)}
}

func (f *fakeProductRepo) Create(_ context.Context, product *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *product
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.products[cp.ID] = &cp
	product.CreatedAt = cp.CreatedAt
	product.UpdatedAt = cp.UpdatedAt
	return nil
}

func (f *fakeProductRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok || !p.IsActive || p.IsDeleted {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) List(_ context.Context) ([]*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Product
	for _, p := range f.products {
		if p.IsActive && !p.IsDeleted {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeProductRepo) Update(_ context.Context, product *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[product.ID]
	if !ok || p.IsDeleted {
		return nil
	}
	p.Title = product.Title
	p.Description = product.Description
	p.Price = product.Price
	p.UpdatedAt = time.Now()
	return nil
}

func (f *fakeProductRepo) SoftDelete(_ context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok || p.IsDeleted {
		return false, nil
	}
	p.IsDeleted = true
	p.UpdatedAt = time.Now()
	return true, nil
}

func (f *fakeProductRepo) TitleExists(_ context.Context, title string, excludeID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, p := range f.products {
		if id == excludeID || p.IsDeleted {
			continue
		}
		if strings.EqualFold(p.Title, title) {
			return true, nil
		}
	}
	return false, nil
}
