package v1_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/slateworks/slate/internal/auth"
	"github.com/slateworks/slate/internal/domain"
	"github.com/slateworks/slate/internal/server/middleware"
)

// ---------------------------------------------------------------------------
// Context helpers: inject user/session state into context for DoCtx
// ---------------------------------------------------------------------------

func userCtx(userID uuid.UUID) context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, middleware.ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, middleware.ContextKeySessionState, auth.StateAuthenticated)
	return ctx
}

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	sites domain.SiteRepository
	users domain.UserRepository
	roles domain.RoleRepository
	audit domain.AuditRepository
}

func (m *mockDataStore) Sites() domain.SiteRepository { return m.sites }
func (m *mockDataStore) Users() domain.UserRepository { return m.users }
func (m *mockDataStore) Roles() domain.RoleRepository { return m.roles }
func (m *mockDataStore) Audit() domain.AuditRepository {
	if m.audit == nil {
		return &mockAuditRepo{}
	}
	return m.audit
}

// ---------------------------------------------------------------------------
// Mock SiteRepository
// ---------------------------------------------------------------------------

type mockSiteRepo struct {
	listFunc          func(ctx context.Context) ([]*domain.Site, error)
	getByIDFunc       func(ctx context.Context, id uuid.UUID) (*domain.Site, error)
	getBySlugFunc     func(ctx context.Context, slug string) (*domain.Site, error)
	createFunc        func(ctx context.Context, s *domain.Site) error
	updateContentFunc func(ctx context.Context, id uuid.UUID, content domain.Content) (*domain.Site, error)
}

func (m *mockSiteRepo) List(ctx context.Context) ([]*domain.Site, error) {
	return m.listFunc(ctx)
}

func (m *mockSiteRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Site, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockSiteRepo) GetBySlug(ctx context.Context, slug string) (*domain.Site, error) {
	return m.getBySlugFunc(ctx, slug)
}

func (m *mockSiteRepo) Create(ctx context.Context, s *domain.Site) error {
	return m.createFunc(ctx, s)
}

func (m *mockSiteRepo) UpdateContent(ctx context.Context, id uuid.UUID, content domain.Content) (*domain.Site, error) {
	return m.updateContentFunc(ctx, id, content)
}

// ---------------------------------------------------------------------------
// Mock AuditRepository
// ---------------------------------------------------------------------------

type mockAuditRepo struct {
	recorded  []*domain.AuditEntry
	listFunc  func(ctx context.Context, limit, offset int) ([]*domain.AuditEntry, error)
	recordErr error
}

func (m *mockAuditRepo) Record(_ context.Context, entry *domain.AuditEntry) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	m.recorded = append(m.recorded, entry)
	return nil
}

func (m *mockAuditRepo) List(ctx context.Context, limit, offset int) ([]*domain.AuditEntry, error) {
	return m.listFunc(ctx, limit, offset)
}

// ---------------------------------------------------------------------------
// Mock Authorizer
// ---------------------------------------------------------------------------

type mockAuthorizer struct {
	admins map[uuid.UUID]bool
}

func allowAll() *mockAuthorizer {
	return &mockAuthorizer{admins: nil}
}

func (m *mockAuthorizer) IsSuperAdmin(_ context.Context, userID uuid.UUID) bool {
	if m.admins == nil {
		return true
	}
	return m.admins[userID]
}

// ---------------------------------------------------------------------------
// Mock SiteCache
// ---------------------------------------------------------------------------

type mockCache struct {
	entries     map[string]*domain.Site
	invalidated []string
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string]*domain.Site)}
}

func (m *mockCache) GetSite(_ context.Context, slug string) *domain.Site {
	return m.entries[slug]
}

func (m *mockCache) SetSite(_ context.Context, s *domain.Site) {
	m.entries[s.Slug] = s
}

func (m *mockCache) Invalidate(_ context.Context, slug string) {
	delete(m.entries, slug)
	m.invalidated = append(m.invalidated, slug)
}

// ---------------------------------------------------------------------------
// Mock AuthService
// ---------------------------------------------------------------------------

type mockAuthService struct {
	registerFunc       func(ctx context.Context, email, password, fullName string) (*domain.User, error)
	loginFunc          func(ctx context.Context, email, password string) (string, string, error)
	refreshFunc        func(ctx context.Context, refreshToken string) (string, error)
	requestResetFunc   func(ctx context.Context, email string) (*auth.RecoveryToken, error)
	redeemFunc         func(token string) (string, error)
	updatePasswordFunc func(ctx context.Context, userID uuid.UUID, newPassword string) error
	getUserFunc        func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

func (m *mockAuthService) Register(ctx context.Context, email, password, fullName string) (*domain.User, error) {
	return m.registerFunc(ctx, email, password, fullName)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (string, string, error) {
	return m.loginFunc(ctx, email, password)
}

func (m *mockAuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	return m.refreshFunc(ctx, refreshToken)
}

func (m *mockAuthService) RequestPasswordReset(ctx context.Context, email string) (*auth.RecoveryToken, error) {
	return m.requestResetFunc(ctx, email)
}

func (m *mockAuthService) RedeemRecoveryToken(token string) (string, error) {
	return m.redeemFunc(token)
}

func (m *mockAuthService) UpdatePassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	return m.updatePasswordFunc(ctx, userID, newPassword)
}

func (m *mockAuthService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return m.getUserFunc(ctx, userID)
}
