package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"storefront-client/clients"
	"storefront-client/database"
	"storefront-client/logger"
	"storefront-client/models"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SessionState is the lifecycle position of a SessionService.
type SessionState int

const (
	StateUninitialized SessionState = iota
	StateLoading
	StateAuthenticated
	StateAnonymous
)

func (s SessionState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	}
	return "unknown"
}

// SessionSnapshot is a read-only view of the session for rendering.
type SessionSnapshot struct {
	State           string       `json:"state"`
	Loading         bool         `json:"loading"`
	IsAuthenticated bool         `json:"is_authenticated"`
	IsFarmer        bool         `json:"is_farmer"`
	IsCustomer      bool         `json:"is_customer"`
	User            *models.User `json:"user"`
}

// SessionService owns the current user and bearer token. token and user are
// always set and cleared together.
type SessionService struct {
	api    AuthAPI
	store  database.KeyValueStore
	logger *zap.Logger
	now    func() time.Time

	mu    sync.RWMutex
	state SessionState
	token string
	user  *models.User

	// writeMu serialises writes of the session keys so a late persist
	// cannot resurrect a session that was logged out in the meantime.
	writeMu sync.Mutex

	listenersMu sync.RWMutex
	listeners   []SessionListener
}

func NewSessionService(api AuthAPI, store database.KeyValueStore, logger *zap.Logger) *SessionService {
	return &SessionService{
		api:    api,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// AddListener registers l for session start and end notifications.
func (s *SessionService) AddListener(l SessionListener) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Initialize restores a previous session from the store. It never fails:
// missing or unreadable entries leave the session anonymous.
func (s *SessionService) Initialize(ctx context.Context) {
	log := logger.For(ctx, s.logger)

	s.mu.Lock()
	s.state = StateLoading
	s.mu.Unlock()

	token, user := s.readStoredSession(ctx, log)

	if token != "" && user != nil && s.tokenExpired(token) {
		log.Info("Stored token has expired, starting anonymous", zap.Int64("user_id", user.ID))
		s.writeMu.Lock()
		s.deleteKeys(ctx, log)
		s.writeMu.Unlock()
		token, user = "", nil
	}

	s.mu.Lock()
	if token != "" && user != nil {
		s.token, s.user, s.state = token, user, StateAuthenticated
	} else {
		s.token, s.user, s.state = "", nil, StateAnonymous
	}
	s.mu.Unlock()

	if user != nil {
		log.Info("Session restored", zap.Int64("user_id", user.ID), zap.Stringer("role", user.Role))
		s.notifyStarted(ctx, user)
	}
}

func (s *SessionService) readStoredSession(ctx context.Context, log *zap.Logger) (string, *models.User) {
	token, found, err := s.store.Get(ctx, database.KeyToken)
	if err != nil {
		log.Warn("Failed to read stored token", zap.Error(err))
		return "", nil
	}
	if !found || token == "" {
		return "", nil
	}

	raw, found, err := s.store.Get(ctx, database.KeyUser)
	if err != nil {
		log.Warn("Failed to read stored user", zap.Error(err))
		return "", nil
	}
	if !found {
		return "", nil
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		log.Warn("Stored user record is unreadable", zap.Error(err))
		return "", nil
	}
	if err := user.Validate(); err != nil {
		log.Warn("Stored user record is invalid", zap.Error(err))
		return "", nil
	}
	return token, &user
}

// tokenExpired reports whether token is a JWT whose exp claim has passed.
// Tokens that are not JWTs are treated as opaque and never expire here.
func (s *SessionService) tokenExpired(token string) bool {
	if strings.Count(token, ".") != 2 {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	return !claims.VerifyExpiresAt(s.now().Unix(), false)
}

// Login authenticates with the backend and fetches the account behind the
// new token. On failure the session is left untouched.
func (s *SessionService) Login(ctx context.Context, email, password string) error {
	log := logger.For(ctx, s.logger)

	token, err := s.api.Login(ctx, email, password)
	if err != nil {
		log.Warn("Login failed", zap.String("email", email), zap.Error(err))
		return loginFailure(err)
	}

	user, err := s.api.Me(ctx, token)
	if err != nil {
		log.Warn("Fetching current user failed", zap.String("email", email), zap.Error(err))
		return loginFailure(err)
	}

	s.mu.Lock()
	previous := s.user
	s.token, s.user, s.state = token, user.Clone(), StateAuthenticated
	s.mu.Unlock()

	if previous != nil && previous.ID != user.ID {
		s.notifyEnded(ctx, previous)
	}

	s.persistSession(ctx, log, token, user)

	log.Info("User logged in", zap.Int64("user_id", user.ID), zap.Stringer("role", user.Role))
	s.notifyStarted(ctx, user.Clone())
	return nil
}

// persistSession writes token and user in parallel. A failure only costs
// durability; the in-memory session stays usable.
func (s *SessionService) persistSession(ctx context.Context, log *zap.Logger, token string, user *models.User) {
	data, err := json.Marshal(user)
	if err != nil {
		log.Error("Failed to encode user for storage", zap.Error(err))
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.Token() != token {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.store.Set(gctx, database.KeyToken, token)
	})
	g.Go(func() error {
		return s.store.Set(gctx, database.KeyUser, string(data))
	})
	if err := g.Wait(); err != nil {
		log.Warn("Session was not persisted", zap.Int64("user_id", user.ID), zap.Error(err))
	}
}

// Register creates an account. It does not log the caller in.
func (s *SessionService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	log := logger.For(ctx, s.logger)

	user, err := s.api.Register(ctx, req)
	if err != nil {
		f := registerFailure(err)
		log.Warn("Registration failed",
			zap.String("email", req.Email),
			zap.Stringer("kind", f.Kind),
			zap.Int("status", f.Status),
			zap.Error(err),
		)
		return nil, f
	}

	if user != nil {
		log.Info("User registered", zap.Int64("user_id", user.ID), zap.Stringer("role", user.Role))
	}
	return user, nil
}

// Logout clears the session and its stored keys. Calling it while logged
// out is a no-op.
func (s *SessionService) Logout(ctx context.Context) {
	log := logger.For(ctx, s.logger)

	s.writeMu.Lock()
	s.mu.Lock()
	user := s.user
	s.token, s.user, s.state = "", nil, StateAnonymous
	s.mu.Unlock()
	s.deleteKeys(ctx, log)
	s.writeMu.Unlock()

	if user != nil {
		log.Info("User logged out", zap.Int64("user_id", user.ID))
		s.notifyEnded(ctx, user)
	}
}

func (s *SessionService) deleteKeys(ctx context.Context, log *zap.Logger) {
	for _, key := range []string{database.KeyToken, database.KeyUser} {
		if err := s.store.Delete(ctx, key); err != nil {
			log.Warn("Failed to remove stored session key", zap.String("key", key), zap.Error(err))
		}
	}
}

// UpdateUser merges patch into the current user and persists the result.
func (s *SessionService) UpdateUser(ctx context.Context, patch models.UserPatch) error {
	log := logger.For(ctx, s.logger)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}
	merged := s.user.Clone()
	patch.Apply(merged)
	s.user = merged
	s.mu.Unlock()

	data, err := json.Marshal(merged)
	if err != nil {
		log.Error("Failed to encode user for storage", zap.Error(err))
		return nil
	}
	if err := s.store.Set(ctx, database.KeyUser, string(data)); err != nil {
		log.Warn("Updated user was not persisted", zap.Int64("user_id", merged.ID), zap.Error(err))
	}
	return nil
}

// UpdateProfile saves the editable profile fields on the backend and merges
// them into the session.
func (s *SessionService) UpdateProfile(ctx context.Context, req models.ProfileUpdate) error {
	var updated *models.User
	err := s.Authorized(ctx, func(token string) error {
		var err error
		updated, err = s.api.UpdateProfile(ctx, token, req)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrSessionExpired) || errors.Is(err, ErrNotAuthenticated) {
			return err
		}
		logger.For(ctx, s.logger).Warn("Profile update failed", zap.Error(err))
		return requestFailure(err, msgProfileFailed)
	}

	patch := models.UserPatch{
		FirstName: &req.FirstName,
		LastName:  &req.LastName,
		Phone:     req.Phone,
	}
	if updated != nil {
		patch = models.UserPatch{
			FirstName: &updated.FirstName,
			LastName:  &updated.LastName,
			Phone:     updated.Phone,
		}
	}
	return s.UpdateUser(ctx, patch)
}

// SetProfileImage remembers a picked avatar URI for the current user without
// a backend round trip.
func (s *SessionService) SetProfileImage(ctx context.Context, uri string) error {
	user := s.User()
	if user == nil {
		return ErrNotAuthenticated
	}

	s.writeMu.Lock()
	if err := s.store.Set(ctx, database.ProfileImageKey(user.ID), uri); err != nil {
		logger.For(ctx, s.logger).Warn("Profile image was not persisted", zap.Int64("user_id", user.ID), zap.Error(err))
	}
	s.writeMu.Unlock()

	return s.UpdateUser(ctx, models.UserPatch{ProfileImage: &uri})
}

// ProfileImage returns the stored avatar URI of the current user, if any.
func (s *SessionService) ProfileImage(ctx context.Context) (string, bool, error) {
	user := s.User()
	if user == nil {
		return "", false, ErrNotAuthenticated
	}
	uri, found, err := s.store.Get(ctx, database.ProfileImageKey(user.ID))
	if err != nil {
		return "", false, err
	}
	if !found && user.ProfileImage != nil {
		return *user.ProfileImage, true, nil
	}
	return uri, found, nil
}

// Authorized runs fn with the current token. A 401 from the backend ends the
// session and is reported as ErrSessionExpired.
func (s *SessionService) Authorized(ctx context.Context, fn func(token string) error) error {
	token := s.Token()
	if token == "" {
		return ErrNotAuthenticated
	}

	err := fn(token)
	if err == nil || !clients.IsUnauthorized(err) {
		return err
	}

	logger.For(ctx, s.logger).Info("Backend rejected token, ending session")
	if s.Token() == token {
		s.Logout(ctx)
	}
	return ErrSessionExpired
}

func (s *SessionService) notifyStarted(ctx context.Context, user *models.User) {
	for _, l := range s.snapshotListeners() {
		l.SessionStarted(ctx, user)
	}
}

func (s *SessionService) notifyEnded(ctx context.Context, user *models.User) {
	for _, l := range s.snapshotListeners() {
		l.SessionEnded(ctx, user)
	}
}

func (s *SessionService) snapshotListeners() []SessionListener {
	s.listenersMu.RLock()
	defer s.listenersMu.RUnlock()
	return append([]SessionListener(nil), s.listeners...)
}

func (s *SessionService) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Loading is true until Initialize has finished.
func (s *SessionService) Loading() bool {
	state := s.State()
	return state == StateUninitialized || state == StateLoading
}

func (s *SessionService) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

func (s *SessionService) IsFarmer() bool {
	return s.hasRole(models.RoleFarmer)
}

func (s *SessionService) IsCustomer() bool {
	return s.hasRole(models.RoleCustomer)
}

func (s *SessionService) hasRole(role models.Role) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.Role == role
}

// User returns a copy of the current user, or nil.
func (s *SessionService) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Clone()
}

func (s *SessionService) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *SessionService) Snapshot() SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SessionSnapshot{
		State:           s.state.String(),
		Loading:         s.state == StateUninitialized || s.state == StateLoading,
		IsAuthenticated: s.token != "",
		IsFarmer:        s.user != nil && s.user.Role == models.RoleFarmer,
		IsCustomer:      s.user != nil && s.user.Role == models.RoleCustomer,
		User:            s.user.Clone(),
	}
}
