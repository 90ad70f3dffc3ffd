package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront-client/clients"
	"storefront-client/database"
	"storefront-client/models"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func storedUser(t *testing.T, store database.KeyValueStore) *models.User {
	t.Helper()
	raw, found, err := store.Get(context.Background(), database.KeyUser)
	require.NoError(t, err)
	if !found {
		return nil
	}
	var u models.User
	require.NoError(t, json.Unmarshal([]byte(raw), &u))
	return &u
}

func storedToken(t *testing.T, store database.KeyValueStore) (string, bool) {
	t.Helper()
	token, found, err := store.Get(context.Background(), database.KeyToken)
	require.NoError(t, err)
	return token, found
}

func TestLogin(t *testing.T) {
	store := database.NewMemoryStore()
	session, api := loggedIn(t, models.RoleCustomer, store)

	assert.Equal(t, "T", session.Token())
	assert.True(t, session.IsAuthenticated())
	assert.True(t, session.IsCustomer())
	assert.False(t, session.IsFarmer())
	assert.Equal(t, StateAuthenticated, session.State())
	require.NotNil(t, session.User())
	assert.Equal(t, int64(1), session.User().ID)

	token, found := storedToken(t, store)
	assert.True(t, found)
	assert.Equal(t, "T", token)
	assert.Equal(t, int64(1), storedUser(t, store).ID)

	api.AssertExpectations(t)
}

func TestLogin_Failure(t *testing.T) {
	t.Run("server detail", func(t *testing.T) {
		api := new(MockAuthAPI)
		api.On("Login", mock.Anything, "a@b.com", "wrong").
			Return("", &clients.APIError{Kind: clients.KindHTTP, Status: http.StatusUnauthorized, Detail: "Incorrect email or password"})
		session := NewSessionService(api, database.NewMemoryStore(), zap.NewNop())

		err := session.Login(context.Background(), "a@b.com", "wrong")
		var f *Failure
		require.ErrorAs(t, err, &f)
		assert.Equal(t, "Incorrect email or password", f.Message)
		assert.False(t, session.IsAuthenticated())
		assert.Nil(t, session.User())
		api.AssertNotCalled(t, "Me", mock.Anything, mock.Anything)
	})

	t.Run("no detail", func(t *testing.T) {
		api := new(MockAuthAPI)
		api.On("Login", mock.Anything, "a@b.com", "secret1").
			Return("", &clients.APIError{Kind: clients.KindNetwork, Err: errors.New("connection refused")})
		session := NewSessionService(api, database.NewMemoryStore(), zap.NewNop())

		err := session.Login(context.Background(), "a@b.com", "secret1")
		assert.EqualError(t, err, "Login failed")
	})

	t.Run("current user fetch fails", func(t *testing.T) {
		store := database.NewMemoryStore()
		api := new(MockAuthAPI)
		api.On("Login", mock.Anything, "a@b.com", "secret1").Return("T", nil)
		api.On("Me", mock.Anything, "T").Return(nil, &clients.APIError{Kind: clients.KindHTTP, Status: http.StatusInternalServerError})
		session := NewSessionService(api, store, zap.NewNop())

		err := session.Login(context.Background(), "a@b.com", "secret1")
		assert.EqualError(t, err, "Login failed")
		assert.False(t, session.IsAuthenticated())
		assert.Nil(t, session.User())
		assert.Equal(t, 0, store.Len())
	})
}

func TestLogin_PersistFailureKeepsSession(t *testing.T) {
	store := newFaultyStore()
	store.setErr = errors.New("disk full")

	session, _ := loggedIn(t, models.RoleFarmer, store)

	assert.True(t, session.IsAuthenticated())
	assert.True(t, session.IsFarmer())
	assert.NotNil(t, session.User())
}

func TestLogout(t *testing.T) {
	store := database.NewMemoryStore()
	session, _ := loggedIn(t, models.RoleCustomer, store)

	session.Logout(context.Background())

	assert.Equal(t, "", session.Token())
	assert.Nil(t, session.User())
	assert.False(t, session.IsAuthenticated())
	assert.False(t, session.IsCustomer())
	assert.Equal(t, StateAnonymous, session.State())
	assert.Equal(t, 0, store.Len())

	assert.NotPanics(t, func() { session.Logout(context.Background()) })
	assert.False(t, session.IsAuthenticated())
}

func TestLogout_StoreErrorIsNotFatal(t *testing.T) {
	store := newFaultyStore()
	session, _ := loggedIn(t, models.RoleCustomer, store)
	store.delErr = errors.New("locked")

	session.Logout(context.Background())
	assert.False(t, session.IsAuthenticated())
}

func TestRegister_ErrorMessages(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "server error without detail",
			err:  &clients.APIError{Kind: clients.KindHTTP, Status: http.StatusInternalServerError, Body: []byte(`{}`)},
			want: "Server error occurred. The backend service may be experiencing issues. Please try again later.",
		},
		{
			name: "server error ignores detail",
			err:  &clients.APIError{Kind: clients.KindHTTP, Status: http.StatusInternalServerError, Detail: "boom"},
			want: "Server error occurred. The backend service may be experiencing issues. Please try again later.",
		},
		{
			name: "bad request with detail",
			err:  &clients.APIError{Kind: clients.KindHTTP, Status: http.StatusBadRequest, Detail: "Email already registered"},
			want: "Email already registered",
		},
		{
			name: "unprocessable with detail",
			err:  &clients.APIError{Kind: clients.KindHTTP, Status: http.StatusUnprocessableEntity, Detail: "value is not a valid email address"},
			want: "value is not a valid email address",
		},
		{
			name: "unprocessable without detail",
			err:  &clients.APIError{Kind: clients.KindHTTP, Status: http.StatusUnprocessableEntity},
			want: "Invalid registration data. Please check your information and try again.",
		},
		{
			name: "connection refused",
			err:  &clients.APIError{Kind: clients.KindNetwork, Err: errors.New("dial tcp: connection refused")},
			want: "Cannot connect to server. Please check your internet connection and try again.",
		},
		{
			name: "timeout",
			err:  &clients.APIError{Kind: clients.KindTimeout, Err: context.DeadlineExceeded},
			want: "Request timed out. Please check your connection and try again.",
		},
		{
			name: "local validation",
			err:  &clients.APIError{Kind: clients.KindValidation, Detail: "Please enter a valid email address"},
			want: "Please enter a valid email address",
		},
		{
			name: "other status uses raw message",
			err:  &clients.APIError{Kind: clients.KindHTTP, Status: http.StatusNotFound},
			want: "backend returned 404",
		},
		{
			name: "non api error",
			err:  errors.New("something odd"),
			want: "something odd",
		},
		{
			name: "empty message falls back",
			err:  errors.New(""),
			want: "Registration failed. Please check your network connection.",
		},
	}

	req := models.RegisterRequest{Email: "a@b.com", Password: "secret1", Role: models.RoleCustomer, FirstName: "A", LastName: "B"}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := new(MockAuthAPI)
			api.On("Register", mock.Anything, req).Return(nil, tc.err)
			session := NewSessionService(api, database.NewMemoryStore(), zap.NewNop())

			user, err := session.Register(context.Background(), req)
			assert.Nil(t, user)
			var f *Failure
			require.ErrorAs(t, err, &f)
			assert.Equal(t, tc.want, f.Message)
			assert.NotEmpty(t, f.Message)
		})
	}
}

func TestRegister_DoesNotAuthenticate(t *testing.T) {
	store := database.NewMemoryStore()
	req := models.RegisterRequest{Email: "a@b.com", Password: "secret1", Role: models.RoleFarmer, FirstName: "A", LastName: "B"}
	api := new(MockAuthAPI)
	api.On("Register", mock.Anything, req).Return(testUser(7, models.RoleFarmer), nil)
	session := NewSessionService(api, store, zap.NewNop())

	user, err := session.Register(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.False(t, session.IsAuthenticated())
	assert.Nil(t, session.User())
	assert.Equal(t, 0, store.Len())
}

func TestRegister_MissingFieldNeverReachesNetwork(t *testing.T) {
	backendCalled := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backendCalled = true
	}))
	defer srv.Close()
	client := clients.NewAPIClient(srv.URL, time.Second, zap.NewNop())
	session := NewSessionService(client, database.NewMemoryStore(), zap.NewNop())

	_, err := session.Register(context.Background(), models.RegisterRequest{
		Email: "a@b.com", Password: "secret1", Role: models.RoleCustomer, LastName: "B",
	})
	var f *Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, clients.KindValidation, f.Kind)
	assert.Equal(t, "first_name is required", f.Message)
	assert.False(t, backendCalled)
}

func TestInitialize(t *testing.T) {
	ctx := context.Background()
	userJSON, err := json.Marshal(testUser(3, models.RoleFarmer))
	require.NoError(t, err)

	t.Run("empty store", func(t *testing.T) {
		session := NewSessionService(new(MockAuthAPI), database.NewMemoryStore(), zap.NewNop())
		assert.True(t, session.Loading())

		session.Initialize(ctx)
		assert.False(t, session.Loading())
		assert.Equal(t, StateAnonymous, session.State())
		assert.False(t, session.IsAuthenticated())
	})

	t.Run("restores token and user", func(t *testing.T) {
		store := database.NewMemoryStore()
		require.NoError(t, store.Set(ctx, database.KeyToken, "opaque-token"))
		require.NoError(t, store.Set(ctx, database.KeyUser, string(userJSON)))

		session := NewSessionService(new(MockAuthAPI), store, zap.NewNop())
		session.Initialize(ctx)

		assert.False(t, session.Loading())
		assert.Equal(t, StateAuthenticated, session.State())
		assert.Equal(t, "opaque-token", session.Token())
		assert.True(t, session.IsFarmer())
	})

	t.Run("token without user", func(t *testing.T) {
		store := database.NewMemoryStore()
		require.NoError(t, store.Set(ctx, database.KeyToken, "T"))

		session := NewSessionService(new(MockAuthAPI), store, zap.NewNop())
		session.Initialize(ctx)
		assert.False(t, session.IsAuthenticated())
		assert.Nil(t, session.User())
	})

	t.Run("unreadable user", func(t *testing.T) {
		store := database.NewMemoryStore()
		require.NoError(t, store.Set(ctx, database.KeyToken, "T"))
		require.NoError(t, store.Set(ctx, database.KeyUser, `{"id":3,"role":"admin"}`))

		session := NewSessionService(new(MockAuthAPI), store, zap.NewNop())
		session.Initialize(ctx)
		assert.Equal(t, StateAnonymous, session.State())
	})

	t.Run("store read error", func(t *testing.T) {
		store := newFaultyStore()
		store.getErr = errors.New("corrupt")

		session := NewSessionService(new(MockAuthAPI), store, zap.NewNop())
		session.Initialize(ctx)
		assert.False(t, session.Loading())
		assert.Equal(t, StateAnonymous, session.State())
	})

	t.Run("expired jwt", func(t *testing.T) {
		expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "3",
			"exp": time.Now().Add(-time.Hour).Unix(),
		}).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		store := database.NewMemoryStore()
		require.NoError(t, store.Set(ctx, database.KeyToken, expired))
		require.NoError(t, store.Set(ctx, database.KeyUser, string(userJSON)))

		session := NewSessionService(new(MockAuthAPI), store, zap.NewNop())
		session.Initialize(ctx)
		assert.Equal(t, StateAnonymous, session.State())
		assert.Equal(t, 0, store.Len())
	})

	t.Run("valid jwt", func(t *testing.T) {
		valid, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "3",
			"exp": time.Now().Add(time.Hour).Unix(),
		}).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		store := database.NewMemoryStore()
		require.NoError(t, store.Set(ctx, database.KeyToken, valid))
		require.NoError(t, store.Set(ctx, database.KeyUser, string(userJSON)))

		session := NewSessionService(new(MockAuthAPI), store, zap.NewNop())
		session.Initialize(ctx)
		assert.Equal(t, StateAuthenticated, session.State())
	})
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a user", func(t *testing.T) {
		store := database.NewMemoryStore()
		session := NewSessionService(new(MockAuthAPI), store, zap.NewNop())
		name := "Bea"
		err := session.UpdateUser(ctx, models.UserPatch{FirstName: &name})
		assert.ErrorIs(t, err, ErrNotAuthenticated)
		assert.Nil(t, session.User())
		assert.Equal(t, 0, store.Len())
	})

	t.Run("merges and persists", func(t *testing.T) {
		store := database.NewMemoryStore()
		session, _ := loggedIn(t, models.RoleCustomer, store)

		name := "Bea"
		phone := "555-0100"
		require.NoError(t, session.UpdateUser(ctx, models.UserPatch{FirstName: &name, Phone: &phone}))

		user := session.User()
		assert.Equal(t, "Bea", user.FirstName)
		assert.Equal(t, "Baker", user.LastName)
		require.NotNil(t, user.Phone)
		assert.Equal(t, "555-0100", *user.Phone)
		assert.Equal(t, "T", session.Token())

		persisted := storedUser(t, store)
		assert.Equal(t, "Bea", persisted.FirstName)
	})

	t.Run("returned user is a copy", func(t *testing.T) {
		session, _ := loggedIn(t, models.RoleCustomer, database.NewMemoryStore())
		u := session.User()
		u.FirstName = "Mallory"
		assert.Equal(t, "Ada", session.User().FirstName)
	})
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	session, api := loggedIn(t, models.RoleCustomer, store)

	phone := "555-0199"
	req := models.ProfileUpdate{FirstName: "Ada", LastName: "Lovelace", Phone: &phone}
	api.On("UpdateProfile", mock.Anything, "T", req).Return(nil, nil).Once()

	require.NoError(t, session.UpdateProfile(ctx, req))
	assert.Equal(t, "Lovelace", session.User().LastName)
	assert.Equal(t, "Lovelace", storedUser(t, store).LastName)

	api.On("UpdateProfile", mock.Anything, "T", req).
		Return(nil, &clients.APIError{Kind: clients.KindHTTP, Status: http.StatusNotFound, Detail: "Not Found"}).Once()
	err := session.UpdateProfile(ctx, req)
	assert.EqualError(t, err, "Not Found")
	assert.True(t, session.IsAuthenticated())
}

func TestProfileImage(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()

	anon := NewSessionService(new(MockAuthAPI), store, zap.NewNop())
	assert.ErrorIs(t, anon.SetProfileImage(ctx, "file:///a.png"), ErrNotAuthenticated)

	session, _ := loggedIn(t, models.RoleFarmer, store)
	require.NoError(t, session.SetProfileImage(ctx, "file:///avatar.png"))

	raw, found, err := store.Get(ctx, database.ProfileImageKey(1))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "file:///avatar.png", raw)

	uri, found, err := session.ProfileImage(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "file:///avatar.png", uri)
	require.NotNil(t, session.User().ProfileImage)
	assert.Equal(t, "file:///avatar.png", *session.User().ProfileImage)
}

func TestAuthorized(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous", func(t *testing.T) {
		session := NewSessionService(new(MockAuthAPI), database.NewMemoryStore(), zap.NewNop())
		called := false
		err := session.Authorized(ctx, func(string) error { called = true; return nil })
		assert.ErrorIs(t, err, ErrNotAuthenticated)
		assert.False(t, called)
	})

	t.Run("passes token and errors through", func(t *testing.T) {
		session, _ := loggedIn(t, models.RoleCustomer, database.NewMemoryStore())
		boom := &clients.APIError{Kind: clients.KindHTTP, Status: http.StatusBadRequest}
		err := session.Authorized(ctx, func(token string) error {
			assert.Equal(t, "T", token)
			return boom
		})
		assert.Same(t, boom, err)
		assert.True(t, session.IsAuthenticated())
	})

	t.Run("unauthorized forces logout", func(t *testing.T) {
		store := database.NewMemoryStore()
		session, _ := loggedIn(t, models.RoleCustomer, store)

		err := session.Authorized(ctx, func(string) error {
			return &clients.APIError{Kind: clients.KindHTTP, Status: http.StatusUnauthorized}
		})
		assert.ErrorIs(t, err, ErrSessionExpired)
		assert.False(t, session.IsAuthenticated())
		assert.Nil(t, session.User())
		assert.Equal(t, 0, store.Len())
	})
}

type recordingListener struct {
	started []int64
	ended   []int64
}

func (l *recordingListener) SessionStarted(_ context.Context, u *models.User) {
	l.started = append(l.started, u.ID)
}

func (l *recordingListener) SessionEnded(_ context.Context, u *models.User) {
	l.ended = append(l.ended, u.ID)
}

func TestSessionListeners(t *testing.T) {
	api := new(MockAuthAPI)
	api.On("Login", mock.Anything, "a@b.com", "secret1").Return("T", nil)
	api.On("Me", mock.Anything, "T").Return(testUser(1, models.RoleCustomer), nil)

	session := NewSessionService(api, database.NewMemoryStore(), zap.NewNop())
	l := &recordingListener{}
	session.AddListener(l)

	require.NoError(t, session.Login(context.Background(), "a@b.com", "secret1"))
	session.Logout(context.Background())
	session.Logout(context.Background())

	assert.Equal(t, []int64{1}, l.started)
	assert.Equal(t, []int64{1}, l.ended)
}

func TestSnapshot(t *testing.T) {
	session, _ := loggedIn(t, models.RoleFarmer, database.NewMemoryStore())
	snap := session.Snapshot()

	assert.Equal(t, "authenticated", snap.State)
	assert.True(t, snap.IsAuthenticated)
	assert.True(t, snap.IsFarmer)
	assert.False(t, snap.IsCustomer)
	assert.False(t, snap.Loading)
	require.NotNil(t, snap.User)
	assert.Equal(t, int64(1), snap.User.ID)
}
