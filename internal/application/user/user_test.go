package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb/rdbtest"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/jwt"
	"github.com/xiebiao/library/pkg/pagination"
)

const strongPassword = "Abc12345!"

type fixture struct {
	users    user.Service
	jwt      *jwt.Manager
	mr       *miniredis.Miniredis
	register *appuser.RegisterUseCase
	login    *appuser.LoginUseCase
	logout   *appuser.LogoutUseCase
	refresh  *appuser.RefreshUseCase
	profile  *appuser.ProfileUseCase
	admin    *appuser.AdminUseCase
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db := rdbtest.Open(t)
	users := user.NewService(rdb.NewUserRepository(db), user.WithHashCost(bcrypt.MinCost))

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := redis.NewSessionStore(client, redis.NewBreaker(&config.Config{}))

	m := jwt.NewManager("test-secret", 15*time.Minute, 7*24*time.Hour)
	return &fixture{
		users:    users,
		jwt:      m,
		mr:       mr,
		register: appuser.NewRegisterUseCase(users, m, store),
		login:    appuser.NewLoginUseCase(users, m, store),
		logout:   appuser.NewLogoutUseCase(m, store),
		refresh:  appuser.NewRefreshUseCase(users, m, store),
		profile:  appuser.NewProfileUseCase(users),
		admin:    appuser.NewAdminUseCase(users),
	}
}

func (f *fixture) signUp(t *testing.T, username string) *appuser.AuthResponse {
	t.Helper()
	resp, err := f.register.Execute(context.Background(), appuser.RegisterRequest{
		Username:        username,
		Email:           username + "@example.com",
		Password:        strongPassword,
		ConfirmPassword: strongPassword,
	})
	require.NoError(t, err)
	return resp
}

func TestRegister(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	resp := f.signUp(t, "alice")
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "alice", resp.User.Username)
	assert.True(t, resp.User.IsActive)
	assert.False(t, resp.User.IsAdmin)
	assert.True(t, f.mr.Exists("session:1"))

	claims, err := f.jwt.ParseToken(resp.AccessToken, jwt.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)

	t.Run("用户名重复", func(t *testing.T) {
		_, err := f.register.Execute(ctx, appuser.RegisterRequest{
			Username: "alice", Email: "new@example.com", Password: strongPassword, ConfirmPassword: strongPassword,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		assert.Contains(t, apperrors.GetAppError(err).Fields, "username")
	})

	t.Run("邮箱重复", func(t *testing.T) {
		_, err := f.register.Execute(ctx, appuser.RegisterRequest{
			Username: "alice2", Email: "ALICE@example.com", Password: strongPassword, ConfirmPassword: strongPassword,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		assert.Contains(t, apperrors.GetAppError(err).Fields, "email")
	})

	t.Run("弱密码", func(t *testing.T) {
		_, err := f.register.Execute(ctx, appuser.RegisterRequest{
			Username: "bob", Email: "bob@example.com", Password: "abc", ConfirmPassword: "abc",
		})
		require.Error(t, err)
		assert.Contains(t, apperrors.GetAppError(err).Fields, "password")
	})
}

func TestLogin(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.signUp(t, "alice")

	t.Run("用户名登录", func(t *testing.T) {
		resp, err := f.login.Execute(ctx, appuser.LoginRequest{Login: "alice", Password: strongPassword})
		require.NoError(t, err)
		assert.Equal(t, "alice", resp.User.Username)
	})

	t.Run("邮箱登录", func(t *testing.T) {
		_, err := f.login.Execute(ctx, appuser.LoginRequest{Login: "alice@example.com", Password: strongPassword})
		require.NoError(t, err)
	})

	t.Run("密码错误", func(t *testing.T) {
		_, err := f.login.Execute(ctx, appuser.LoginRequest{Login: "alice", Password: "Wrong123!"})
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
		assert.True(t, apperrors.IsAuthentication(err))
	})

	t.Run("用户不存在", func(t *testing.T) {
		_, err := f.login.Execute(ctx, appuser.LoginRequest{Login: "nobody", Password: strongPassword})
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})

	t.Run("停用账号无论密码是否正确", func(t *testing.T) {
		u, err := f.users.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		_, err = f.admin.SetActive(ctx, u.ID, false)
		require.NoError(t, err)

		for _, pw := range []string{strongPassword, "Wrong123!"} {
			_, err := f.login.Execute(ctx, appuser.LoginRequest{Login: "alice", Password: pw})
			assert.ErrorIs(t, err, user.ErrAccountInactive)
			assert.True(t, apperrors.IsAuthentication(err))
		}
	})
}

func TestRefreshAndLogout(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	auth := f.signUp(t, "alice")

	t.Run("刷新成功", func(t *testing.T) {
		resp, err := f.refresh.Execute(ctx, auth.RefreshToken)
		require.NoError(t, err)
		assert.EqualValues(t, 900, resp.ExpiresIn)

		_, err = f.jwt.ParseToken(resp.AccessToken, jwt.TokenTypeAccess)
		assert.NoError(t, err)
	})

	t.Run("Access Token不能用于刷新", func(t *testing.T) {
		_, err := f.refresh.Execute(ctx, auth.AccessToken)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("登出后Refresh Token失效", func(t *testing.T) {
		claims, err := f.jwt.ParseToken(auth.AccessToken, jwt.TokenTypeAccess)
		require.NoError(t, err)

		err = f.logout.Execute(ctx, appuser.LogoutRequest{Access: claims, RefreshToken: auth.RefreshToken})
		require.NoError(t, err)
		assert.True(t, f.mr.Exists("revoked:"+claims.ID))
		assert.False(t, f.mr.Exists("session:1"))

		_, err = f.refresh.Execute(ctx, auth.RefreshToken)
		assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
	})

	t.Run("停用账号不能刷新", func(t *testing.T) {
		bob := f.signUp(t, "bob")
		_, err := f.admin.SetActive(ctx, bob.User.ID, false)
		require.NoError(t, err)

		_, err = f.refresh.Execute(ctx, bob.RefreshToken)
		assert.ErrorIs(t, err, user.ErrAccountInactive)
	})

	t.Run("Redis不可用时拒绝刷新", func(t *testing.T) {
		carol := f.signUp(t, "carol")
		f.mr.Close()

		_, err := f.refresh.Execute(ctx, carol.RefreshToken)
		require.Error(t, err)
		assert.Equal(t, 500, apperrors.GetAppError(err).HTTPStatus())
	})
}

func TestProfile(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	auth := f.signUp(t, "alice")
	f.signUp(t, "bob")

	t.Run("修改用户名", func(t *testing.T) {
		name := "alice_new"
		info, err := f.profile.Update(ctx, auth.User.ID, appuser.UpdateRequest{Username: &name})
		require.NoError(t, err)
		assert.Equal(t, "alice_new", info.Username)
	})

	t.Run("邮箱被占用", func(t *testing.T) {
		email := "bob@example.com"
		_, err := f.profile.Update(ctx, auth.User.ID, appuser.UpdateRequest{Email: &email})
		assert.ErrorIs(t, err, user.ErrEmailDuplicate)
		assert.NotErrorIs(t, err, user.ErrUsernameDuplicate)
		assert.Equal(t, map[string]string{"email": "邮箱已被注册"}, apperrors.GetAppError(err).Fields)
	})

	t.Run("修改密码", func(t *testing.T) {
		err := f.profile.ChangePassword(ctx, auth.User.ID, appuser.ChangePasswordRequest{
			CurrentPassword: "Wrong123!", NewPassword: "Xyz98765?", ConfirmPassword: "Xyz98765?",
		})
		assert.True(t, apperrors.IsAuthentication(err))

		err = f.profile.ChangePassword(ctx, auth.User.ID, appuser.ChangePasswordRequest{
			CurrentPassword: strongPassword, NewPassword: "Xyz98765?", ConfirmPassword: "Xyz98765?",
		})
		require.NoError(t, err)

		_, err = f.login.Execute(ctx, appuser.LoginRequest{Login: "alice_new", Password: "Xyz98765?"})
		assert.NoError(t, err)
	})

	t.Run("管理员列表", func(t *testing.T) {
		items, meta, err := f.admin.List(ctx, appuser.ListRequest{Params: pagination.New(1, 1)})
		require.NoError(t, err)
		assert.Len(t, items, 1)
		assert.EqualValues(t, 2, meta.Total)
		assert.True(t, meta.HasNext)
	})
}
