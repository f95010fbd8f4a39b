package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

func newTestManager() *Manager {
	return NewManager("test-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestGenerateAndParse(t *testing.T) {
	m := newTestManager()

	pair, err := m.GenerateTokenPair(42, "alice", true)
	require.NoError(t, err)
	assert.Equal(t, int64(900), pair.ExpiresIn)

	t.Run("Access Token携带用户信息", func(t *testing.T) {
		claims, err := m.ParseToken(pair.AccessToken, TokenTypeAccess)
		require.NoError(t, err)

		assert.Equal(t, uint(42), claims.UserID)
		assert.Equal(t, "42", claims.Subject)
		assert.Equal(t, "alice", claims.Username)
		assert.True(t, claims.IsAdmin)
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("两个Token的jti不同", func(t *testing.T) {
		a, err := m.ParseToken(pair.AccessToken, TokenTypeAccess)
		require.NoError(t, err)
		r, err := m.ParseToken(pair.RefreshToken, TokenTypeRefresh)
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, r.ID)
	})

	t.Run("类型不符被拒绝", func(t *testing.T) {
		_, err := m.ParseToken(pair.RefreshToken, TokenTypeAccess)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

		_, err = m.ParseToken(pair.AccessToken, TokenTypeRefresh)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})
}

func TestParseToken_Expired(t *testing.T) {
	m := newTestManager()
	issued := time.Now().Add(-time.Hour)
	m.now = func() time.Time { return issued }

	token, err := m.GenerateAccessToken(1, "bob", false)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ParseToken(token, TokenTypeAccess)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestParseToken_Invalid(t *testing.T) {
	m := newTestManager()

	t.Run("签名密钥不同", func(t *testing.T) {
		other := NewManager("other-secret", time.Minute, time.Hour)
		token, err := other.GenerateAccessToken(1, "bob", false)
		require.NoError(t, err)

		_, err = m.ParseToken(token, TokenTypeAccess)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("非HMAC算法", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{TokenType: TokenTypeAccess})
		s, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = m.ParseToken(s, TokenTypeAccess)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("乱码", func(t *testing.T) {
		_, err := m.ParseToken("not-a-token", TokenTypeAccess)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})
}

func TestClaims_Remaining(t *testing.T) {
	now := time.Now()
	c := &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute))}}
	assert.InDelta(t, time.Minute.Seconds(), c.Remaining(now).Seconds(), 1)

	c.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Minute))
	assert.Equal(t, time.Duration(0), c.Remaining(now))
}
