package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

const issuer = "library"

// TokenType 区分Access Token与Refresh Token
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Manager JWT管理器
// 设计说明：
// 1. 双Token机制：Access Token（短期，默认15分钟）+ Refresh Token（长期，默认7天）
// 2. 每个Token都带唯一的jti，注销时按jti加入撤销列表
// 3. type声明防止Refresh Token被当作Access Token使用（反之亦然）
type Manager struct {
	secret             []byte
	accessTokenExpire  time.Duration
	refreshTokenExpire time.Duration
	now                func() time.Time
}

// NewManager 创建JWT管理器
func NewManager(secret string, accessTokenExpire, refreshTokenExpire time.Duration) *Manager {
	return &Manager{
		secret:             []byte(secret),
		accessTokenExpire:  accessTokenExpire,
		refreshTokenExpire: refreshTokenExpire,
		now:                time.Now,
	}
}

// Claims 自定义JWT Claims
// sub = 用户ID；jti = Token唯一标识
type Claims struct {
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	IsAdmin   bool      `json:"is_admin"`
	TokenType TokenType `json:"type"`
	jwt.RegisteredClaims
}

// Remaining Token剩余有效期（用于设置撤销记录的TTL）
func (c *Claims) Remaining(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	d := c.ExpiresAt.Time.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// TokenPair Token对（Access + Refresh）
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // Access Token有效期（秒）
}

// GenerateTokenPair 生成Token对
func (m *Manager) GenerateTokenPair(userID uint, username string, isAdmin bool) (*TokenPair, error) {
	access, err := m.sign(userID, username, isAdmin, TokenTypeAccess, m.accessTokenExpire)
	if err != nil {
		return nil, apperrors.Wrap(err, "生成Access Token失败")
	}
	refresh, err := m.sign(userID, username, isAdmin, TokenTypeRefresh, m.refreshTokenExpire)
	if err != nil {
		return nil, apperrors.Wrap(err, "生成Refresh Token失败")
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(m.accessTokenExpire.Seconds()),
	}, nil
}

// GenerateAccessToken 只生成Access Token（刷新流程使用）
func (m *Manager) GenerateAccessToken(userID uint, username string, isAdmin bool) (string, error) {
	token, err := m.sign(userID, username, isAdmin, TokenTypeAccess, m.accessTokenExpire)
	if err != nil {
		return "", apperrors.Wrap(err, "生成Access Token失败")
	}
	return token, nil
}

func (m *Manager) sign(userID uint, username string, isAdmin bool, typ TokenType, ttl time.Duration) (string, error) {
	now := m.now()
	claims := Claims{
		UserID:    userID,
		Username:  username,
		IsAdmin:   isAdmin,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   strconv.FormatUint(uint64(userID), 10),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// ParseToken 解析并验证Token，同时校验Token类型
// 返回：
// - ErrTokenExpired：签名正确但已过期
// - ErrInvalidToken：签名错误、格式错误或类型不符
func (m *Manager) ParseToken(tokenString string, expected TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非法的签名算法: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken.WithErr(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}
	if claims.TokenType != expected || claims.ID == "" {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

// AccessTokenExpire Access Token有效期
func (m *Manager) AccessTokenExpire() time.Duration {
	return m.accessTokenExpire
}

// RefreshTokenExpire Refresh Token有效期（会话过期时间与之一致）
func (m *Manager) RefreshTokenExpire() time.Duration {
	return m.refreshTokenExpire
}

// Now 当前时间（测试可替换）
func (m *Manager) Now() time.Time {
	return m.now()
}
