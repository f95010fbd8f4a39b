package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/domain/author"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/category"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb/rdbtest"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/internal/interface/http/router"
	"github.com/xiebiao/library/pkg/jwt"
)

const password = "Abc12345!"

type server struct {
	t     *testing.T
	r     *gin.Engine
	users user.Service
	mr    *miniredis.Miniredis
}

func newServer(t *testing.T, rateLimit config.RateLimitConfig) *server {
	t.Helper()

	cfg := &config.Config{
		Server:    config.ServerConfig{Mode: gin.TestMode},
		RateLimit: rateLimit,
	}

	db := rdbtest.Open(t)
	tx := rdb.NewTxManager(db)
	userRepo := rdb.NewUserRepository(db)
	authorRepo := rdb.NewAuthorRepository(db)
	categoryRepo := rdb.NewCategoryRepository(db)

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := redis.NewSessionStore(client, redis.NewBreaker(cfg))

	m := jwt.NewManager("test-secret", 15*time.Minute, 7*24*time.Hour)
	users := user.NewService(userRepo, user.WithHashCost(bcrypt.MinCost))

	h := router.Handlers{
		User: handler.NewUserHandler(
			appuser.NewRegisterUseCase(users, m, store),
			appuser.NewLoginUseCase(users, m, store),
			appuser.NewRefreshUseCase(users, m, store),
			appuser.NewLogoutUseCase(m, store),
			appuser.NewProfileUseCase(users),
		),
		Admin:    handler.NewAdminHandler(appuser.NewAdminUseCase(users)),
		Book:     handler.NewBookHandler(book.NewService(rdb.NewBookRepository(db), authorRepo, categoryRepo, tx)),
		Author:   handler.NewAuthorHandler(author.NewService(authorRepo, tx)),
		Category: handler.NewCategoryHandler(category.NewService(categoryRepo, tx)),
	}
	r := router.New(cfg, h, middleware.NewAuthMiddleware(m, store), middleware.NewRateLimiter(cfg))
	return &server{t: t, r: r, users: users, mr: mr}
}

// do 发送请求并把响应体解析为map
func (s *server) do(method, path, token string, body interface{}) (int, map[string]interface{}) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.r.ServeHTTP(w, req)

	out := map[string]interface{}{}
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(w.Body.Bytes(), &out)
	}
	return w.Code, out
}

func (s *server) signUp(username string) map[string]interface{} {
	s.t.Helper()
	code, body := s.do(http.MethodPost, "/api/users/signUp", "", gin.H{
		"username": username, "email": username + "@example.com",
		"password": password, "confirm_password": password,
	})
	require.Equal(s.t, http.StatusCreated, code, body)
	return body
}

func (s *server) login(username string) map[string]interface{} {
	s.t.Helper()
	code, body := s.do(http.MethodPost, "/api/users/login", "", gin.H{"username": username, "password": password})
	require.Equal(s.t, http.StatusOK, code, body)
	return body
}

// admin 注册并提升为管理员，返回带is_admin声明的访问Token
func (s *server) admin(username string) string {
	s.t.Helper()
	s.signUp(username)
	u, err := s.users.GetByUsername(context.Background(), username)
	require.NoError(s.t, err)
	_, err = s.users.SetAdmin(context.Background(), u.ID, true)
	require.NoError(s.t, err)
	return s.login(username)["access_token"].(string)
}

func id(body map[string]interface{}) int {
	return int(body["id"].(float64))
}

func TestHealthEndpoints(t *testing.T) {
	s := newServer(t, config.RateLimitConfig{})

	code, body := s.do(http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "pong", body["message"])

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	s.r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestUserFlow(t *testing.T) {
	s := newServer(t, config.RateLimitConfig{})

	signed := s.signUp("alice")
	assert.NotEmpty(t, signed["access_token"])
	assert.NotEmpty(t, signed["refresh_token"])
	assert.Equal(t, "alice", signed["user"].(map[string]interface{})["username"])

	t.Run("重复注册", func(t *testing.T) {
		code, body := s.do(http.MethodPost, "/api/users/signUp", "", gin.H{
			"username": "alice", "email": "other@example.com",
			"password": password, "confirm_password": password,
		})
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Contains(t, body["errors"], "username")
	})

	t.Run("弱密码", func(t *testing.T) {
		code, body := s.do(http.MethodPost, "/api/users/signUp", "", gin.H{
			"username": "bob", "email": "bob@example.com",
			"password": "abc", "confirm_password": "abc",
		})
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Contains(t, body["errors"], "password")
	})

	t.Run("缺少字段", func(t *testing.T) {
		code, body := s.do(http.MethodPost, "/api/users/signUp", "", gin.H{"username": "bob"})
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Contains(t, body["errors"], "email")
		assert.Contains(t, body["errors"], "confirm_password")
	})

	t.Run("密码错误", func(t *testing.T) {
		code, body := s.do(http.MethodPost, "/api/users/login", "", gin.H{"username": "alice", "password": "Wrong123!"})
		assert.Equal(t, http.StatusUnauthorized, code)
		assert.EqualValues(t, 40103, body["code"])
	})

	tokens := s.login("alice@example.com")
	access := tokens["access_token"].(string)
	refresh := tokens["refresh_token"].(string)

	t.Run("个人信息", func(t *testing.T) {
		code, _ := s.do(http.MethodGet, "/api/users/profile", "", nil)
		assert.Equal(t, http.StatusUnauthorized, code)

		code, body := s.do(http.MethodGet, "/api/users/profile", access, nil)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "alice@example.com", body["email"])

		code, body = s.do(http.MethodPut, "/api/users/profile", access, gin.H{"email": "alice2@example.com"})
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "alice2@example.com", body["email"])
	})

	t.Run("刷新Token", func(t *testing.T) {
		code, body := s.do(http.MethodPost, "/api/users/refresh", refresh, nil)
		assert.Equal(t, http.StatusOK, code)
		assert.NotEmpty(t, body["access_token"])

		// 访问Token不能用来刷新
		code, _ = s.do(http.MethodPost, "/api/users/refresh", access, nil)
		assert.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("修改密码", func(t *testing.T) {
		code, _ := s.do(http.MethodPost, "/api/users/change-password", access, gin.H{
			"current_password": "Wrong123!", "new_password": "Xyz98765?", "confirm_password": "Xyz98765?",
		})
		assert.Equal(t, http.StatusUnauthorized, code)

		code, _ = s.do(http.MethodPost, "/api/users/change-password", access, gin.H{
			"current_password": password, "new_password": "Xyz98765?", "confirm_password": "Xyz98765?",
		})
		assert.Equal(t, http.StatusOK, code)

		code, _ = s.do(http.MethodPost, "/api/users/login", "", gin.H{"username": "alice", "password": "Xyz98765?"})
		assert.Equal(t, http.StatusOK, code)
	})

	t.Run("登出后Token失效", func(t *testing.T) {
		code, _ := s.do(http.MethodPost, "/api/users/logout", access, gin.H{"refresh_token": refresh})
		assert.Equal(t, http.StatusOK, code)

		code, body := s.do(http.MethodGet, "/api/users/profile", access, nil)
		assert.Equal(t, http.StatusUnauthorized, code)
		assert.EqualValues(t, 40105, body["code"])

		code, _ = s.do(http.MethodPost, "/api/users/refresh", refresh, nil)
		assert.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("Redis不可用时拒绝请求", func(t *testing.T) {
		fresh := s.signUp("carol")["access_token"].(string)
		s.mr.Close()
		code, _ := s.do(http.MethodGet, "/api/users/profile", fresh, nil)
		assert.Equal(t, http.StatusInternalServerError, code)
	})
}

func TestCatalogFlow(t *testing.T) {
	s := newServer(t, config.RateLimitConfig{})
	adminToken := s.admin("root")
	userToken := s.signUp("reader")["access_token"].(string)

	// 普通用户不能维护作者
	code, _ := s.do(http.MethodPost, "/api/authors", userToken, gin.H{"name": "刘慈欣"})
	assert.Equal(t, http.StatusForbidden, code)

	code, a := s.do(http.MethodPost, "/api/authors", adminToken, gin.H{"name": "刘慈欣", "country": "中国", "date_of_birth": "1963-06-23"})
	require.Equal(t, http.StatusCreated, code, a)
	assert.Equal(t, "1963-06-23", a["date_of_birth"])

	code, body := s.do(http.MethodPost, "/api/authors", adminToken, gin.H{"name": "刘慈欣"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body["errors"], "name")

	code, cat := s.do(http.MethodPost, "/api/categories", adminToken, gin.H{"name": "科幻"})
	require.Equal(t, http.StatusCreated, code, cat)

	t.Run("引用不存在的作者", func(t *testing.T) {
		code, body := s.do(http.MethodPost, "/api/books", userToken, gin.H{
			"title": "三体", "price": 5900, "stock": 3, "author_id": 999, "category_id": id(cat),
		})
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Contains(t, body["errors"], "author_id")
	})

	code, b := s.do(http.MethodPost, "/api/books", userToken, gin.H{
		"title": "三体", "description": "地球往事", "price": 5900, "stock": 3,
		"release_date": "2008-01-01", "author_id": id(a), "category_id": id(cat),
	})
	require.Equal(t, http.StatusCreated, code, b)
	assert.Equal(t, "刘慈欣", b["author_name"])
	assert.Equal(t, "科幻", b["category_name"])
	assert.Equal(t, "59.00", b["price_display"])
	assert.Equal(t, "reader", b["creator"])
	bookPath := fmt.Sprintf("/api/books/%d", id(b))

	t.Run("公开查询", func(t *testing.T) {
		code, body := s.do(http.MethodGet, bookPath, "", nil)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "三体", body["title"])

		code, body = s.do(http.MethodGet, "/api/books?author=%E5%88%98&release_date=2008-01-01", "", nil)
		assert.Equal(t, http.StatusOK, code)
		assert.Len(t, body["books"], 1)
		assert.EqualValues(t, 1, body["pagination"].(map[string]interface{})["total"])

		code, body = s.do(http.MethodGet, "/api/books?search=TRISOLARIS", "", nil)
		assert.Equal(t, http.StatusOK, code)
		assert.Len(t, body["books"], 0)

		code, _ = s.do(http.MethodGet, "/api/books?release_date=2008/01/01", "", nil)
		assert.Equal(t, http.StatusBadRequest, code)

		code, _ = s.do(http.MethodGet, "/api/books/999", "", nil)
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("作者分类需要登录", func(t *testing.T) {
		code, _ := s.do(http.MethodGet, "/api/authors", "", nil)
		assert.Equal(t, http.StatusUnauthorized, code)

		code, body := s.do(http.MethodGet, fmt.Sprintf("/api/categories/%d", id(cat)), userToken, nil)
		assert.Equal(t, http.StatusOK, code)
		assert.EqualValues(t, 1, body["books_count"])
	})

	t.Run("修改图书需要管理员", func(t *testing.T) {
		code, _ := s.do(http.MethodPatch, bookPath, userToken, gin.H{"stock": 10})
		assert.Equal(t, http.StatusForbidden, code)

		code, body := s.do(http.MethodPatch, bookPath, adminToken, gin.H{"stock": 10})
		assert.Equal(t, http.StatusOK, code)
		assert.EqualValues(t, 10, body["stock"])
	})

	t.Run("存在关联图书时不能删除", func(t *testing.T) {
		code, _ := s.do(http.MethodDelete, fmt.Sprintf("/api/authors/%d", id(a)), adminToken, nil)
		assert.Equal(t, http.StatusBadRequest, code)
		code, _ = s.do(http.MethodDelete, fmt.Sprintf("/api/categories/%d", id(cat)), adminToken, nil)
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("删除", func(t *testing.T) {
		code, _ := s.do(http.MethodDelete, bookPath, adminToken, nil)
		assert.Equal(t, http.StatusNoContent, code)
		code, _ = s.do(http.MethodDelete, bookPath, adminToken, nil)
		assert.Equal(t, http.StatusNotFound, code)

		code, _ = s.do(http.MethodDelete, fmt.Sprintf("/api/authors/%d", id(a)), adminToken, nil)
		assert.Equal(t, http.StatusNoContent, code)
		code, _ = s.do(http.MethodDelete, fmt.Sprintf("/api/categories/%d", id(cat)), adminToken, nil)
		assert.Equal(t, http.StatusNoContent, code)
	})
}

func TestAdminUsers(t *testing.T) {
	s := newServer(t, config.RateLimitConfig{})
	adminToken := s.admin("root")
	userToken := s.signUp("dave")["access_token"].(string)

	code, _ := s.do(http.MethodGet, "/api/users", userToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, body := s.do(http.MethodGet, "/api/users?search=dav", adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	users := body["users"].([]interface{})
	require.Len(t, users, 1)
	daveID := id(users[0].(map[string]interface{}))

	code, body = s.do(http.MethodPost, fmt.Sprintf("/api/users/%d/deactivate", daveID), adminToken, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["is_active"])

	code, body = s.do(http.MethodPost, "/api/users/login", "", gin.H{"username": "dave", "password": password})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.EqualValues(t, 40104, body["code"])

	code, body = s.do(http.MethodGet, "/api/users?is_active=false", adminToken, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, body["users"], 1)

	code, _ = s.do(http.MethodPost, fmt.Sprintf("/api/users/%d/activate", daveID), adminToken, nil)
	assert.Equal(t, http.StatusOK, code)
	s.login("dave")

	code, _ = s.do(http.MethodPost, "/api/users/999/activate", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRateLimit(t *testing.T) {
	s := newServer(t, config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 2})

	for i := 0; i < 2; i++ {
		code, _ := s.do(http.MethodPost, "/api/users/login", "", gin.H{"username": "nobody", "password": password})
		assert.Equal(t, http.StatusUnauthorized, code)
	}
	code, body := s.do(http.MethodPost, "/api/users/login", "", gin.H{"username": "nobody", "password": password})
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.EqualValues(t, 42900, body["code"])

	// 公开的图书查询不受限流影响
	code, _ = s.do(http.MethodGet, "/api/books", "", nil)
	assert.Equal(t, http.StatusOK, code)
}
