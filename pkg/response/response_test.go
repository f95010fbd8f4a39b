package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(fn gin.HandlerFunc) *httptest.ResponseRecorder {
	r := gin.New()
	r.GET("/x", fn)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	r.ServeHTTP(w, req)
	return w
}

func TestError(t *testing.T) {
	t.Run("校验错误返回400和字段信息", func(t *testing.T) {
		w := perform(func(c *gin.Context) {
			Error(c, apperrors.ErrDuplicateEntry.WithField("name", "名称已存在"))
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var body ErrorBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, apperrors.ErrCodeDuplicateEntry, body.Code)
		assert.Equal(t, "名称已存在", body.Errors["name"])
	})

	t.Run("未知错误返回500且不泄露内部信息", func(t *testing.T) {
		w := perform(func(c *gin.Context) {
			Error(c, errors.New("dial tcp 10.0.0.3:3306: connection refused"))
		})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "10.0.0.3")
		assert.Contains(t, w.Body.String(), apperrors.ErrInternal.Message)
	})

	t.Run("认证错误返回401", func(t *testing.T) {
		w := perform(func(c *gin.Context) {
			Error(c, apperrors.ErrInvalidCredentials)
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.NotContains(t, w.Body.String(), `"errors"`)
	})
}

func TestSuccessHelpers(t *testing.T) {
	w := perform(func(c *gin.Context) { Created(c, gin.H{"id": 1}) })
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":1}`, w.Body.String())

	w = perform(func(c *gin.Context) { NoContent(c) })
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}
