package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shortlink-desk/internal/apperrors"
	"shortlink-desk/internal/i18n"
)

type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func newTestEngine(t *testing.T, handler gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalog, err := i18n.InitI18n("en")
	require.NoError(t, err)

	r := gin.New()
	r.Use(GlobalErrorMiddleware())
	r.Use(ZapGinLogger(zap.NewNop()))
	r.Use(CorsMiddleware())
	r.Use(I18nMiddleware(catalog))
	r.GET("/test", handler)
	return r
}

func TestGlobalErrorMiddleware_AppError(t *testing.T) {
	r := newTestEngine(t, func(c *gin.Context) {
		_ = c.Error(apperrors.DuplicateCodeError("error.shortcode_exists"))
	})

	tests := []struct {
		lang string
		want string
	}{
		{"en", "This custom code is already in use"},
		{"zh-CN", "该自定义短码已被使用"},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Accept-Language", tt.lang)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		var body errorBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.Equal(t, tt.want, body.Message)
	}
}

func TestGlobalErrorMiddleware_UnknownError(t *testing.T) {
	r := newTestEngine(t, func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "System error, please try again later", body.Message)
}

func TestCorsMiddleware_Preflight(t *testing.T) {
	r := newTestEngine(t, func(c *gin.Context) { c.Status(http.StatusOK) })
	r.OPTIONS("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/test", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestI18nMiddleware_ContentLanguage(t *testing.T) {
	r := newTestEngine(t, func(c *gin.Context) {
		c.String(http.StatusOK, i18n.T(c.Request.Context(), "msg.deleted", nil))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Accept-Language", "zh")
	r.ServeHTTP(w, req)

	assert.Equal(t, "zh", w.Header().Get("Content-Language"))
	assert.Equal(t, "短链已删除", w.Body.String())
}
