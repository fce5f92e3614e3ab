package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"github.com/haierkeys/fast-diary/pkg/app"
	"github.com/haierkeys/fast-diary/pkg/code"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRecoveryWithLogger(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	r := gin.New()
	r.Use(RecoveryWithLogger(zap.New(core)))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "boom")
	assert.Equal(t, 1, logs.FilterMessage("Recovered from unknown panic").Len())
}

func TestAccessLogWithLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := gin.New()
	r.Use(AccessLogWithLogger(zap.New(core)))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping?x=1", nil))

	entries := logs.FilterMessage("/ping").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "/ping?x=1", entries[0].ContextMap()["url"])
	assert.EqualValues(t, http.StatusNoContent, entries[0].ContextMap()["status"])
}

func TestContextTimeout(t *testing.T) {
	r := gin.New()
	r.Use(ContextTimeout(time.Minute))
	var deadline bool
	r.GET("/", func(c *gin.Context) {
		_, deadline = c.Request.Context().Deadline()
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, deadline)
}

func TestLangWithTranslator(t *testing.T) {
	defer code.SetGlobalDefaultLang("en")

	uni, err := app.InitValidator()
	require.NoError(t, err)

	r := gin.New()
	r.Use(LangWithTranslator(uni))
	var locale string
	r.GET("/", func(c *gin.Context) {
		v, _ := c.Get("trans")
		locale = v.(ut.Translator).Locale()
	})

	req := httptest.NewRequest(http.MethodGet, "/?lang=zh-CN", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "zh", locale)
	assert.Equal(t, "zh_cn", code.GetGlobalDefaultLang())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("lang", "fr")
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "en", locale)
	assert.Equal(t, "en", code.GetGlobalDefaultLang())
}

func TestNoFound(t *testing.T) {
	r := gin.New()
	r.NoRoute(NoFound())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil).WithContext(context.Background()))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
