package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"disasterconnect-http-service/internal/domain/services"
	"disasterconnect-http-service/internal/infrastructure/config"
	"disasterconnect-http-service/internal/test/testdb"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testSessionManager(cfg *config.Config) *SessionManager {
	return NewSessionManager(services.NewSessionService(cfg), cfg)
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "session" {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestSessionCookieRoundTrip(t *testing.T) {
	cfg := &config.Config{SecretKey: "k", SessionCookieName: "session", SessionLifetime: time.Hour, EnvType: "SERVER"}
	r := gin.New()
	r.Use(testSessionManager(cfg).Middleware())
	r.POST("/login", func(c *gin.Context) {
		s := GetSession(c)
		s.SetUser(7)
		require.NoError(t, s.Save(c))
		c.Status(http.StatusOK)
	})
	r.GET("/me", RequireUser(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetUint(UserIDKey)})
	})
	r.POST("/logout", func(c *gin.Context) {
		s := GetSession(c)
		s.ClearUser()
		require.NoError(t, s.Save(c))
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	cookie := sessionCookie(t, w)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteNoneMode, cookie.SameSite)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":7}`, w.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.True(t, sessionCookie(t, w).MaxAge < 0)
}

func TestTamperedSessionIsEmpty(t *testing.T) {
	cfg := &config.Config{SecretKey: "k", SessionCookieName: "session"}
	r := gin.New()
	r.Use(testSessionManager(cfg).Middleware())
	r.GET("/me", RequireUser(), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "forged.token.value"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdminClearsDanglingSession(t *testing.T) {
	cfg := testdb.Config()
	db := testdb.New(t, cfg).GetDB()
	admins := services.NewAdminService(db, cfg)
	admin, err := admins.CreateAdmin("root", "root@example.com", "pw")
	require.NoError(t, err)

	r := gin.New()
	r.Use(testSessionManager(cfg).Middleware())
	r.POST("/login/:id", func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		require.NoError(t, err)
		s := GetSession(c)
		s.SetAdmin(uint(id))
		require.NoError(t, s.Save(c))
	})
	r.GET("/admin", RequireAdmin(admins), func(c *gin.Context) { c.Status(http.StatusOK) })

	// valid admin
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, fmt.Sprintf("/login/%d", admin.ID), nil))
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(sessionCookie(t, w))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// admin id that does not exist
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, fmt.Sprintf("/login/%d", admin.ID+100), nil))
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(sessionCookie(t, w))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, sessionCookie(t, w).MaxAge < 0)

	// no session at all
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestResponseCacheServesAndPurges(t *testing.T) {
	rc := NewResponseCache(time.Minute)
	calls := 0

	r := gin.New()
	r.Use(rc.PurgeOnWrite())
	r.GET("/reports", rc.Cache(), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"calls": calls})
	})
	r.POST("/reports", func(c *gin.Context) { c.Status(http.StatusCreated) })
	r.POST("/fail", func(c *gin.Context) { c.Status(http.StatusBadRequest) })

	get := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports", nil))
		return w
	}

	first := get()
	second := get()
	assert.Equal(t, "MISS", first.Header().Get(CacheHeader))
	assert.Equal(t, "HIT", second.Header().Get(CacheHeader))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, calls)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/fail", nil))
	get()
	assert.Equal(t, 1, calls)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reports", strings.NewReader("{}")))
	third := get()
	assert.Equal(t, "MISS", third.Header().Get(CacheHeader))
	assert.Equal(t, 2, calls)

	stats := rc.Stats()
	assert.Equal(t, 1, stats["total_items"])
	assert.Equal(t, uint64(2), stats["hits"])
}

func TestResponseCacheDropsBodyReadBeforePurge(t *testing.T) {
	rc := NewResponseCache(time.Minute)
	read := make(chan struct{})
	release := make(chan struct{})
	body := "old"

	r := gin.New()
	r.Use(rc.PurgeOnWrite())
	r.GET("/reports", rc.Cache(), func(c *gin.Context) {
		snapshot := body
		if snapshot == "old" {
			close(read)
			<-release
		}
		c.String(http.StatusOK, snapshot)
	})
	r.POST("/reports", func(c *gin.Context) {
		body = "new"
		c.Status(http.StatusCreated)
	})

	done := make(chan *httptest.ResponseRecorder)
	go func() {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports", nil))
		done <- w
	}()

	<-read
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reports", nil))
	require.Equal(t, http.StatusCreated, w.Code)
	close(release)

	stale := <-done
	assert.Equal(t, "old", stale.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports", nil))
	assert.Equal(t, "MISS", w.Header().Get(CacheHeader))
	assert.Equal(t, "new", w.Body.String())
}

func TestResponseCacheCleanExpired(t *testing.T) {
	rc := NewResponseCache(time.Millisecond)
	rc.items["k"] = cacheEntry{Expiration: time.Now().Add(-time.Second)}
	rc.CleanExpired()
	assert.Empty(t, rc.items)
}

func TestRateLimiterMiddleware(t *testing.T) {
	limiter := IPRateLimiter(0.0001, 2)
	r := gin.New()
	r.POST("/login", limiter.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, limiter.Size())
}

func TestTokenBucketRefills(t *testing.T) {
	tb := NewTokenBucket(1000, 1)
	assert.True(t, tb.Allow())
	time.Sleep(5 * time.Millisecond)
	assert.True(t, tb.Allow())
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestCORSAllowsConfiguredOriginWithCredentials(t *testing.T) {
	r := gin.New()
	r.Use(CORS(&config.Config{CORSOrigins: "http://localhost:5173"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
