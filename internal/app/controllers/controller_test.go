package controllers

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"disasterconnect-http-service/internal/domain/services"
	"disasterconnect-http-service/internal/error/code"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestBaseURL(t *testing.T) {
	cases := []struct {
		name  string
		proto string
		tls   bool
		want  string
	}{
		{"plain", "", false, "http://reports.local"},
		{"tls", "", true, "https://reports.local"},
		{"forwarded https", "https", false, "https://reports.local"},
		{"forwarded list", "HTTPS, http", false, "https://reports.local"},
		{"unknown scheme ignored", "javascript", false, "http://reports.local"},
		{"injected value ignored", "https://evil.example/x?", true, "https://reports.local"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			req := httptest.NewRequest(http.MethodPost, "http://reports.local/reports", nil)
			if tc.proto != "" {
				req.Header.Set("X-Forwarded-Proto", tc.proto)
			}
			if tc.tls {
				req.TLS = &tls.ConnectionState{}
			}
			c.Request = req

			assert.Equal(t, tc.want, requestBaseURL(c))
		})
	}
}

func TestFailWithErrorMapsCodes(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   int
	}{
		{fmt.Errorf("load: %w", services.ErrNotReportOwner), http.StatusForbidden, code.ErrNotReportOwner},
		{services.ErrUserAlreadyExists, http.StatusBadRequest, code.ErrUserAlreadyExist},
		{fmt.Errorf("lookup: %w", gorm.ErrRecordNotFound), http.StatusNotFound, code.ErrRecordNotFound},
		{errors.New("connection reset"), http.StatusInternalServerError, code.ErrDatabase},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		failWithError(c, tc.err)

		assert.Equal(t, tc.status, w.Code, tc.err.Error())
		assert.Contains(t, w.Body.String(), fmt.Sprintf(`"code":%d`, tc.code), tc.err.Error())
	}
}
