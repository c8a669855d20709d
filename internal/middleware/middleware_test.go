package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/learncircle/internal/app/models/dto"
	"github.com/yigit/learncircle/internal/pkg/apperrors"
	"github.com/yigit/learncircle/internal/pkg/auth"
	"github.com/yigit/learncircle/internal/pkg/filestorage"
)

func TestClassifyError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
		field  string
	}{
		{"duplicate username", apperrors.ErrUsernameAlreadyExists, http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists, "username"},
		{"duplicate email", apperrors.ErrEmailAlreadyExists, http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists, "email"},
		{"bad due date", fmt.Errorf("parse: %w", apperrors.ErrInvalidDueDate), http.StatusBadRequest, dto.ErrorCodeValidationFailed, "due_date"},
		{"missing file", apperrors.ErrFileMissing, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "file"},
		{"unsafe filename", filestorage.ErrUnsafeFilename, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "file"},
		{"dangling reference", apperrors.ErrInvalidReference, http.StatusBadRequest, dto.ErrorCodeValidationFailed, ""},
		{"credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, ""},
		{"expired", apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, ""},
		{"bad token", apperrors.ErrInvalidFormat, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, ""},
		{"forbidden", apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, ""},
		{"no circle", apperrors.ErrCircleNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, ""},
		{"no task", apperrors.ErrTaskNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, ""},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, detail := classifyError(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, detail.Code)
			assert.Equal(t, tc.field, detail.Field)
		})
	}
}

func TestClassifyErrorKeepsClientMessage(t *testing.T) {
	err := apperrors.NewCustomError(apperrors.ErrInvalidReference, "user_id 9 does not exist")
	status, detail := classifyError(err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "user_id 9 does not exist", detail.Message)

	_, detail = classifyError(errors.New("pq: relation missing"))
	assert.Equal(t, "Internal server error", detail.Message)
	assert.Equal(t, dto.ErrorSeverityCritical, detail.Severity)
}

func newAuthRouter(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "k", AccessTokenExp: time.Hour, TokenIssuer: "test"})

	r := gin.New()
	r.GET("/private", NewAuthMiddleware(jwtService).JWTAuth(), func(c *gin.Context) {
		id, err := GetUserIDFromContext(c)
		if err != nil {
			HandleAPIError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id, "username": c.GetString(ContextUsername)})
	})
	return r, jwtService
}

func TestJWTAuth(t *testing.T) {
	r, jwtService := newAuthRouter(t)
	token, _, err := jwtService.GenerateAccessToken(42, "ada", "student")
	require.NoError(t, err)

	cases := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{"bearer header", "/private", "Bearer " + token, http.StatusOK},
		{"raw header", "/private", token, http.StatusOK},
		{"query param", "/private?token=" + token, "", http.StatusOK},
		{"missing", "/private", "", http.StatusUnauthorized},
		{"garbage", "/private", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"not a jwt", "/private", "Basic dXNlcg==", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			require.Equal(t, tc.status, w.Code, w.Body.String())

			if tc.status == http.StatusOK {
				var body map[string]interface{}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.EqualValues(t, 42, body["id"])
				assert.Equal(t, "ada", body["username"])
			}
		})
	}
}

func TestJWTAuthRejectsForeignSecret(t *testing.T) {
	r, _ := newAuthRouter(t)
	other := auth.NewJWTService(auth.JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour, TokenIssuer: "test"})
	token, _, err := other.GenerateAccessToken(1, "eve", "student")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	r := gin.New()
	r.Use(RequestLogger(zerolog.New(&buf)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/fail", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "abc-123", line["request_id"])
	assert.EqualValues(t, http.StatusNoContent, line["status"])

	buf.Reset()
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "error", line["level"])
}
