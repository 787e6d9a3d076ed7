package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog_backend/internal/shared/apperror"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func perform(t *testing.T, err error) (*httptest.ResponseRecorder, ErrorResponse) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	WriteError(c, err)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, c.IsAborted())
	return w, body
}

// TestWriteError はエラー種別ごとのステータスとメッセージを検証します。
func TestWriteError(t *testing.T) {
	t.Parallel()

	_, uuidErr := uuid.Parse("not-a-uuid")

	tests := []struct {
		name        string
		err         error
		wantCode    int
		wantMessage string
	}{
		{"not found", apperror.NotFound("Article not found"), http.StatusNotFound, "Article not found"},
		{"wrapped conflict", fmt.Errorf("signup: %w", apperror.Conflict("Email already exists")), http.StatusConflict, "Email already exists"},
		{"forbidden", apperror.Forbidden("Forbidden"), http.StatusForbidden, "Forbidden"},
		{"rate limited", apperror.RateLimited("Too Many Requests"), http.StatusTooManyRequests, "Too Many Requests"},
		{"pg undefined column", &pgconn.PgError{Code: "42703", Message: `column "foo" does not exist`}, http.StatusBadRequest, "Invalid Property"},
		{"pg invalid uuid", &pgconn.PgError{Code: "22P02", Message: "invalid input syntax for type uuid"}, http.StatusBadRequest, "Invalid UUID"},
		{"column text only", errors.New(`ERROR: column "secret" does not exist`), http.StatusBadRequest, "Invalid Property"},
		{"uuid parse", uuidErr, http.StatusBadRequest, "Invalid UUID"},
		{"unknown", errors.New("dial tcp 10.0.0.1:5432: connection refused"), http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w, body := perform(t, tt.err)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, "error", body.Status)
			assert.Equal(t, tt.wantMessage, body.Message)
		})
	}
}

// TestWriteError_DoesNotLeakInternalText は500応答に内部エラー文言が含まれないことを検証します。
func TestWriteError_DoesNotLeakInternalText(t *testing.T) {
	t.Parallel()

	w, _ := perform(t, errors.New("pq: password authentication failed for user blog"))

	assert.NotContains(t, w.Body.String(), "password authentication")
}

// TestBindError_Validation はバインド時のバリデーションエラーがフィールドごとの詳細になることを検証します。
func TestBindError_Validation(t *testing.T) {
	t.Parallel()

	type req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
	}

	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			WriteError(c, BindError(err))
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	httpReq := httptest.NewRequest(http.MethodPost, "/", stringsReader(`{"email":"nope","password":"short"}`))
	httpReq.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, httpReq)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Validation Error", body.Message)
	assert.ElementsMatch(t, []string{
		"Email must be a valid email",
		"Password must be at least 8 characters",
	}, body.Errors)
}

func TestBindError_MalformedJSON(t *testing.T) {
	t.Parallel()

	err := BindError(errors.New("unexpected EOF"))

	assert.Equal(t, apperror.KindInvalidArgument, apperror.KindOf(err))
}
