package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog_backend/internal/feature/upload/usecase"
	"blog_backend/internal/platform/storage"
	"blog_backend/internal/shared/apperror"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type mockUploadUsecase struct {
	UploadFunc func(ctx context.Context, r io.Reader) (*usecase.Object, error)
	OpenFunc   func(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error)
}

func (m *mockUploadUsecase) Upload(ctx context.Context, r io.Reader) (*usecase.Object, error) {
	return m.UploadFunc(ctx, r)
}

func (m *mockUploadUsecase) Open(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	return m.OpenFunc(ctx, key)
}

func newRouter(h *UploadHandler) *gin.Engine {
	r := gin.New()
	r.POST("/uploads", h.Upload)
	r.GET("/uploads/*key", h.Get)
	return r
}

func multipartBody(t *testing.T, field string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, "photo.png")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUploadHandler_Upload(t *testing.T) {
	t.Parallel()

	var received []byte
	mock := &mockUploadUsecase{
		UploadFunc: func(ctx context.Context, r io.Reader) (*usecase.Object, error) {
			received, _ = io.ReadAll(r)
			return &usecase.Object{Key: "uploads/abc.png", ContentType: "image/png", Size: int64(len(received))}, nil
		},
	}
	r := newRouter(NewUploadHandler(mock, "http://cdn.local/"))

	body, ct := multipartBody(t, "file", []byte("png-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/uploads", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "png-bytes", string(received))
	assert.Contains(t, w.Body.String(), `"url":"http://cdn.local/uploads/abc.png"`)
}

func TestUploadHandler_Upload_Errors(t *testing.T) {
	t.Parallel()

	mock := &mockUploadUsecase{
		UploadFunc: func(ctx context.Context, r io.Reader) (*usecase.Object, error) {
			return nil, apperror.InvalidArgument(usecase.MsgUnsupported)
		},
	}
	r := newRouter(NewUploadHandler(mock, ""))

	body, ct := multipartBody(t, "other", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/uploads", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "file is required")

	body, ct = multipartBody(t, "file", []byte("%PDF"))
	req = httptest.NewRequest(http.MethodPost, "/uploads", body)
	req.Header.Set("Content-Type", ct)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), usecase.MsgUnsupported)
}

func TestUploadHandler_Get(t *testing.T) {
	t.Parallel()

	var gotKey string
	mock := &mockUploadUsecase{
		OpenFunc: func(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
			gotKey = key
			if key != "uploads/abc.png" {
				return nil, storage.ObjectInfo{}, apperror.NotFound(usecase.MsgFileMissing)
			}
			return io.NopCloser(bytes.NewReader([]byte("img"))), storage.ObjectInfo{Size: 3, ContentType: "image/png"}, nil
		},
	}
	r := newRouter(NewUploadHandler(mock, ""))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/abc.png", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "uploads/abc.png", gotKey)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "img", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/missing.png", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
