// Package handler はuploadフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"blog_backend/internal/api"
	"blog_backend/internal/feature/upload/usecase"
	jwtmw "blog_backend/internal/platform/jwt"
	"blog_backend/internal/platform/storage"
	"blog_backend/internal/shared/apperror"
)

// multipartOverhead はファイル本体以外のマルチパートのヘッダー分の余裕です。
const multipartOverhead = 1 << 20

// UploadUsecase はファイルの保存と読み出しを定義します。
type UploadUsecase interface {
	Upload(ctx context.Context, r io.Reader) (*usecase.Object, error)
	Open(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error)
}

// UploadRes は POST /uploads のレスポンスです。
type UploadRes struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// UploadHandler はファイルアップロードのHTTPリクエストを処理します。
type UploadHandler struct {
	uploads UploadUsecase
	baseURL string
}

// NewUploadHandler はUploadHandlerの新しいインスタンスを生成します。
// baseURLはレスポンスのurlの組み立てに使います。
func NewUploadHandler(uploads UploadUsecase, baseURL string) *UploadHandler {
	return &UploadHandler{uploads: uploads, baseURL: strings.TrimRight(baseURL, "/")}
}

// Upload はマルチパートのfileフィールドを保存します。
func (h *UploadHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, usecase.MaxSize+multipartOverhead)

	fh, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			api.WriteError(c, apperror.InvalidArgument(usecase.MsgTooLarge))
			return
		}
		api.WriteError(c, apperror.InvalidArgument("Validation Error", "file is required"))
		return
	}
	if fh.Size > usecase.MaxSize {
		api.WriteError(c, apperror.InvalidArgument(usecase.MsgTooLarge))
		return
	}
	f, err := fh.Open()
	if err != nil {
		api.WriteError(c, err)
		return
	}
	defer f.Close()

	obj, err := h.uploads.Upload(c.Request.Context(), f)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	var uploader any
	if p, ok := jwtmw.CurrentPrincipal(c); ok {
		uploader = p.User.PublicID
	}
	slog.Info("file uploaded", "key", obj.Key, "size", obj.Size, "content_type", obj.ContentType, "user_id", uploader)
	api.Created(c, "File uploaded", UploadRes{
		Key:         obj.Key,
		URL:         h.baseURL + "/" + obj.Key,
		ContentType: obj.ContentType,
		Size:        obj.Size,
	})
}

// Get は GET /uploads/*key でファイルを配信します。
func (h *UploadHandler) Get(c *gin.Context) {
	key := strings.TrimSuffix(usecase.KeyPrefix, "/") + c.Param("key")
	rc, info, err := h.uploads.Open(c.Request.Context(), key)
	if err != nil {
		api.WriteError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.Header("X-Content-Type-Options", "nosniff")
	c.DataFromReader(http.StatusOK, info.Size, info.ContentType, rc, map[string]string{
		"Content-Disposition": "inline",
	})
}
