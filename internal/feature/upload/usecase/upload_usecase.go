// Package usecase はアップロードファイルの検証と保存を行います。
package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/segmentio/ksuid"

	"blog_backend/internal/platform/storage"
	"blog_backend/internal/shared/apperror"
)

const (
	// MaxSize はアップロードできるファイルサイズの上限（5 MiB）です。
	MaxSize = 5 << 20
	// KeyPrefix は全オブジェクトキーの先頭に付きます。
	KeyPrefix = "uploads/"
)

const (
	MsgTooLarge    = "File is too large"
	MsgUnsupported = "Unsupported file type"
	MsgFileMissing = "File not found"
)

// allowed は受け付けるContent-Typeです。拡張子ではなく内容から判定します。
var allowed = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// Object は保存したファイルです。
type Object struct {
	Key         string
	ContentType string
	Size        int64
}

// UploadUsecase はファイルのアップロードと配信を提供します。
type UploadUsecase struct {
	store storage.Storage
}

// NewUploadUsecase はUploadUsecaseの新しいインスタンスを生成します。
func NewUploadUsecase(store storage.Storage) *UploadUsecase {
	return &UploadUsecase{store: store}
}

// Upload はrを最大MaxSizeまで読み込み、画像であれば保存します。
// キーは uploads/<ksuid><拡張子> です。
func (u *UploadUsecase) Upload(ctx context.Context, r io.Reader) (*Object, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) > MaxSize {
		return nil, apperror.InvalidArgument(MsgTooLarge, fmt.Sprintf("file must be at most %d bytes", MaxSize))
	}
	if len(data) == 0 {
		return nil, apperror.InvalidArgument("Validation Error", "file must not be empty")
	}

	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), allowed...) {
		return nil, apperror.InvalidArgument(MsgUnsupported, mt.String())
	}

	obj := &Object{
		Key:         KeyPrefix + ksuid.New().String() + mt.Extension(),
		ContentType: mt.String(),
		Size:        int64(len(data)),
	}
	if err := u.store.Put(ctx, obj.Key, bytes.NewReader(data), obj.Size, obj.ContentType); err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}
	return obj, nil
}

// Open は保存済みのファイルを返します。呼び出し側がCloseします。
func (u *UploadUsecase) Open(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	clean := path.Clean(key)
	if clean != key || !strings.HasPrefix(clean, KeyPrefix) {
		return nil, storage.ObjectInfo{}, apperror.NotFound(MsgFileMissing)
	}
	rc, info, err := u.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, storage.ObjectInfo{}, apperror.NotFound(MsgFileMissing)
		}
		return nil, storage.ObjectInfo{}, fmt.Errorf("failed to open upload: %w", err)
	}
	return rc, info, nil
}
