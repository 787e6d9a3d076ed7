// Package storage はアップロードファイルの保存先（MinIO/S3またはローカルディスク）を提供します。
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound はキーに対応するオブジェクトが存在しない場合に返されます。
var ErrObjectNotFound = errors.New("object not found")

// ObjectInfo は保存済みオブジェクトのメタデータです。
type ObjectInfo struct {
	Size        int64
	ContentType string
}

// Storage はオブジェクトの保存と読み出しを定義します。
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Get は呼び出し側がCloseする必要のあるReadCloserを返します。
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
}
