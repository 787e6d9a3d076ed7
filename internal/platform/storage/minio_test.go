package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	minioLib "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMinio implements minioAPI for testing without network.
type fakeMinio struct {
	bucketExists    bool
	bucketExistsErr error
	makeBucketErr   error
	madeBucket      bool

	putKey  string
	putType string
	putBody []byte
	putErr  error

	getRC  io.ReadCloser
	getErr error

	statInfo minioLib.ObjectInfo
	statErr  error
}

func (f *fakeMinio) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.bucketExists, f.bucketExistsErr
}

func (f *fakeMinio) MakeBucket(_ context.Context, _ string, _ minioLib.MakeBucketOptions) error {
	f.madeBucket = true
	return f.makeBucketErr
}

func (f *fakeMinio) PutObject(_ context.Context, _ string, key string, r io.Reader, _ int64, opts minioLib.PutObjectOptions) (minioLib.UploadInfo, error) {
	f.putKey, f.putType = key, opts.ContentType
	f.putBody, _ = io.ReadAll(r)
	return minioLib.UploadInfo{}, f.putErr
}

func (f *fakeMinio) GetObject(_ context.Context, _ string, _ string, _ minioLib.GetObjectOptions) (io.ReadCloser, error) {
	return f.getRC, f.getErr
}

func (f *fakeMinio) StatObject(_ context.Context, _ string, _ string, _ minioLib.StatObjectOptions) (minioLib.ObjectInfo, error) {
	return f.statInfo, f.statErr
}

func TestNewMinioStorage_Bucket(t *testing.T) {
	ctx := context.Background()

	api := &fakeMinio{bucketExists: true}
	_, err := newMinioStorageWithAPI(ctx, api, "b")
	require.NoError(t, err)
	assert.False(t, api.madeBucket)

	api = &fakeMinio{bucketExists: false}
	_, err = newMinioStorageWithAPI(ctx, api, "b")
	require.NoError(t, err)
	assert.True(t, api.madeBucket)

	_, err = newMinioStorageWithAPI(ctx, &fakeMinio{bucketExistsErr: errors.New("boom")}, "b")
	assert.ErrorContains(t, err, "failed to check bucket existence")

	_, err = newMinioStorageWithAPI(ctx, &fakeMinio{makeBucketErr: errors.New("fail")}, "b")
	assert.ErrorContains(t, err, "failed to create bucket")
}

func TestMinioStorage_Put(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: true}
	s, err := newMinioStorageWithAPI(ctx, api, "b")
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, "uploads/a.png", bytes.NewReader([]byte("data")), 4, "image/png"))
	assert.Equal(t, "uploads/a.png", api.putKey)
	assert.Equal(t, "image/png", api.putType)
	assert.Equal(t, []byte("data"), api.putBody)

	api.putErr = errors.New("network")
	assert.ErrorContains(t, s.Put(ctx, "k", bytes.NewReader(nil), 0, ""), "failed to upload object")
}

func TestMinioStorage_Get(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{
		bucketExists: true,
		statInfo:     minioLib.ObjectInfo{Size: 4, ContentType: "image/png"},
		getRC:        io.NopCloser(bytes.NewReader([]byte("data"))),
	}
	s, err := newMinioStorageWithAPI(ctx, api, "b")
	require.NoError(t, err)

	rc, info, err := s.Get(ctx, "uploads/a.png")
	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, ObjectInfo{Size: 4, ContentType: "image/png"}, info)
	body, _ := io.ReadAll(rc)
	assert.Equal(t, "data", string(body))
}

func TestMinioStorage_Get_NotFound(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: true, statErr: minioLib.ErrorResponse{Code: "NoSuchKey"}}
	s, err := newMinioStorageWithAPI(ctx, api, "b")
	require.NoError(t, err)

	_, _, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	api.statErr = errors.New("timeout")
	_, _, err = s.Get(ctx, "missing")
	assert.ErrorContains(t, err, "failed to stat object")
}
