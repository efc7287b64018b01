package memory

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/objectfs/bosfs/pkg/errors"
	"github.com/objectfs/bosfs/pkg/types"
)

func TestClient_PutGetMeta(t *testing.T) {
	ctx := context.Background()
	c := New()
	fixed := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	c.SetClock(func() time.Time { return fixed })

	require.NoError(t, c.PutObject(ctx, "docs/readme.txt", []byte("hello"), nil))

	data, err := c.GetObject(ctx, "docs/readme.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	meta, err := c.GetObjectMeta(ctx, "docs/readme.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(5), meta.ContentLength)
	assert.Equal(t, "text/plain", meta.ContentType)

	parsed, err := http.ParseTime(meta.LastModified)
	require.NoError(t, err)
	assert.Equal(t, fixed.Unix(), parsed.Unix())
}

func TestDetectContentType(t *testing.T) {
	tests := []struct {
		key      string
		expected string
	}{
		{"docs/readme.txt", "text/plain"},
		{"REPORT.CSV", "text/csv"},
		{"index.html", "text/html"},
		{"photo.png", "image/png"},
		{"module.wasm", "application/wasm"},
		{"archive.unknownext", "application/octet-stream"},
		{"no-extension", "application/octet-stream"},
		{"dir.d/file", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.expected, detectContentType(tt.key))
		})
	}
}

func TestClient_PutOptions(t *testing.T) {
	ctx := context.Background()
	c := New()

	opts := &types.PutOptions{
		Headers: map[string]string{
			"Content-Type":       "application/x-custom",
			"x-bce-meta-Project": "bosfs",
		},
	}
	require.NoError(t, c.PutObject(ctx, "a.bin", []byte{1, 2, 3}, opts))

	meta, err := c.GetObjectMeta(ctx, "a.bin")
	require.NoError(t, err)
	assert.Equal(t, "application/x-custom", meta.ContentType)
	assert.Equal(t, "bosfs", meta.UserMeta["project"])
}

func TestClient_GetMissing(t *testing.T) {
	ctx := context.Background()
	c := New()

	_, err := c.GetObject(ctx, "missing")
	assert.True(t, errors.IsNotFound(err))

	_, err = c.GetObjectMeta(ctx, "missing")
	assert.True(t, errors.IsNotFound(err))

	assert.True(t, errors.IsNotFound(c.DeleteObject(ctx, "missing")))
	assert.True(t, errors.IsNotFound(c.CopyObject(ctx, "missing", "other")))
}

func TestClient_ReturnedDataIsCopy(t *testing.T) {
	ctx := context.Background()
	c := New()

	src := []byte("abc")
	require.NoError(t, c.PutObject(ctx, "k", src, nil))
	src[0] = 'z'

	data, err := c.GetObject(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))

	data[1] = 'z'
	again, err := c.GetObject(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestClient_CopyDelete(t *testing.T) {
	ctx := context.Background()
	c := New()

	require.NoError(t, c.PutObject(ctx, "src", []byte("data"), nil))
	require.NoError(t, c.PutObjectACL(ctx, "src", types.ACLPublicRead))
	require.NoError(t, c.CopyObject(ctx, "src", "dst"))

	data, err := c.GetObject(ctx, "dst")
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))

	_, err = c.GetObjectACL(ctx, "dst")
	assert.True(t, errors.IsNotFound(err), "copy must not carry the ACL")

	require.NoError(t, c.DeleteObject(ctx, "src"))
	assert.Equal(t, []string{"dst"}, c.Keys())
}

func TestClient_ListObjects(t *testing.T) {
	ctx := context.Background()
	c := New()

	for _, key := range []string{"a.txt", "dir/", "dir/b.txt", "dir/sub/c.txt", "other/d.txt"} {
		require.NoError(t, c.PutObject(ctx, key, []byte(key), nil))
	}

	t.Run("recursive", func(t *testing.T) {
		res, err := c.ListObjects(ctx, types.ListOptions{Prefix: "dir/"})
		require.NoError(t, err)

		var keys []string
		for _, o := range res.Contents {
			keys = append(keys, o.Key)
		}
		assert.Equal(t, []string{"dir/", "dir/b.txt", "dir/sub/c.txt"}, keys)
		assert.Empty(t, res.CommonPrefixes)
	})

	t.Run("delimited", func(t *testing.T) {
		res, err := c.ListObjects(ctx, types.ListOptions{Prefix: "dir/", Delimiter: "/"})
		require.NoError(t, err)

		var keys []string
		for _, o := range res.Contents {
			keys = append(keys, o.Key)
		}
		assert.Equal(t, []string{"dir/", "dir/b.txt"}, keys)
		assert.Equal(t, []string{"dir/sub/"}, res.CommonPrefixes)
	})

	t.Run("root delimited", func(t *testing.T) {
		res, err := c.ListObjects(ctx, types.ListOptions{Delimiter: "/"})
		require.NoError(t, err)

		require.Len(t, res.Contents, 1)
		assert.Equal(t, "a.txt", res.Contents[0].Key)
		assert.Equal(t, []string{"dir/", "other/"}, res.CommonPrefixes)
	})

	t.Run("marker and max keys", func(t *testing.T) {
		res, err := c.ListObjects(ctx, types.ListOptions{Marker: "a.txt", MaxKeys: 2})
		require.NoError(t, err)

		require.Len(t, res.Contents, 2)
		assert.Equal(t, "dir/", res.Contents[0].Key)
		assert.Equal(t, "dir/b.txt", res.Contents[1].Key)
	})

	t.Run("empty prefix match", func(t *testing.T) {
		res, err := c.ListObjects(ctx, types.ListOptions{Prefix: "nothing/"})
		require.NoError(t, err)
		assert.Empty(t, res.Contents)
		assert.Empty(t, res.CommonPrefixes)
	})
}

func TestClient_ACL(t *testing.T) {
	ctx := context.Background()
	c := New()
	require.NoError(t, c.PutObject(ctx, "k", []byte("x"), nil))

	_, err := c.GetObjectACL(ctx, "k")
	assert.True(t, errors.IsNotFound(err))

	require.NoError(t, c.PutObjectACL(ctx, "k", types.ACLPublicRead))
	acl, err := c.GetObjectACL(ctx, "k")
	require.NoError(t, err)
	require.Len(t, acl.Grants, 2)
	assert.Equal(t, []string{types.WildcardGrantee}, acl.Grants[1].Grantees)
	assert.Equal(t, []string{types.PermissionRead}, acl.Grants[1].Permissions)

	require.NoError(t, c.PutObjectACL(ctx, "k", types.ACLPrivate))
	acl, err = c.GetObjectACL(ctx, "k")
	require.NoError(t, err)
	assert.Len(t, acl.Grants, 1)

	err = c.PutObjectACL(ctx, "k", types.CannedACL("bogus"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeStorageRequest))

	assert.True(t, errors.IsNotFound(c.PutObjectACL(ctx, "missing", types.ACLPrivate)))
}

func TestClient_BucketACL(t *testing.T) {
	ctx := context.Background()
	c := New()

	acl, err := c.GetBucketACL(ctx)
	require.NoError(t, err)
	assert.Len(t, acl.Grants, 1)

	c.SetBucketACL(types.ACLPublicReadWrite)
	acl, err = c.GetBucketACL(ctx)
	require.NoError(t, err)
	require.Len(t, acl.Grants, 2)
	assert.Contains(t, acl.Grants[1].Permissions, types.PermissionWrite)
}

func TestClient_FailOn(t *testing.T) {
	ctx := context.Background()
	c := New()
	boom := errors.NewError(errors.ErrCodeAccessDenied, "denied")

	c.FailOn(MethodPutObject, boom)
	err := c.PutObject(ctx, "k", []byte("x"), nil)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, c.Keys())

	c.FailOn(MethodPutObject, nil)
	require.NoError(t, c.PutObject(ctx, "k", []byte("x"), nil))

	assert.Equal(t, []string{MethodPutObject, MethodPutObject}, c.Calls())
}

func TestClient_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New()
	err := c.PutObject(ctx, "k", []byte("x"), nil)
	assert.ErrorIs(t, err, context.Canceled)
}
