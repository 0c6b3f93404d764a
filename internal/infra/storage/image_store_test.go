package storage

import (
	"bytes"
	"context"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngHead  = []byte("\x89PNG\r\n\x1a\n")
	jpegHead = []byte("\xff\xd8\xff\xe0")
)

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("img", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	require.Len(t, form.File["img"], 1)
	return form.File["img"][0]
}

func TestLocalImageStore_Save(t *testing.T) {
	s := NewLocalImageStore(t.TempDir())
	content := append(append([]byte{}, pngHead...), bytes.Repeat([]byte{1}, 2048)...)

	key, err := s.Save(context.Background(), fileHeader(t, "cat.PNG", content))
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9a-f]{32}\.png$`, key)

	got, err := os.ReadFile(filepath.Join(s.Dir(), key))
	require.NoError(t, err)
	assert.Equal(t, content, got)

	// 同じファイルでも別のキー
	key2, err := s.Save(context.Background(), fileHeader(t, "cat.png", content))
	require.NoError(t, err)
	assert.NotEqual(t, key, key2)
}

func TestLocalImageStore_Save_Rejects(t *testing.T) {
	s := NewLocalImageStore(t.TempDir())
	ctx := context.Background()

	tests := []struct {
		name     string
		filename string
		content  []byte
		want     error
	}{
		{"gif extension", "a.gif", pngHead, ErrUnsupportedExtension},
		{"no extension", "a", pngHead, ErrUnsupportedExtension},
		{"text body", "a.png", []byte("hello"), ErrUnsupportedType},
		{"empty body", "a.jpg", nil, ErrUnsupportedType},
		{"png named jpg", "a.jpg", pngHead, ErrUnsupportedExtension},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Save(ctx, fileHeader(t, tt.filename, tt.content))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := os.Stat(s.Dir())
	assert.True(t, os.IsNotExist(err))
}

func TestLocalImageStore_Save_JPEG(t *testing.T) {
	s := NewLocalImageStore(t.TempDir())

	key, err := s.Save(context.Background(), fileHeader(t, "photo.jpeg", append(append([]byte{}, jpegHead...), 0, 0, 0)))
	require.NoError(t, err)
	assert.Regexp(t, `\.jpeg$`, key)
}

func TestLocalImageStore_Remove(t *testing.T) {
	s := NewLocalImageStore(t.TempDir())
	ctx := context.Background()

	key, err := s.Save(ctx, fileHeader(t, "a.png", pngHead))
	require.NoError(t, err)

	require.NoError(t, s.Remove(ctx, key))
	_, err = os.Stat(filepath.Join(s.Dir(), key))
	assert.True(t, os.IsNotExist(err))

	// 無くてもエラーにしない
	assert.NoError(t, s.Remove(ctx, key))

	assert.ErrorIs(t, s.Remove(ctx, "../secret.png"), ErrInvalidKey)
	assert.ErrorIs(t, s.Remove(ctx, ""), ErrInvalidKey)
}
