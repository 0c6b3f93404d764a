// Package storage はデバイス画像をローカルディスクに置く。
// キーはファイル名のみで、URLは StaticURLPrefix + "/images/" + key。
package storage

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrUnsupportedType      = errors.New("unsupported image type")
	ErrUnsupportedExtension = errors.New("unsupported image extension")
	ErrInvalidKey           = errors.New("invalid image key")
)

// 許可する拡張子と中身の MIME
var allowed = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

type LocalImageStore struct {
	dir string
}

// dir は <StaticDir>/images
func NewLocalImageStore(staticDir string) *LocalImageStore {
	return &LocalImageStore{dir: filepath.Join(staticDir, "images")}
}

func (s *LocalImageStore) Dir() string { return s.dir }

// Save は検査してランダムな名前で保存し、キーを返す
func (s *LocalImageStore) Save(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	want, ok := allowed[ext]
	if !ok {
		return "", ErrUnsupportedExtension
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	got := http.DetectContentType(head)
	if _, known := mimeSet[got]; !known {
		return "", ErrUnsupportedType
	}
	// .jpg に png を入れた等
	if got != want {
		return "", ErrUnsupportedExtension
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir images: %w", err)
	}

	id := uuid.New()
	key := hex.EncodeToString(id[:]) + ext

	dst, err := os.OpenFile(filepath.Join(s.dir, key), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create image: %w", err)
	}
	if _, err := io.Copy(dst, io.MultiReader(bytes.NewReader(head), src)); err != nil {
		_ = dst.Close()
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("write image: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("close image: %w", err)
	}
	return key, nil
}

// Remove は無ければ何もしない
func (s *LocalImageStore) Remove(ctx context.Context, key string) error {
	if key == "" || key != filepath.Base(key) || strings.HasPrefix(key, ".") {
		return ErrInvalidKey
	}
	err := os.Remove(filepath.Join(s.dir, key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

var mimeSet = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}
