package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrUnsupportedType = errors.New("unsupported image type")

// AvatarStore keeps uploaded avatars on disk under a per-user path and
// hands out public URLs for them. The HTTP layer serves the directory
// under /avatars.
type AvatarStore struct {
	dir     string
	baseURL string
}

func NewAvatarStore(dir, baseURL string) *AvatarStore {
	return &AvatarStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

// Dir is the on-disk root, for static file serving.
func (s *AvatarStore) Dir() string {
	return s.dir
}

// Save stores the image under <dir>/<userID>/<random>.<ext> and
// returns its public URL. Existing avatars are left in place; the
// profile row only ever points at the newest one.
func (s *AvatarStore) Save(userID, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
	default:
		return "", ErrUnsupportedType
	}

	userDir := filepath.Join(s.dir, userID)
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		return "", err
	}

	name := uuid.NewString() + ext
	path := filepath.Join(userDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", err
	}

	return s.baseURL + "/avatars/" + userID + "/" + name, nil
}
