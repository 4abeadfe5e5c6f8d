// Package uploads handles image attachments: validation, the cache/store
// areas on disk, derivative generation, and signed serving URLs.
package uploads

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const MaxImageSizeBytes = 5 * 1024 * 1024

var allowedMimeTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
}

// Store owns the two storage areas: "cache" holds freshly uploaded
// originals until a promotion job moves them to "store", where derivatives
// live next to them.
type Store struct {
	CacheDir string
	StoreDir string
	secret   []byte
}

func NewStore(cacheDir, storeDir, secret string) *Store {
	return &Store{
		CacheDir: cacheDir,
		StoreDir: storeDir,
		secret:   []byte(secret),
	}
}

// ValidateImage applies the pre-persistence rules: size cap and MIME
// allow-list. The type is sniffed from content, not taken from the header.
// Returned messages are field-level validation errors.
func ValidateImage(fileHeader *multipart.FileHeader) []string {
	var errs []string
	if fileHeader.Size > MaxImageSizeBytes {
		errs = append(errs, fmt.Sprintf("Image is too large (max is %dMB)", MaxImageSizeBytes/(1024*1024)))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return append(errs, "Image could not be read")
	}
	defer src.Close()

	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		return append(errs, "Image could not be read")
	}
	mimeType := http.DetectContentType(buffer[:n])

	allowed := false
	for _, allowedType := range allowedMimeTypes {
		if mimeType == allowedType {
			allowed = true
			break
		}
	}
	if !allowed {
		errs = append(errs, "Image type must be one of: image/jpeg, image/png, image/gif")
	}
	return errs
}

// SaveToCache writes an uploaded original into the cache area and returns
// its area-relative path ("cache/<uuid><ext>").
func (s *Store) SaveToCache(fileHeader *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(s.CacheDir, 0o755); err != nil {
		return "", err
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	name := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(s.CacheDir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return "cache/" + name, nil
}

// Promote moves a cached original into the permanent store area. Promoting
// a path that is already stored, or whose cached file is gone, is a no-op
// so re-delivered jobs stay harmless.
func (s *Store) Promote(relPath string) (string, error) {
	name, ok := strings.CutPrefix(relPath, "cache/")
	if !ok {
		return relPath, nil
	}

	src := filepath.Join(s.CacheDir, name)
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return relPath, nil
	}

	if err := os.MkdirAll(s.StoreDir, 0o755); err != nil {
		return "", err
	}
	dst := filepath.Join(s.StoreDir, name)
	if err := os.Rename(src, dst); err != nil {
		return "", err
	}
	return "store/" + name, nil
}

// Remove deletes stored files. Missing files are skipped, so destruction
// jobs can run more than once.
func (s *Store) Remove(relPaths ...string) error {
	for _, relPath := range relPaths {
		if relPath == "" {
			continue
		}
		abs, err := s.Resolve(relPath)
		if err != nil {
			continue
		}
		if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Resolve maps an area-relative path to its absolute location, rejecting
// anything that escapes the storage areas.
func (s *Store) Resolve(relPath string) (string, error) {
	cleaned := filepath.Clean(relPath)
	if strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("invalid path %q", relPath)
	}
	switch {
	case strings.HasPrefix(cleaned, "cache/") || strings.HasPrefix(cleaned, "cache\\"):
		return filepath.Join(s.CacheDir, cleaned[len("cache/"):]), nil
	case strings.HasPrefix(cleaned, "store/") || strings.HasPrefix(cleaned, "store\\"):
		return filepath.Join(s.StoreDir, cleaned[len("store/"):]), nil
	default:
		return "", fmt.Errorf("invalid path %q", relPath)
	}
}

// Sign derives the HMAC token that authorizes serving a stored path.
func (s *Store) Sign(relPath string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(relPath))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a token produced by Sign.
func (s *Store) VerifySignature(relPath, signature string) bool {
	expected := s.Sign(relPath)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// URL builds the signed serving URL for an attachment path.
func (s *Store) URL(relPath string) string {
	return fmt.Sprintf("/uploads/%s?sig=%s", relPath, s.Sign(relPath))
}
