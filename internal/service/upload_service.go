package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"devfolio/internal/domain"
	"devfolio/internal/storage"
)

// Upload is a file received from a multipart request.
type Upload struct {
	OriginalName string
	Size         int64
	ContentType  string
	Body         io.Reader
}

// UploadService stores uploaded files under generated names and hands back
// the public reference recorded alongside entities.
type UploadService interface {
	Store(ctx context.Context, file Upload) (*domain.StoredFile, error)
	// Remove deletes the file behind a recorded reference. References that
	// do not point at a stored upload are ignored.
	Remove(ctx context.Context, ref string) error
	MaxBytes() int64
}

type uploadService struct {
	store        storage.Store
	maxBytes     int64
	publicPrefix string
}

func NewUploadService(store storage.Store, maxBytes int64, publicPrefix string) UploadService {
	if maxBytes <= 0 {
		maxBytes = domain.MaxUploadBytes
	}
	prefix := "/" + strings.Trim(publicPrefix, "/")
	if prefix == "/" {
		prefix = "/uploads"
	}
	return &uploadService{
		store:        store,
		maxBytes:     maxBytes,
		publicPrefix: prefix,
	}
}

func (s *uploadService) MaxBytes() int64 { return s.maxBytes }

func (s *uploadService) Store(ctx context.Context, file Upload) (*domain.StoredFile, error) {
	if file.Body == nil {
		verr := &domain.ValidationError{}
		verr.Add("file", "no file uploaded")
		return nil, verr
	}
	if file.Size > s.maxBytes {
		return nil, &domain.SizeLimitError{Limit: s.maxBytes, Size: file.Size}
	}

	name := uuid.NewString() + extension(file.OriginalName)
	body := &cappedReader{r: file.Body, remaining: s.maxBytes}
	size := file.Size
	if size <= 0 {
		size = -1
	}
	if err := s.store.Save(ctx, name, body, size, file.ContentType); err != nil {
		if body.exceeded {
			return nil, &domain.SizeLimitError{Limit: s.maxBytes, Size: s.maxBytes + 1}
		}
		return nil, domain.Upstream("store upload", err)
	}

	return &domain.StoredFile{
		Filename:     name,
		OriginalName: filepath.Base(file.OriginalName),
		Path:         s.publicPrefix + "/" + name,
		Size:         file.Size,
	}, nil
}

func (s *uploadService) Remove(ctx context.Context, ref string) error {
	name := storage.NameFromRef(ref, s.publicPrefix)
	if name == "" {
		return nil
	}
	if err := s.store.Delete(ctx, name); err != nil {
		return domain.Upstream(fmt.Sprintf("remove upload %s", name), err)
	}
	return nil
}

var errTooLarge = errors.New("upload exceeds size limit")

// cappedReader fails once more than remaining bytes come through, so a body
// of unknown length cannot be stored truncated.
type cappedReader struct {
	r         io.Reader
	remaining int64
	exceeded  bool
}

func (c *cappedReader) Read(p []byte) (int, error) {
	if c.exceeded {
		return 0, errTooLarge
	}
	if int64(len(p)) > c.remaining+1 {
		p = p[:c.remaining+1]
	}
	n, err := c.r.Read(p)
	if int64(n) > c.remaining {
		c.exceeded = true
		return 0, errTooLarge
	}
	c.remaining -= int64(n)
	return n, err
}

// extension keeps a short alphanumeric extension of the original name.
func extension(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	if len(ext) < 2 || len(ext) > 10 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
