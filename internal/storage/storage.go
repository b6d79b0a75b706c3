package storage

import (
	"context"
	"io"
	"net/url"
	"strings"
	"time"
)

type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified *time.Time
}

// Store keeps uploaded files under flat generated names.
type Store interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]ObjectInfo, error)
}

// Presigner hands out temporary download URLs for stores that are not served from disk.
type Presigner interface {
	GetObjectURL(ctx context.Context, name string, expires time.Duration) (string, error)
}

// NameFromRef extracts the stored name from a recorded reference such as
// "/uploads/abc.png", "uploads/abc.png" or "http://host/uploads/abc.png".
// It returns "" when ref does not look like a stored upload.
func NameFromRef(ref, publicPrefix string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if strings.Contains(ref, "://") {
		u, err := url.Parse(ref)
		if err != nil {
			return ""
		}
		ref = u.Path
	}
	rest := strings.TrimPrefix(ref, "/")
	if prefix := strings.Trim(publicPrefix, "/"); prefix != "" {
		if !strings.HasPrefix(rest, prefix+"/") {
			return ""
		}
		rest = strings.TrimPrefix(rest, prefix+"/")
	}
	return ValidName(rest)
}

// ValidName returns name if it is a single safe path element, else "".
func ValidName(name string) string {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return ""
	}
	return name
}
