package domain

// MaxUploadBytes is the default ceiling for a single uploaded file (50 MiB).
const MaxUploadBytes int64 = 50 << 20

// StoredFile describes a file accepted by the upload handler.
type StoredFile struct {
	Filename     string
	OriginalName string
	Path         string
	Size         int64
}
