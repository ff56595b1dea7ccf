package handler

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/user/vidtube/internal/apperr"
)

// Multipart field names.
const (
	fieldAvatar     = "avatar"
	fieldCoverImage = "coverImage"
	fieldVideoFile  = "videoFile"
	fieldThumbnail  = "thumbnail"
)

// fieldFamily is the MIME family each upload field accepts.
var fieldFamily = map[string]string{
	fieldAvatar:     "image",
	fieldCoverImage: "image",
	fieldVideoFile:  "video",
	fieldThumbnail:  "image",
}

var familyNoun = map[string]string{"image": "an image", "video": "a video"}

// Uploader stages multipart files on local disk.
type Uploader struct {
	dir      string
	maxBytes int64
}

func NewUploader(dir string, maxBytes int64) *Uploader {
	return &Uploader{dir: dir, maxBytes: maxBytes}
}

// Staged maps field names to staged file paths.
type Staged map[string]string

// Path returns the staged path for field, "" when it was not sent.
func (s Staged) Path(field string) string {
	return s[field]
}

// Cleanup removes every staged file that is still on disk.
func (s Staged) Cleanup() {
	for _, p := range s {
		_ = os.Remove(p)
	}
}

// Stage saves the named fields. Missing fields are skipped; the caller
// decides which are required. On error nothing is left on disk.
func (u *Uploader) Stage(c *gin.Context, fields ...string) (Staged, error) {
	staged := Staged{}
	if u.maxBytes > 0 {
		limit := u.maxBytes*int64(len(fields)) + 1<<20
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}

	if err := os.MkdirAll(u.dir, 0o755); err != nil {
		return nil, apperr.Internal(err)
	}

	for _, field := range fields {
		fh, err := c.FormFile(field)
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			staged.Cleanup()
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				return nil, apperr.BadRequest("File too large")
			}
			return nil, apperr.BadRequest("Invalid multipart form").Wrap(err)
		}

		if u.maxBytes > 0 && fh.Size > u.maxBytes {
			staged.Cleanup()
			return nil, apperr.BadRequest("%s exceeds the %d MB limit", field, u.maxBytes>>20)
		}
		family := fieldFamily[field]
		if ct := fh.Header.Get("Content-Type"); !strings.HasPrefix(ct, family+"/") {
			staged.Cleanup()
			return nil, apperr.BadRequest("%s must be %s file", field, familyNoun[family])
		}

		dst := filepath.Join(u.dir, fmt.Sprintf("%s%s", uuid.NewString(), strings.ToLower(filepath.Ext(fh.Filename))))
		if err := c.SaveUploadedFile(fh, dst); err != nil {
			staged.Cleanup()
			return nil, apperr.Internal(err)
		}
		staged[field] = dst
	}
	return staged, nil
}
