package object

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"path"
	"time"

	"portfolio-backend/internal/shared/util"
)

const (
	// ResumePrefix is the top-level key segment for uploaded resumes.
	ResumePrefix = "resumes"
	// ExtractedSuffix names the plain-text copy kept next to a resume blob.
	ExtractedSuffix = ".extracted.txt"
)

// NewResumeKey returns a fresh key of the form
// resumes/<hashed user>/<random>_<file name>.
func NewResumeKey(userID, fileName string) (string, error) {
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("sanitize file name: %w", err)
	}
	return path.Join(ResumePrefix, util.HashUserKey(userID), randomID()+"_"+name), nil
}

// SniffContentType peeks at the first 512 bytes of r. The returned reader
// replays them followed by the rest of r.
func SniffContentType(r io.Reader) (string, io.Reader, error) {
	var head [512]byte
	n, err := io.ReadFull(r, head[:])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", nil, fmt.Errorf("read sniff: %w", err)
	}
	return http.DetectContentType(head[:n]), io.MultiReader(bytes.NewReader(head[:n]), r), nil
}

func randomID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
