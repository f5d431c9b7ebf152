// Package consent is the gated file reader collaborator. The pipeline core
// never accesses storage directly; every read goes through this boundary
// and requires an explicit consent flag plus a declared intent.
package consent

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"refinery/internal/logging"
)

// Consent is the caller's explicit permission for one read.
type Consent struct {
	Granted bool
	Intent  string
}

// DeniedError reports a read refused at the consent boundary.
type DeniedError struct {
	Path   string
	Reason string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("consent: read of %s denied: %s", e.Path, e.Reason)
}

// AccessRecord is one audit entry; granted and denied reads both produce
// one.
type AccessRecord struct {
	Path      string    `json:"path"`
	Intent    string    `json:"intent"`
	Granted   bool      `json:"granted"`
	Timestamp time.Time `json:"timestamp"`
}

// Reader is the consent-gated file access collaborator.
type Reader struct {
	mu     sync.Mutex
	access []AccessRecord
	now    func() time.Time
}

// NewReader creates a Reader.
func NewReader() *Reader {
	return &Reader{now: time.Now}
}

// Read returns the file contents if consent was granted with a declared
// intent, or a *DeniedError otherwise.
func (r *Reader) Read(path string, c Consent) (string, error) {
	if err := r.gate(path, c); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("consent: read of %s failed: %w", path, err)
	}
	return string(data), nil
}

// Open returns a streaming handle for large inputs under the same gate.
// The caller owns the returned ReadCloser.
func (r *Reader) Open(path string, c Consent) (io.ReadCloser, error) {
	if err := r.gate(path, c); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("consent: open of %s failed: %w", path, err)
	}
	return f, nil
}

// Access returns a copy of the audit trail.
func (r *Reader) Access() []AccessRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]AccessRecord, len(r.access))
	copy(out, r.access)
	return out
}

func (r *Reader) gate(path string, c Consent) error {
	granted := c.Granted && c.Intent != ""

	r.mu.Lock()
	r.access = append(r.access, AccessRecord{
		Path:      path,
		Intent:    c.Intent,
		Granted:   granted,
		Timestamp: r.now(),
	})
	r.mu.Unlock()

	logging.Consent("path=%s intent=%q granted=%v", path, c.Intent, granted)

	if !c.Granted {
		return &DeniedError{Path: path, Reason: "consent not granted"}
	}
	if c.Intent == "" {
		return &DeniedError{Path: path, Reason: "no intent declared"}
	}
	return nil
}
