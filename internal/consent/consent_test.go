package consent

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dialogue.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadRequiresGrantedConsent(t *testing.T) {
	t.Parallel()

	r := NewReader()
	_, err := r.Read("anywhere.txt", Consent{Granted: false, Intent: "pipeline input"})

	var denied *DeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, "anywhere.txt", denied.Path)
	assert.Contains(t, denied.Reason, "not granted")
}

func TestReadRequiresDeclaredIntent(t *testing.T) {
	t.Parallel()

	r := NewReader()
	_, err := r.Read("anywhere.txt", Consent{Granted: true})

	var denied *DeniedError
	require.ErrorAs(t, err, &denied)
	assert.Contains(t, denied.Reason, "intent")
}

func TestReadReturnsContentWhenGated(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, "Teacher: the door is open")
	got, err := NewReader().Read(path, Consent{Granted: true, Intent: "pipeline input"})
	require.NoError(t, err)
	assert.Equal(t, "Teacher: the door is open", got)
}

func TestOpenStreamsUnderSameGate(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, "streamed content")
	r := NewReader()

	_, err := r.Open(path, Consent{})
	var denied *DeniedError
	require.ErrorAs(t, err, &denied)

	f, err := r.Open(path, Consent{Granted: true, Intent: "pipeline input"})
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestAccessAuditsGrantedAndDenied(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, "content")
	r := NewReader()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return fixed }

	_, _ = r.Read(path, Consent{Granted: true, Intent: "first read"})
	_, _ = r.Read(path, Consent{Granted: false, Intent: "second read"})
	_, _ = r.Read(path, Consent{Granted: true})

	access := r.Access()
	require.Len(t, access, 3, "every attempt is audited, denied ones included")

	assert.True(t, access[0].Granted)
	assert.Equal(t, "first read", access[0].Intent)
	assert.False(t, access[1].Granted)
	assert.False(t, access[2].Granted, "missing intent is a denial")
	for _, rec := range access {
		assert.Equal(t, path, rec.Path)
		assert.Equal(t, fixed, rec.Timestamp)
	}
}

func TestAccessReturnsCopy(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, "content")
	r := NewReader()
	_, _ = r.Read(path, Consent{Granted: true, Intent: "read"})

	first := r.Access()
	first[0].Path = "tampered"
	assert.Equal(t, path, r.Access()[0].Path)
}

func TestReadMissingFileIsNotDenied(t *testing.T) {
	t.Parallel()

	r := NewReader()
	_, err := r.Read(filepath.Join(t.TempDir(), "absent.txt"), Consent{Granted: true, Intent: "read"})
	require.Error(t, err)

	var denied *DeniedError
	assert.False(t, errors.As(err, &denied), "filesystem errors are not consent denials")
}
