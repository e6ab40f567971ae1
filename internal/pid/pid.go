// Package pid guards against running two agents at once.
package pid

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"codeberg.org/mutker/sentinel/internal/errors"
	"golang.org/x/sys/unix"
)

const filePerm = 0o600

// Write records the current process ID at path. It fails with
// already_running when path names a live process other than this one; a
// stale or unreadable file is replaced.
func Write(path string) error {
	errFactory := errors.New()
	self := os.Getpid()

	if other, ok := read(path); ok && other != self && alive(other) {
		return errFactory.WithData(errors.ErrAlreadyRunning, other)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	if err := os.WriteFile(path, []byte(strconv.Itoa(self)), filePerm); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

// Remove removes the PID file at path if it exists.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.New().Wrap(errors.ErrInternal, err)
	}

	return nil
}

func read(path string) (int, bool) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}

	n, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil || n <= 0 {
		return 0, false
	}

	return n, true
}

// alive probes pid with signal 0. EPERM means the process exists but
// belongs to another user.
func alive(pid int) bool {
	err := unix.Kill(pid, 0)
	return err == nil || err == unix.EPERM
}
