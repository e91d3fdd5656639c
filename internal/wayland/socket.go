package wayland

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

const (
	// DefaultSocketBase matches the conventional Wayland socket prefix.
	DefaultSocketBase = "wayland"
	// DefaultSocketSearchRange bounds the auto-bind candidate names,
	// wayland-0 through wayland-32.
	DefaultSocketSearchRange = 33
)

// ErrNoSocket means every candidate name in the search range was taken.
var ErrNoSocket = errors.New("no free wayland socket name")

// bindAuto binds the first free candidate name under dir, trying base-0,
// base-1, ... until one binds or the range is exhausted. Names already in
// use (including stale socket files from crashed servers) are skipped.
func bindAuto(dir, base string, rangeSize int) (*net.UnixListener, string, error) {
	if dir == "" {
		return nil, "", errors.New("no runtime directory for wayland socket")
	}
	for i := 0; i < rangeSize; i++ {
		name := fmt.Sprintf("%s-%d", base, i)
		path := filepath.Join(dir, name)
		l, err := net.ListenUnix("unix", &net.UnixAddr{Name: path, Net: "unix"})
		if err != nil {
			if errors.Is(err, unix.EADDRINUSE) {
				continue
			}
			return nil, "", fmt.Errorf("bind %s: %w", path, err)
		}
		if err := os.Chmod(path, 0o700); err != nil {
			l.Close()
			return nil, "", fmt.Errorf("chmod %s: %w", path, err)
		}
		l.SetUnlinkOnClose(true)
		return l, name, nil
	}
	return nil, "", fmt.Errorf("%w: tried %s-0 through %s-%d in %s",
		ErrNoSocket, base, base, rangeSize-1, dir)
}

// runtimeDir picks the directory Wayland sockets live in.
func runtimeDir() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir
	}
	return os.TempDir()
}
