// Package test holds the helpers and the end to end tests that run the node
// behind a real HTTP server.
package test

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/0xPolygon/zksync-test-node/log"
	"github.com/gofrs/flock"
)

const maxPortAttempts = 10

// ErrNoFreePort is returned when no port could be locked
var ErrNoFreePort = errors.New("failed to lock a free port")

// PortLock is a free TCP port reserved for this process through a lock file,
// so that parallel test binaries never pick the same one.
type PortLock struct {
	Port int
	lock *flock.Flock
}

// LockFilePath is the lock file of port
func LockFilePath(port int) string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("anvil-zksync-port%d.lock", port))
}

// AcquirePort asks the OS for a free port and locks it. It must be released
// once the server has bound the port.
func AcquirePort() (*PortLock, error) {
	for i := 0; i < maxPortAttempts; i++ {
		port, err := freePort()
		if err != nil {
			return nil, err
		}

		lock := flock.New(LockFilePath(port))
		locked, err := lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("failed to lock port %d: %w", port, err)
		}
		if locked {
			return &PortLock{Port: port, lock: lock}, nil
		}
		log.Debugf("port %d is locked by another process, retrying", port)
	}
	return nil, ErrNoFreePort
}

// Release unlocks the port and removes its lock file
func (p *PortLock) Release() error {
	if err := p.lock.Unlock(); err != nil {
		return err
	}
	if err := os.Remove(p.lock.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func freePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
