package audio

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// host tracks the process-wide PortAudio session shared by capture and
// device listing.
var host struct {
	mu    sync.Mutex
	ready bool
	err   error
	tried bool
}

// Initialize opens the PortAudio session. Later calls return the first result.
func Initialize() error {
	host.mu.Lock()
	defer host.mu.Unlock()
	if !host.tried {
		host.tried = true
		if err := portaudio.Initialize(); err != nil {
			host.err = fmt.Errorf("audio: start portaudio: %w", err)
		} else {
			host.ready = true
		}
	}
	return host.err
}

// Terminate closes the session opened by Initialize, if any.
func Terminate() {
	host.mu.Lock()
	defer host.mu.Unlock()
	if !host.ready {
		return
	}
	host.ready = false
	_ = portaudio.Terminate()
}
