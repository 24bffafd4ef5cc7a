package player

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
)

const watchURLFormat = "https://www.youtube.com/watch?v=%s"

var (
	mpvOnce sync.Once
	mpvPath string
	mpvErr  error
)

// MPVLoader plays videos through a local mpv binary. The binary lookup runs
// once per process; every later manager reuses the resolved path.
type MPVLoader struct {
	// Path overrides binary discovery, mainly for tests and unusual installs.
	Path string
}

// Load resolves the mpv runtime.
func (l MPVLoader) Load(ctx context.Context) (Runtime, error) {
	if l.Path != "" {
		return mpvRuntime{path: l.Path}, nil
	}
	mpvOnce.Do(func() {
		mpvPath, mpvErr = exec.LookPath("mpv")
	})
	if mpvErr != nil {
		return nil, fmt.Errorf("mpv not found on PATH: %w", mpvErr)
	}
	return mpvRuntime{path: mpvPath}, nil
}

type mpvRuntime struct {
	path string
}

// Open starts one mpv process for the video. The process is the player
// instance; destroying the instance kills it.
func (r mpvRuntime) Open(ctx context.Context, videoID string) (Instance, error) {
	cmd := exec.Command(r.path, "--really-quiet", "--force-window=yes", fmt.Sprintf(watchURLFormat, videoID))
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	instance := &mpvInstance{cmd: cmd}
	go func() {
		// Reap the process so a user-closed window does not leave a zombie.
		_ = cmd.Wait()
	}()
	return instance, nil
}

type mpvInstance struct {
	cmd  *exec.Cmd
	once sync.Once
}

func (i *mpvInstance) Destroy() error {
	var err error
	i.once.Do(func() {
		if i.cmd.Process != nil {
			err = i.cmd.Process.Kill()
		}
	})
	return err
}
