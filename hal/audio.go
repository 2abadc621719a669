package hal

import (
	"fmt"
	"log"
	"os/exec"
	"path/filepath"
	"sync"
	"time"
)

// AudioConfig names the external player binary. mpg123 takes a -f gain
// scale argument, which is how SetVolume lands; any player accepting
// "<cmd> [args...] <file>" works with volume fixed.
type AudioConfig struct {
	Command string // player binary
	Dir     string // directory holding the per-role audio files
}

var DefaultAudioConfig = AudioConfig{
	Command: "mpg123",
	Dir:     "/media/sound",
}

// ExecAudio implements player.Audio by spawning an external player
// process per track. Position is wall-clock since start; length is
// unknown to the process wrapper and reported as 0.
type ExecAudio struct {
	cfg AudioConfig

	mu     sync.Mutex
	cmd    *exec.Cmd
	start  time.Time
	volume float64
}

func NewAudio(cfg AudioConfig) *ExecAudio {
	if cfg.Command == "" {
		cfg = DefaultAudioConfig
	}
	return &ExecAudio{cfg: cfg, volume: 0.5}
}

func (a *ExecAudio) Play(name string) error {
	a.Stop()

	a.mu.Lock()
	defer a.mu.Unlock()
	// mpg123 -f takes 0..32768
	gain := fmt.Sprint(int(a.volume * 32768))
	cmd := exec.Command(a.cfg.Command, "-q", "-f", gain, filepath.Join(a.cfg.Dir, name))
	if err := cmd.Start(); err != nil {
		return err
	}
	a.cmd = cmd
	a.start = time.Now()

	go func() {
		if err := cmd.Wait(); err != nil {
			log.Printf("audio player exited: %s", err)
		}
		a.mu.Lock()
		if a.cmd == cmd {
			a.cmd = nil
		}
		a.mu.Unlock()
	}()
	return nil
}

func (a *ExecAudio) Stop() {
	a.mu.Lock()
	cmd := a.cmd
	a.cmd = nil
	a.mu.Unlock()
	if cmd != nil && cmd.Process != nil {
		if err := cmd.Process.Kill(); err != nil {
			log.Println("in a.Stop:", err)
		}
	}
}

func (a *ExecAudio) IsPlaying() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cmd != nil
}

func (a *ExecAudio) PositionMillis() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cmd == nil {
		return 0
	}
	return uint32(time.Since(a.start) / time.Millisecond)
}

// LengthMillis is unknown to a process wrapper; the status line carries
// 0 and the leader treats that as "length unavailable".
func (a *ExecAudio) LengthMillis() uint32 {
	return 0
}

// Level reports 0: a process wrapper has no view of the output samples,
// so the level-driven light stays dark on these hosts.
func (a *ExecAudio) Level() float64 {
	return 0
}

// SetVolume stores the gain for the next Play; a running process keeps
// its launch gain.
func (a *ExecAudio) SetVolume(v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("volume %v out of 0..1", v)
	}
	a.mu.Lock()
	a.volume = v
	a.mu.Unlock()
	return nil
}
