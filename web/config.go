package web

import (
	"github.com/antartenk/lydlys/hal"
	"github.com/antartenk/lydlys/player"
	"go.bug.st/serial.v1"
)

var DefaultConfig = Config{
	Installation: "lydlys",
	Web:          DefaultServerConfig,
	Player:       player.DefaultConfig,
	Audio:        hal.DefaultAudioConfig,
	Serial:       *player.DefaultSerialConfig,
}

// Config is the root of the TOML config file, one per node.
type Config struct {
	Installation string // site label shown in the UI
	Device       string // serial port path, empty for auto-detection
	Player       player.Config
	Audio        hal.AudioConfig
	Web          ServerConfig
	Serial       serial.Mode
}
