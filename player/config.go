package player

import (
	"fmt"
	"time"

	"github.com/rkjdid/util"
)

// PinMap names the GPIO lines a node drives. Values mirror the wiring
// loom of the original installations.
type PinMap struct {
	AmpRelay     int // power relay feeding the amplifier
	SpeakerRelay int // power relay feeding the speaker
	PWM          int // MOSFET gate for the light strip
	Leds         [4]int
}

type Config struct {
	Role             Role          // long (leader), small or seashell
	StartHour        int           // daily wake hour, inclusive
	EndHour          int           // daily sleep hour, exclusive
	RelaySwitchDelay util.Duration // pause between the two relay operations
	FirstPollDelay   util.Duration // quick first schedule check after boot
	SchedulePollRate util.Duration // steady-state schedule check interval
	PassInterval     util.Duration // control loop tick
	ReadTimeout      util.Duration // per-message receive timeout
	SilenceWindow    util.Duration // receiver-off window on role-query miss
	Volume           util.Float    // initial audio volume, 0..1
	PWMCeiling       int           // initial light output ceiling, 0..255
	Pins             PinMap
}

var DefaultConfig = Config{
	Role:             RoleLong,
	StartHour:        6,
	EndHour:          23,
	RelaySwitchDelay: util.Duration(time.Millisecond * 500),
	FirstPollDelay:   util.Duration(time.Second * 5),
	SchedulePollRate: util.Duration(time.Minute),
	PassInterval:     util.Duration(time.Millisecond * 50),
	ReadTimeout:      util.Duration(time.Millisecond * 250),
	SilenceWindow:    util.Duration(time.Millisecond * 500),
	Volume:           util.Float(0.5),
	PWMCeiling:       255,
	Pins: PinMap{
		AmpRelay:     16,
		SpeakerRelay: 17,
		PWM:          6,
		Leds:         [4]int{2, 3, 4, 5},
	},
}

// Validate checks the schedule window and clamps bounds the rest of the
// system relies on.
func (cfg *Config) Validate() error {
	if !cfg.Role.valid() {
		return fmt.Errorf("invalid role %d", int(cfg.Role))
	}
	if cfg.StartHour < 0 || cfg.StartHour > 23 || cfg.EndHour < 0 || cfg.EndHour > 23 {
		return fmt.Errorf("schedule hours out of range: %d-%d", cfg.StartHour, cfg.EndHour)
	}
	if cfg.StartHour >= cfg.EndHour {
		return fmt.Errorf("StartHour (%d) must be before EndHour (%d)", cfg.StartHour, cfg.EndHour)
	}
	if cfg.Volume < 0 || cfg.Volume > 1 {
		return fmt.Errorf("volume %v out of 0..1", cfg.Volume)
	}
	if cfg.PWMCeiling < 0 || cfg.PWMCeiling > PwmMax {
		return fmt.Errorf("PWM ceiling %d out of 0..%d", cfg.PWMCeiling, PwmMax)
	}
	return nil
}
