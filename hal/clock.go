// Package hal provides the host-side hardware bindings: system clock,
// sysfs GPIO/PWM and an external audio player process. Everything here
// satisfies the collaborator interfaces in the player package; tests use
// in-memory fakes instead.
package hal

import (
	"io/ioutil"
	"strconv"
	"strings"
	"time"

	"github.com/antartenk/lydlys/player"
)

// SystemClock implements player.Clock from the OS clock, which on the
// installed nodes is NTP- or RTC-disciplined by the system. Temperature
// comes from the SoC thermal zone, the closest analog of the RTC die
// sensor.
type SystemClock struct {
	ThermalZone string
}

func NewClock() *SystemClock {
	return &SystemClock{ThermalZone: "/sys/class/thermal/thermal_zone0/temp"}
}

func (c *SystemClock) Now() (player.ClockTime, error) {
	t := time.Now()
	return player.ClockTime{
		Hour:    t.Hour(),
		Minute:  t.Minute(),
		Second:  t.Second(),
		Weekday: int(t.Weekday()),
		Day:     t.Day(),
		Month:   int(t.Month()),
		Year:    t.Year(),
	}, nil
}

// TemperatureC reads the thermal zone in millidegrees. Unreadable or
// unparsable zones report 0, a recognizable "no sensor" value in the
// status line.
func (c *SystemClock) TemperatureC() float64 {
	b, err := ioutil.ReadFile(c.ThermalZone)
	if err != nil {
		return 0
	}
	milli, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil {
		return 0
	}
	return float64(milli) / 1000
}
