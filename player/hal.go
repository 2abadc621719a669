package player

import "fmt"

// Hardware collaborators. The audio codec, real-time clock and GPIO bank
// live behind these interfaces; the control core never touches a register
// directly, which is also what makes the whole state machine testable on
// a host without an installation wired to it.

// Audio is the playback engine (SD-backed wav player + codec).
type Audio interface {
	Play(name string) error
	Stop()
	IsPlaying() bool
	PositionMillis() uint32
	LengthMillis() uint32
	SetVolume(v float64) error
	// Level is the instantaneous output level in 0..1. Engines that
	// can't meter their output report 0.
	Level() float64
}

// ClockTime is a point-in-time reading from the RTC.
type ClockTime struct {
	Hour, Minute, Second int
	Weekday              int // Sunday = 0
	Day, Month, Year     int
}

// Clock is the RTC module. The DS3231 also carries a die temperature
// sensor, which is what feeds the STATUS line's temp field.
type Clock interface {
	Now() (ClockTime, error)
	TemperatureC() float64
}

// Pins is the GPIO bank: relay lines, the PWM light output and the four
// status LEDs all go through here.
type Pins interface {
	WriteDigital(pin int, high bool)
	WriteAnalog(pin int, value int) // value in 0..255
	ReadDigital(pin int) bool
}

// Hardware groups the three collaborators a Player needs.
type Hardware struct {
	Audio Audio
	Clock Clock
	Pins  Pins
}

var weekdays = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// String renders ct the way the installation logs have always shown it:
// YYYY/M/D (DayName) H:M:S.
func (ct ClockTime) String() string {
	day := "?"
	if ct.Weekday >= 0 && ct.Weekday < len(weekdays) {
		day = weekdays[ct.Weekday]
	}
	return fmt.Sprintf("%d/%d/%d (%s) %d:%02d:%02d",
		ct.Year, ct.Month, ct.Day, day, ct.Hour, ct.Minute, ct.Second)
}
