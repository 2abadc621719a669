package player

import (
	"errors"
	"time"

	"github.com/rkjdid/util"
)

var errBoom = errors.New("boom")

func durationOf(d time.Duration) util.Duration { return util.Duration(d) }

// Hardware fakes. They record what the core asked of them; tests assert
// on the recordings.

type fakeAudio struct {
	playing  bool
	played   []string
	stops    int
	volume   float64
	pos      uint32
	length   uint32
	level    float64
	failPlay bool
}

func (a *fakeAudio) Play(name string) error {
	if a.failPlay {
		return errors.New("no such file")
	}
	a.played = append(a.played, name)
	a.playing = true
	return nil
}

func (a *fakeAudio) Stop() {
	a.playing = false
	a.stops++
}

func (a *fakeAudio) IsPlaying() bool        { return a.playing }
func (a *fakeAudio) PositionMillis() uint32 { return a.pos }
func (a *fakeAudio) LengthMillis() uint32   { return a.length }
func (a *fakeAudio) Level() float64         { return a.level }
func (a *fakeAudio) SetVolume(v float64) error {
	a.volume = v
	return nil
}

type fakeClock struct {
	t    ClockTime
	temp float64
	err  error
}

func (c *fakeClock) Now() (ClockTime, error) { return c.t, c.err }
func (c *fakeClock) TemperatureC() float64   { return c.temp }

type pinWrite struct {
	pin  int
	high bool
}

type fakePins struct {
	digital   map[int]bool
	analog    map[int]int
	writes    []pinWrite
	onDigital func(pin int, high bool)
}

func newFakePins() *fakePins {
	return &fakePins{digital: map[int]bool{}, analog: map[int]int{}}
}

func (fp *fakePins) WriteDigital(pin int, high bool) {
	if fp.onDigital != nil {
		fp.onDigital(pin, high)
	}
	fp.digital[pin] = high
	fp.writes = append(fp.writes, pinWrite{pin, high})
}

func (fp *fakePins) WriteAnalog(pin int, value int) { fp.analog[pin] = value }
func (fp *fakePins) ReadDigital(pin int) bool       { return fp.digital[pin] }

// relayWrites counts digital writes to pin with the given level.
func (fp *fakePins) relayWrites(pin int, high bool) int {
	n := 0
	for _, w := range fp.writes {
		if w.pin == pin && w.high == high {
			n++
		}
	}
	return n
}

type testRig struct {
	p         *Player
	audio     *fakeAudio
	clock     *fakeClock
	pins      *fakePins
	local     *MemChannel
	internode *MemChannel
}

// newTestRig builds a Player with zeroed delays so tests don't sit in
// relay waits, and short protocol timeouts.
func newTestRig(role Role) *testRig {
	cfg := DefaultConfig
	cfg.Role = role
	cfg.RelaySwitchDelay = 0
	cfg.FirstPollDelay = 0
	cfg.SchedulePollRate = 0
	cfg.PassInterval = util.Duration(time.Millisecond)
	cfg.ReadTimeout = util.Duration(time.Millisecond * 10)
	cfg.SilenceWindow = util.Duration(time.Millisecond * 20)

	rig := &testRig{
		audio:     &fakeAudio{},
		clock:     &fakeClock{t: ClockTime{Hour: 12, Year: 2025, Month: 6, Day: 1}, temp: 21.5},
		pins:      newFakePins(),
		local:     NewMemChannel(),
		internode: NewMemChannel(),
	}
	p, err := New(&cfg, Hardware{Audio: rig.audio, Clock: rig.clock, Pins: rig.pins},
		rig.local, rig.internode)
	if err != nil {
		panic(err)
	}
	rig.p = p
	return rig
}
