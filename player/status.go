package player

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"
)

// Snapshot is a point-in-time status record. Followers serialize one
// onto the bus when the leader queries their role; the web layer encodes
// the same struct as json. It is built live and never cached.
type Snapshot struct {
	Time     time.Time
	Role     Role
	TempC    float64
	Awake    bool
	Playing  bool
	Position uint32 // playback position, ms
	Length   uint32 // track length, ms
}

// BuildSnapshot samples the node state. Position and length come back
// 0/0 when nothing is playing.
func (p *Player) BuildSnapshot() Snapshot {
	s := Snapshot{
		Time:    time.Now(),
		Role:    p.ctx.Role,
		TempC:   p.clock.TemperatureC(),
		Awake:   p.ctx.Awake,
		Playing: p.ctx.Playing,
	}
	if p.audio.IsPlaying() {
		s.Position = p.audio.PositionMillis()
		s.Length = p.audio.LengthMillis()
	}
	return s
}

// Wire renders the snapshot as the byte-stable status line:
// STATUS|<role>|<tempC>|<awake>|<playing>|<pos>|<len>.
// Temperature carries one decimal; booleans are 0/1.
func (s Snapshot) Wire() string {
	return fmt.Sprintf("%s|%d|%.1f|%d|%d|%d|%d",
		StatusPrefix, int(s.Role), s.TempC,
		boolBit(s.Awake), boolBit(s.Playing), s.Position, s.Length)
}

// ParseStatus decodes a status line body (without the message delimiter).
// Parsing is positional and forgiving: a missing trailing field leaves
// the remaining fields zeroed, malformed numerics fall back to zero, and
// complete reports false. The caller logs partials as received.
func ParseStatus(body string) (s Snapshot, complete bool) {
	fields := strings.Split(body, "|")
	if len(fields) == 0 || fields[0] != StatusPrefix {
		return s, false
	}
	s.Time = time.Now()
	for i := 1; i < statusArity; i++ {
		if i >= len(fields) {
			return s, false
		}
		f := fields[i]
		switch i {
		case 1:
			s.Role = Role(atoiOrZero(f))
		case 2:
			s.TempC, _ = strconv.ParseFloat(f, 64)
		case 3:
			s.Awake = f == "1"
		case 4:
			s.Playing = f == "1"
		case 5:
			s.Position = uint32(atoiOrZero(f))
		case 6:
			s.Length = uint32(atoiOrZero(f))
		}
	}
	return s, true
}

// sendSnapshot puts the node's status on the inter-node channel,
// delimiter-prefixed, newline-terminated. Follower roles only; the
// leader's report stays informational and never hits the wire.
func (p *Player) sendSnapshot() error {
	if p.ctx.Role.Leader() {
		return nil
	}
	if p.internode == nil {
		log.Println("no inter-node channel, status stays local")
		return nil
	}
	line := ":" + p.BuildSnapshot().Wire() + "\n"
	_, err := p.internode.Write([]byte(line))
	return err
}

func boolBit(b bool) int {
	if b {
		return 1
	}
	return 0
}

// atoiOrZero is the zero-fallback field decoder. Negative values are
// out of range for every numeric status field and fall back too; letting
// one through would wrap the uint32 conversions.
func atoiOrZero(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 {
		return 0
	}
	return i
}
