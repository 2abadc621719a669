package player

import (
	"log"
	"time"
)

// Relay sequencing. Ordering is a correctness invariant, not a style
// choice: the speaker must never see power while the amplifier is dark
// (startup), and the amplifier must never be cut under a live speaker
// (shutdown). Violating either order pops the speaker or surges the amp.
// Both sequences are idempotent; asking twice changes nothing.

// PowerUp energizes amplifier then speaker, with the configured delay
// between relay operations, and marks the node awake. The track
// iteration counter restarts with the session.
func (p *Player) PowerUp() {
	if p.ctx.Awake {
		return
	}
	p.pins.WriteDigital(p.cfg.Pins.AmpRelay, true)
	log.Println("amp is ON")
	p.sleep(time.Duration(p.cfg.RelaySwitchDelay))
	p.pins.WriteDigital(p.cfg.Pins.SpeakerRelay, true)
	log.Println("speaker is ON")
	p.sleep(time.Duration(p.cfg.RelaySwitchDelay))

	p.ctx.Awake = true
	p.ctx.TrackIteration = 0
}

// PowerDown stops playback, kills the light output, then de-energizes
// speaker and amplifier in that order.
func (p *Player) PowerDown() {
	if !p.ctx.Awake {
		return
	}
	p.audio.Stop()
	p.ctx.Playing = false
	p.pins.WriteAnalog(p.cfg.Pins.PWM, 0)

	p.pins.WriteDigital(p.cfg.Pins.SpeakerRelay, false)
	log.Println("speaker is OFF")
	p.sleep(time.Duration(p.cfg.RelaySwitchDelay))
	p.pins.WriteDigital(p.cfg.Pins.AmpRelay, false)
	log.Println("amp is OFF")
	p.sleep(time.Duration(p.cfg.RelaySwitchDelay))

	p.ctx.Awake = false
}

// sleep is a plain blocking wait. During a relay sequence the node is
// deliberately unresponsive; the sequence is short and must not be
// interleaved with command handling.
func (p *Player) sleep(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}
