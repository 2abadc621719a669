package player

import (
	"errors"
	"log"
	"sync"
	"time"
)

const bootFlashDelay = time.Millisecond * 50

// Player is one node of the installation: context, hardware, the two
// command channels and the schedule state, driven by a single control
// loop. All state mutation happens on that loop's goroutine; there is
// nothing to lock.
type Player struct {
	cfg *Config
	ctx *NodeContext

	audio Audio
	clock Clock
	pins  Pins

	local     Channel
	internode Channel

	lastActive   bool
	nextPoll     time.Time
	silenceUntil time.Time
	lightLit     bool

	stop chan bool
	wg   sync.WaitGroup
}

// New wires a Player together. Either channel may be nil when a node
// runs without it (a bench node without the bus, say).
func New(cfg *Config, hw Hardware, local, internode Channel) (*Player, error) {
	if cfg == nil {
		c := DefaultConfig
		cfg = &c
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if hw.Audio == nil || hw.Clock == nil || hw.Pins == nil {
		return nil, errors.New("incomplete hardware: need audio, clock and pins")
	}

	p := &Player{
		cfg:       cfg,
		ctx:       NewNodeContext(cfg),
		audio:     hw.Audio,
		clock:     hw.Clock,
		pins:      hw.Pins,
		local:     local,
		internode: internode,
		nextPoll:  time.Now().Add(time.Duration(cfg.FirstPollDelay)),
	}
	if err := p.audio.SetVolume(p.ctx.Volume); err != nil {
		log.Println("in p.audio.SetVolume:", err)
	}
	return p, nil
}

func (p *Player) Context() *NodeContext { return p.ctx }

func (p *Player) Config() Config { return *p.cfg }

// SetConfig replaces the runtime configuration. Role changes are
// rejected; a node's role is fixed at boot.
func (p *Player) SetConfig(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Role != p.cfg.Role {
		return errors.New("role is fixed at boot")
	}
	*p.cfg = *cfg
	return nil
}

// Run starts the control loop. To stop it, call Stop().
func (p *Player) Run() {
	p.stop = make(chan bool)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.bootFlash()
		log.Printf("%s player up, audio file %s", p.ctx.Role, p.ctx.FileName)
		for {
			select {
			case <-p.stop:
				return
			case <-time.After(time.Duration(p.cfg.PassInterval)):
			}
			p.pass(time.Now())
		}
	}()
}

// Stop notifies the control loop to stop and waits until it returns.
func (p *Player) Stop() {
	if p.stop == nil {
		return
	}
	close(p.stop)
	p.wg.Wait()
	p.stop = nil
}

// pass is one cooperative scheduling round: schedule poll, silence
// window bookkeeping, at most one token per channel, playback flag
// refresh. Everything here is synchronous.
func (p *Player) pass(now time.Time) {
	p.pollSchedule(now)

	if !p.silenceUntil.IsZero() && !now.Before(p.silenceUntil) {
		p.internode.SetReceiving(true)
		p.silenceUntil = time.Time{}
		log.Println("receiver re-enabled")
	}

	p.ingest(p.local, true)
	p.ingest(p.internode, false)
	p.refreshPlaying()
	p.updateLight()
}

// ingest drains at most one pending token from ch. The first byte
// classifies the input: a delimiter starts the message path, anything
// else is a single-character command after case folding. Whatever the
// command leaves behind in the buffer is discarded so stale line
// terminators can't open the next pass.
func (p *Player) ingest(ch Channel, isLocal bool) {
	if ch == nil || ch.Available() == 0 {
		return
	}
	b, ok := ch.ReadByte()
	if !ok {
		return
	}
	if b == MsgDelim {
		raw := p.readMessage(ch)
		p.dispatchMessage(raw, isLocal)
		return
	}
	if b <= ' ' {
		return
	}
	tok := lower(b)
	handled := p.Apply(tok)
	if handled && isLocal && p.ctx.Role.Leader() {
		p.broadcast(tok)
	}
	ch.Drain()
}

// refreshPlaying polls the audio engine for completion; playback runs in
// the codec, the loop only observes it.
func (p *Player) refreshPlaying() {
	if p.ctx.Playing && !p.audio.IsPlaying() {
		p.ctx.Playing = false
		log.Println("playback finished")
	}
}

// updateLight drives the strip from the audio output level, scaled by
// the PWM ceiling, so the light breathes with the sound. The strip goes
// dark with the track; engines that can't meter report level 0 and the
// strip stays dark between boot flash and power-down.
func (p *Player) updateLight() {
	if p.ctx.Playing {
		p.pins.WriteAnalog(p.cfg.Pins.PWM,
			int(p.audio.Level()*float64(p.ctx.PWMCeiling)))
		p.lightLit = true
		return
	}
	if p.lightLit {
		p.pins.WriteAnalog(p.cfg.Pins.PWM, 0)
		p.lightLit = false
	}
}
