package player

import "log"

// Command registry: one handler per token, in a table so the alphabet is
// visible in a single place. Unknown tokens are logged and leave every
// bit of state untouched.

var commandTable = map[byte]func(*Player){
	CmdHelp:    (*Player).printHelp,
	CmdReport:  (*Player).printReport,
	CmdWakeup:  (*Player).PowerUp,
	CmdSleep:   (*Player).PowerDown,
	CmdPlay:    (*Player).playAudio,
	CmdStop:    (*Player).stopAudio,
	CmdReplay:  (*Player).replayAudio,
	CmdVolUp:   func(p *Player) { p.adjustVolume(VolumeStep) },
	CmdVolDown: func(p *Player) { p.adjustVolume(-VolumeStep) },
	CmdPwmUp:   func(p *Player) { p.adjustPWM(PwmStep) },
	CmdPwmDown: func(p *Player) { p.adjustPWM(-PwmStep) },
	CmdLed1:    func(p *Player) { p.toggleLed(0) },
	CmdLed2:    func(p *Player) { p.toggleLed(1) },
	CmdLed3:    func(p *Player) { p.toggleLed(2) },
	CmdLed4:    func(p *Player) { p.toggleLed(3) },
}

// Apply runs the handler for a single command token. It reports whether
// the token was recognized.
func (p *Player) Apply(tok byte) bool {
	h, ok := commandTable[tok]
	if !ok {
		log.Printf("unknown command: '%c'", tok)
		return false
	}
	h(p)
	return true
}

func (p *Player) playAudio() {
	if err := p.audio.Play(p.ctx.FileName); err != nil {
		log.Printf("playing %s: %s", p.ctx.FileName, err)
		return
	}
	p.ctx.TrackIteration++
	p.ctx.Playing = true
	log.Printf("start playing %s (iteration %d this session)",
		p.ctx.FileName, p.ctx.TrackIteration)
}

func (p *Player) stopAudio() {
	p.audio.Stop()
	p.ctx.Playing = false
	log.Println("stopping audio")
}

func (p *Player) replayAudio() {
	p.audio.Stop()
	log.Println("replay, resetting playback")
	p.playAudio()
}

func (p *Player) adjustVolume(delta float64) {
	v := p.ctx.Volume + delta
	if v > 1.0 {
		v = 1.0
	}
	if v < 0.0 {
		v = 0.0
	}
	p.ctx.Volume = v
	if err := p.audio.SetVolume(v); err != nil {
		log.Println("in p.audio.SetVolume:", err)
	}
	log.Printf("volume set to %.1f", v)
}

func (p *Player) adjustPWM(delta int) {
	c := p.ctx.PWMCeiling + delta
	if c > PwmMax {
		c = PwmMax
	}
	if c < 0 {
		c = 0
	}
	p.ctx.PWMCeiling = c
	log.Printf("PWM ceiling set to %d", c)
}

const helpText = `----- AVAILABLE COMMANDS -----
h - display this help message
r - generate system report
w - wake up system
s - put system to sleep
p - play audio
! - stop audio
z - reset and replay audio
+ - increase volume
- - decrease volume
> - increase PWM range
< - decrease PWM range
1-4 - toggle individual LEDs
:<name>; - named message form (help, report, wakeup, sleep, play,
           stop, replay, volup, voldown, pwmup, pwmdown, led1..led4)
------------------------------`

func (p *Player) printHelp() {
	log.Println("\n" + helpText)
}

// printReport writes the human-readable system report. Informational
// only; the machine-parsed counterpart is the STATUS line (status.go).
func (p *Player) printReport() {
	log.Println("\n----- SYSTEM REPORT -----")
	if ct, err := p.clock.Now(); err == nil {
		log.Println("RTC time:", ct)
	}
	log.Printf("player: %s (file %s)", p.ctx.Role, p.ctx.FileName)

	length := p.audio.LengthMillis()
	pos := p.audio.PositionMillis()
	if length > 0 && pos > 0 {
		log.Printf("track position %s / %s", formatMillis(pos), formatMillis(length))
	}

	log.Printf("volume: %.1f", p.ctx.Volume)
	log.Printf("PWM ceiling: %d", p.ctx.PWMCeiling)
	log.Printf("LED code: %d", p.ctx.CurrentCode)
	log.Printf("schedule: %02d:00 - %02d:00", p.cfg.StartHour, p.cfg.EndHour)
	log.Printf("track iteration: %d", p.ctx.TrackIteration)
	log.Printf("system awake: %v", p.ctx.Awake)
	log.Printf("playback: %v", p.ctx.Playing)
	log.Println("----- END REPORT -----")
}
