package player

import (
	"log"
	"strings"
	"time"
)

// Named-message protocol. A message opens with MsgDelim, accumulates
// until CR, LF or MsgTerm (the terminator stays in the raw buffer), or
// until the read timeout runs out mid-message, whichever comes first.
// The receive path moves IDLE -> RECEIVING -> DISPATCHING and back on
// every message; there is no cross-message state.

// messageTokens maps named command bodies 1:1 onto registry tokens.
var messageTokens = map[string]byte{
	"help":    CmdHelp,
	"report":  CmdReport,
	"wakeup":  CmdWakeup,
	"sleep":   CmdSleep,
	"play":    CmdPlay,
	"stop":    CmdStop,
	"replay":  CmdReplay,
	"volup":   CmdVolUp,
	"voldown": CmdVolDown,
	"pwmup":   CmdPwmUp,
	"pwmdown": CmdPwmDown,
	"led1":    CmdLed1,
	"led2":    CmdLed2,
	"led3":    CmdLed3,
	"led4":    CmdLed4,
}

// roleQueries maps the leader's role-query broadcasts onto follower
// roles. Exactly one follower matches any given query.
var roleQueries = map[string]Role{
	"small":    RoleSmall,
	"seashell": RoleSeashell,
}

// readMessage accumulates a message after its opening delimiter has been
// consumed. The returned buffer starts with MsgDelim and, when MsgTerm
// closed the message, retains it. Oversized input is truncated and the
// buffer handed off as-is; it is always length-bounded.
//
// The read timeout is between bytes, not over the whole message: a slow
// sender keeps the message open as long as something keeps arriving.
func (p *Player) readMessage(ch Channel) []byte {
	raw := make([]byte, 1, MaxMessage)
	raw[0] = MsgDelim
	deadline := time.Now().Add(time.Duration(p.cfg.ReadTimeout))
	for {
		b, ok := ch.ReadByte()
		if !ok {
			if !time.Now().Before(deadline) {
				break
			}
			time.Sleep(time.Millisecond)
			continue
		}
		deadline = time.Now().Add(time.Duration(p.cfg.ReadTimeout))
		if isTerm(b) {
			if b == MsgTerm {
				raw = append(raw, b)
			}
			break
		}
		raw = append(raw, b)
		if len(raw) >= MaxMessage {
			log.Printf("message truncated at %d bytes", MaxMessage)
			break
		}
	}
	return raw
}

// dispatchMessage routes one received message. isLocal marks messages
// from the interactive channel; on the leader those are also put back on
// the bus verbatim, which is what lets the operator console drive the
// whole fleet. Reports whether the message was recognized.
func (p *Player) dispatchMessage(raw []byte, isLocal bool) bool {
	if len(raw) < 2 || raw[0] != MsgDelim {
		log.Printf("malformed message: %q", raw)
		return false
	}
	body := strings.TrimSuffix(string(raw[1:]), ";")

	isStatus := strings.HasPrefix(body, StatusPrefix+"|")
	if isLocal && p.ctx.Role.Leader() && !isStatus {
		p.relay(append(raw, '\n'))
	}

	if isStatus {
		p.handleStatus(body)
		return true
	}

	name := strings.ToLower(body)
	if tok, ok := messageTokens[name]; ok {
		return p.Apply(tok)
	}
	if want, ok := roleQueries[name]; ok {
		p.handleRoleQuery(want)
		return true
	}
	log.Printf("unknown message: %q", body)
	return false
}

// handleStatus parses a follower's status line. Partial reports are
// logged as received, never fatal.
func (p *Player) handleStatus(body string) {
	s, complete := ParseStatus(body)
	if !complete {
		log.Printf("partial status report: %q", body)
		return
	}
	log.Printf("status from %s: temp=%.1fC awake=%v playing=%v pos=%s/%s",
		s.Role, s.TempC, s.Awake, s.Playing,
		formatMillis(s.Position), formatMillis(s.Length))
}

// handleRoleQuery implements the contention-avoidance protocol on the
// shared half-duplex bus. The matching follower answers with its status;
// the other follower mutes its receiver for the silence window so its
// own traffic can't collide with the reply. The leader never answers its
// own broadcast.
func (p *Player) handleRoleQuery(want Role) {
	if p.ctx.Role.Leader() {
		return
	}
	if p.ctx.Role == want {
		if err := p.sendSnapshot(); err != nil {
			log.Println("in p.sendSnapshot:", err)
		}
		return
	}
	p.muteReceiver()
}

// muteReceiver disables inter-node reception until the silence window
// elapses. Silence is enforced by time, not arbitration: there is no
// collision detection on the bus.
func (p *Player) muteReceiver() {
	if p.internode == nil {
		return
	}
	p.internode.SetReceiving(false)
	p.silenceUntil = time.Now().Add(time.Duration(p.cfg.SilenceWindow))
	log.Printf("receiver muted for %s", time.Duration(p.cfg.SilenceWindow))
}

// relay re-transmits bytes on the inter-node channel.
func (p *Player) relay(b []byte) {
	if p.internode == nil {
		return
	}
	if _, err := p.internode.Write(b); err != nil {
		log.Println("in p.relay:", err)
	}
}
