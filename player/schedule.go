package player

import (
	"log"
	"time"
)

// Activity schedule. Only the leader runs this: followers are told to
// wake and sleep over the bus and never consult their own clock.
//
// Polling is rate-limited. The first check happens shortly after boot so
// a node with a misconfigured RTC shows its hand quickly; after that the
// clock is read about once a minute to keep traffic off the RTC bus.
// Edge detection compares against the previously computed bit, so a
// missed poll self-corrects on the next one.

// isActive is the schedule predicate: active on [start, end).
func isActive(hour, startHour, endHour int) bool {
	return hour >= startHour && hour < endHour
}

// pollSchedule runs one scheduler pass. No-op between poll deadlines and
// on non-leader nodes.
func (p *Player) pollSchedule(now time.Time) {
	if !p.ctx.Role.Leader() {
		return
	}
	if now.Before(p.nextPoll) {
		return
	}
	p.nextPoll = now.Add(time.Duration(p.cfg.SchedulePollRate))

	ct, err := p.clock.Now()
	if err != nil {
		log.Println("in p.clock.Now:", err)
		return
	}
	active := isActive(ct.Hour, p.cfg.StartHour, p.cfg.EndHour)
	if active == p.lastActive {
		return
	}
	log.Printf("activity state changed from %s to %s at %s",
		activityName(p.lastActive), activityName(active), ct)

	if active {
		// Followers first, so their relays settle while ours do.
		p.broadcast(CmdWakeup)
		p.PowerUp()
		p.DisplayCode(15)
	} else {
		p.broadcast(CmdSleep)
		p.PowerDown()
	}
	p.lastActive = active
}

// broadcast puts a single command byte on the inter-node channel.
func (p *Player) broadcast(cmd byte) {
	if p.internode == nil {
		return
	}
	if _, err := p.internode.Write([]byte{cmd}); err != nil {
		log.Printf("broadcast '%c': %s", cmd, err)
	}
}

func activityName(b bool) string {
	if b {
		return "ACTIVE"
	}
	return "INACTIVE"
}
