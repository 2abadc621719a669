package player

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"
	"time"
)

func TestRoleQueryMatchingFollowerAnswersOnce(t *testing.T) {
	rig := newTestRig(RoleSmall)
	rig.internode.FeedString(":small\n")
	rig.p.pass(time.Now())

	sent := string(rig.internode.Sent())
	if n := strings.Count(sent, ":STATUS|1|"); n != 1 {
		t.Errorf("snapshots on the bus = %d, want exactly 1 (wire %q)", n, sent)
	}
	if !rig.internode.Receiving() {
		t.Error("answering follower must keep its receiver on")
	}
}

func TestRoleQueryNonMatchingFollowerGoesSilent(t *testing.T) {
	rig := newTestRig(RoleSeashell)
	rig.internode.FeedString(":small\n")
	rig.p.pass(time.Now())

	if len(rig.internode.Sent()) != 0 {
		t.Errorf("non-matching follower transmitted %q", rig.internode.Sent())
	}
	if rig.internode.Receiving() {
		t.Fatal("receiver should be muted during the silence window")
	}

	// the window elapses and the receiver comes back by itself
	time.Sleep(time.Duration(rig.p.cfg.SilenceWindow) + time.Millisecond*5)
	rig.p.pass(time.Now())
	if !rig.internode.Receiving() {
		t.Error("receiver should be re-enabled after the silence window")
	}
}

func TestRoleQuerySeashell(t *testing.T) {
	rig := newTestRig(RoleSeashell)
	rig.internode.FeedString(":seashell;")
	rig.p.pass(time.Now())
	if !strings.HasPrefix(string(rig.internode.Sent()), ":STATUS|2|") {
		t.Errorf("wire = %q, want :STATUS|2| reply", rig.internode.Sent())
	}
}

func TestMessageTermRetainedInRawBufferOnly(t *testing.T) {
	rig := newTestRig(RoleSmall)

	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	raw := []byte(":report;")
	if !rig.p.dispatchMessage(raw, false) {
		t.Fatal(":report; should be handled")
	}
	if raw[len(raw)-1] != MsgTerm {
		t.Error("terminator must stay in the raw buffer")
	}
	if !strings.Contains(buf.String(), "SYSTEM REPORT") {
		t.Error("message dispatch should equal the single-character report effect")
	}
}

func TestNamedMessagesMatchTokens(t *testing.T) {
	rig := newTestRig(RoleSmall)
	rig.internode.FeedString(":play;")
	rig.p.pass(time.Now())
	if len(rig.audio.played) != 1 {
		t.Fatalf("plays = %d, want 1 from :play;", len(rig.audio.played))
	}

	rig.internode.FeedString(":VolUp\r\n")
	rig.p.pass(time.Now())
	if rig.p.ctx.Volume <= 0.5 {
		t.Error("named messages should be case-insensitive")
	}
}

func TestMessageTimeoutDispatchesWhatArrived(t *testing.T) {
	rig := newTestRig(RoleSmall)
	rig.internode.FeedString(":play") // no terminator at all
	start := time.Now()
	rig.p.pass(start)
	if len(rig.audio.played) != 1 {
		t.Error("unterminated message should dispatch after the read timeout")
	}
	if elapsed := time.Since(start); elapsed < time.Duration(rig.p.cfg.ReadTimeout) {
		t.Errorf("dispatch after %s, before the %s timeout", elapsed, time.Duration(rig.p.cfg.ReadTimeout))
	}
}

func TestMessageTruncation(t *testing.T) {
	rig := newTestRig(RoleSmall)
	raw := rig.p.readMessage(feedOnly(strings.Repeat("a", 3*MaxMessage) + ";"))
	if len(raw) > MaxMessage {
		t.Errorf("message buffer grew to %d, cap is %d", len(raw), MaxMessage)
	}
}

func TestUnknownMessageHandledFalse(t *testing.T) {
	rig := newTestRig(RoleSmall)
	before := *rig.p.ctx
	if rig.p.dispatchMessage([]byte(":frobnicate;"), false) {
		t.Error("unknown message should report handled=false")
	}
	if *rig.p.ctx != before {
		t.Error("unknown message mutated state")
	}
}

func TestLeaderRelaysLocalMessageVerbatim(t *testing.T) {
	rig := newTestRig(RoleLong)
	rig.local.FeedString(":seashell\n")
	rig.p.pass(time.Now())
	if got := string(rig.internode.Sent()); got != ":seashell\n" {
		t.Errorf("bus saw %q, want verbatim :seashell relay", got)
	}
}

func TestFollowerDoesNotRelayLocalMessages(t *testing.T) {
	rig := newTestRig(RoleSmall)
	rig.local.FeedString(":help;")
	rig.p.pass(time.Now())
	if len(rig.internode.Sent()) != 0 {
		t.Error("follower must not relay local traffic")
	}
}

func TestLeaderDoesNotRelayStatusLines(t *testing.T) {
	rig := newTestRig(RoleLong)
	rig.local.FeedString(":STATUS|1|20.0|1|0|0|0\n")
	rig.p.pass(time.Now())
	if len(rig.internode.Sent()) != 0 {
		t.Error("status lines are not fleet commands and must not be relayed")
	}
}

func TestRoleQueryWithoutBusChannel(t *testing.T) {
	cfg := DefaultConfig
	cfg.Role = RoleSmall
	cfg.RelaySwitchDelay = 0
	cfg.ReadTimeout = durationOf(time.Millisecond * 10)
	local := NewMemChannel()
	p, err := New(&cfg, Hardware{Audio: &fakeAudio{}, Clock: &fakeClock{}, Pins: newFakePins()},
		local, nil)
	if err != nil {
		t.Fatal(err)
	}

	// a bench node's own role query arrives on the console; with no bus
	// to answer on, the query is absorbed, not fatal
	local.FeedString(":small\n")
	p.pass(time.Now())

	if err := p.sendSnapshot(); err != nil {
		t.Errorf("sendSnapshot without a bus channel = %v, want nil", err)
	}
}

func TestMessageInterByteTimeout(t *testing.T) {
	rig := newTestRig(RoleSmall)
	rig.p.cfg.ReadTimeout = durationOf(time.Millisecond * 60)

	// total delivery outlasts the timeout, but every gap stays inside it
	ch := NewMemChannel()
	go func() {
		ch.FeedString("pl")
		time.Sleep(time.Millisecond * 35)
		ch.FeedString("ay")
		time.Sleep(time.Millisecond * 35)
		ch.FeedString(";")
	}()

	if raw := rig.p.readMessage(ch); string(raw) != ":play;" {
		t.Errorf("message = %q, want :play; from a slow sender", raw)
	}
}

func TestLeaderIgnoresOwnRoleQuery(t *testing.T) {
	rig := newTestRig(RoleLong)
	if !rig.p.dispatchMessage([]byte(":small;"), false) {
		t.Error("role query should be a recognized message on any node")
	}
	if len(rig.internode.Sent()) != 0 {
		t.Error("leader must not answer a role query")
	}
}

// feedOnly builds a channel preloaded with s, for direct readMessage tests.
func feedOnly(s string) *MemChannel {
	mc := NewMemChannel()
	mc.FeedString(s)
	return mc
}
