package player

import (
	"testing"
	"time"
)

func TestRunStop(t *testing.T) {
	rig := newTestRig(RoleSmall)
	rig.p.Run()
	rig.local.FeedString("p\n")

	// the channel drains in the same pass that applies the command
	deadline := time.Now().Add(time.Second * 2)
	for rig.local.Available() > 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond * 5)
	}
	rig.p.Stop()
	rig.p.Stop() // second stop is a no-op

	if len(rig.audio.played) != 1 {
		t.Errorf("plays = %d, want 1 via the running loop", len(rig.audio.played))
	}
}

func TestRefreshPlayingTracksAudioEngine(t *testing.T) {
	rig := newTestRig(RoleSmall)
	rig.p.Apply(CmdPlay)
	rig.audio.playing = false // track ran out in the codec
	rig.p.pass(time.Now())
	if rig.p.ctx.Playing {
		t.Error("playing flag should follow the audio engine")
	}
}

func TestNewRejectsIncompleteHardware(t *testing.T) {
	cfg := DefaultConfig
	if _, err := New(&cfg, Hardware{}, nil, nil); err == nil {
		t.Error("New should reject missing collaborators")
	}
	bad := DefaultConfig
	bad.StartHour = 12
	bad.EndHour = 6
	if _, err := New(&bad, Hardware{Audio: &fakeAudio{}, Clock: &fakeClock{}, Pins: newFakePins()}, nil, nil); err == nil {
		t.Error("New should reject an invalid schedule window")
	}
}

func TestSetConfigKeepsRole(t *testing.T) {
	rig := newTestRig(RoleSmall)
	cfg := rig.p.Config()
	cfg.Role = RoleLong
	if err := rig.p.SetConfig(&cfg); err == nil {
		t.Error("role change must be rejected")
	}
	cfg = rig.p.Config()
	cfg.StartHour = 8
	if err := rig.p.SetConfig(&cfg); err != nil {
		t.Error(err)
	}
	if rig.p.Config().StartHour != 8 {
		t.Error("config update not applied")
	}
}

func TestLightFollowsAudioLevel(t *testing.T) {
	rig := newTestRig(RoleSmall)
	pwm := rig.p.cfg.Pins.PWM
	rig.audio.level = 0.5
	rig.p.Apply(CmdPlay)
	rig.p.ctx.PWMCeiling = 200

	rig.p.pass(time.Now())
	if got := rig.pins.analog[pwm]; got != 100 {
		t.Errorf("light output = %d, want 100 (level 0.5 of ceiling 200)", got)
	}

	// lowering the ceiling scales the same level down
	rig.p.ctx.PWMCeiling = 100
	rig.p.pass(time.Now())
	if got := rig.pins.analog[pwm]; got != 50 {
		t.Errorf("light output = %d, want 50 after halving the ceiling", got)
	}

	rig.audio.playing = false // track ran out
	rig.p.pass(time.Now())
	if got := rig.pins.analog[pwm]; got != 0 {
		t.Errorf("light output = %d, want dark once playback ends", got)
	}
}

func TestBootFlashBlinksLightOutput(t *testing.T) {
	rig := newTestRig(RoleSmall)
	rig.p.bootFlash()
	if rig.pins.analog[rig.p.cfg.Pins.PWM] != 0 {
		t.Error("light should end dark after the boot flash")
	}
}
