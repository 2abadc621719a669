package player

import "testing"

func TestPowerUpIdempotent(t *testing.T) {
	rig := newTestRig(RoleLong)
	pins := rig.p.cfg.Pins

	rig.p.PowerUp()
	rig.p.PowerUp()

	if n := rig.pins.relayWrites(pins.AmpRelay, true); n != 1 {
		t.Errorf("amp-on transitions = %d, want 1", n)
	}
	if n := rig.pins.relayWrites(pins.SpeakerRelay, true); n != 1 {
		t.Errorf("speaker-on transitions = %d, want 1", n)
	}
	if !rig.p.ctx.Awake {
		t.Error("node should be awake")
	}
}

func TestPowerDownWhenAsleepIsNoop(t *testing.T) {
	rig := newTestRig(RoleLong)
	rig.p.PowerDown()
	if len(rig.pins.writes) != 0 {
		t.Errorf("relay writes = %d, want 0 when already asleep", len(rig.pins.writes))
	}
	if rig.audio.stops != 0 {
		t.Error("audio must not be touched when already asleep")
	}
}

func TestPowerUpOrdersAmpBeforeSpeaker(t *testing.T) {
	rig := newTestRig(RoleLong)
	pins := rig.p.cfg.Pins
	rig.p.PowerUp()

	if len(rig.pins.writes) < 2 {
		t.Fatalf("expected 2 relay writes, got %d", len(rig.pins.writes))
	}
	if rig.pins.writes[0] != (pinWrite{pins.AmpRelay, true}) {
		t.Errorf("first write %v, want amp on", rig.pins.writes[0])
	}
	if rig.pins.writes[1] != (pinWrite{pins.SpeakerRelay, true}) {
		t.Errorf("second write %v, want speaker on", rig.pins.writes[1])
	}
}

func TestPowerDownOrdersSpeakerBeforeAmp(t *testing.T) {
	rig := newTestRig(RoleLong)
	pins := rig.p.cfg.Pins
	rig.p.PowerUp()
	rig.p.Apply(CmdPlay)
	rig.pins.writes = nil

	rig.p.PowerDown()

	if rig.audio.stops != 1 {
		t.Errorf("audio stops = %d, want 1 before relays drop", rig.audio.stops)
	}
	if rig.pins.analog[pins.PWM] != 0 {
		t.Error("light output should be forced to zero on power-down")
	}
	if len(rig.pins.writes) != 2 {
		t.Fatalf("relay writes = %d, want 2", len(rig.pins.writes))
	}
	if rig.pins.writes[0] != (pinWrite{pins.SpeakerRelay, false}) {
		t.Errorf("first write %v, want speaker off", rig.pins.writes[0])
	}
	if rig.pins.writes[1] != (pinWrite{pins.AmpRelay, false}) {
		t.Errorf("second write %v, want amp off", rig.pins.writes[1])
	}
	if rig.p.ctx.Playing {
		t.Error("playing flag should be cleared")
	}
}

func TestPowerUpResetsIterationCounter(t *testing.T) {
	rig := newTestRig(RoleLong)
	rig.p.PowerUp()
	rig.p.Apply(CmdPlay)
	rig.p.Apply(CmdPlay)
	if rig.p.ctx.TrackIteration != 2 {
		t.Fatalf("iterations = %d, want 2", rig.p.ctx.TrackIteration)
	}
	rig.p.PowerDown()
	rig.p.PowerUp()
	if rig.p.ctx.TrackIteration != 0 {
		t.Errorf("iterations = %d, want 0 after fresh power-up", rig.p.ctx.TrackIteration)
	}
}
