package player

import "log"

// The four status LEDs double as a binary display: codes 0..15 show
// boot progress and schedule state at a glance from across the room.

func (p *Player) setLedPattern(values [4]bool) {
	for i, v := range values {
		p.pins.WriteDigital(p.cfg.Pins.Leds[i], v)
		p.ctx.LedState[i] = v
	}
}

// DisplayCode shows code (0..15) on the LED array, most significant bit
// on LED 1. Out-of-range codes are rejected.
func (p *Player) DisplayCode(code int) {
	if code < 0 || code > 15 {
		log.Println("status code should be an integer in the 0-15 range:", code)
		return
	}
	var bits [4]bool
	c := code
	for i := 3; i >= 0; i-- {
		bits[i] = c&1 == 1
		c >>= 1
	}
	p.setLedPattern(bits)
	p.ctx.CurrentCode = code
}

// toggleLed flips one of the four status LEDs (index 0..3).
func (p *Player) toggleLed(i int) {
	next := !p.ctx.LedState[i]
	p.pins.WriteDigital(p.cfg.Pins.Leds[i], next)
	p.ctx.LedState[i] = next
	log.Printf("toggled LED %d -> %v", i+1, next)
}

// bootFlash blinks the light strip four times so the installer can see
// the node came up before any audio is audible.
func (p *Player) bootFlash() {
	for i := 0; i < 4; i++ {
		p.pins.WriteAnalog(p.cfg.Pins.PWM, 1)
		p.sleep(bootFlashDelay)
		p.pins.WriteAnalog(p.cfg.Pins.PWM, 0)
		p.sleep(bootFlashDelay)
	}
}
