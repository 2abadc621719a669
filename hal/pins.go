package hal

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// SysfsPins implements player.Pins over the kernel GPIO and PWM sysfs
// trees. The player interface has no error returns - a relay write
// either lands or is logged, the control flow never branches on it -
// so failures are logged here and swallowed.
type SysfsPins struct {
	GPIORoot string
	PWMChip  string // pwm chip dir; channel 0 drives the light strip

	pwmPeriodNs int
	exported    map[int]bool
	pwmReady    bool
}

func NewPins() *SysfsPins {
	return &SysfsPins{
		GPIORoot:    "/sys/class/gpio",
		PWMChip:     "/sys/class/pwm/pwmchip0",
		pwmPeriodNs: 1000000, // 1 kHz
		exported:    map[int]bool{},
	}
}

func (sp *SysfsPins) WriteDigital(pin int, high bool) {
	if !sp.export(pin) {
		return
	}
	v := "0"
	if high {
		v = "1"
	}
	sp.write(sp.pinPath(pin, "value"), v)
}

// WriteAnalog drives PWM channel 0 with a duty cycle proportional to
// value (0..255). The pin argument is carried for interface symmetry;
// the nodes have a single analog output.
func (sp *SysfsPins) WriteAnalog(pin int, value int) {
	if value < 0 {
		value = 0
	}
	if value > 255 {
		value = 255
	}
	if !sp.exportPWM() {
		return
	}
	duty := sp.pwmPeriodNs / 255 * value
	sp.write(filepath.Join(sp.PWMChip, "pwm0", "duty_cycle"), fmt.Sprint(duty))
}

func (sp *SysfsPins) ReadDigital(pin int) bool {
	if !sp.export(pin) {
		return false
	}
	b, err := ioutil.ReadFile(sp.pinPath(pin, "value"))
	if err != nil {
		log.Printf("gpio%d read: %s", pin, err)
		return false
	}
	return strings.TrimSpace(string(b)) == "1"
}

func (sp *SysfsPins) pinPath(pin int, file string) string {
	return filepath.Join(sp.GPIORoot, fmt.Sprintf("gpio%d", pin), file)
}

func (sp *SysfsPins) export(pin int) bool {
	if sp.exported[pin] {
		return true
	}
	if _, err := os.Stat(sp.pinPath(pin, "value")); err != nil {
		if err = ioutil.WriteFile(filepath.Join(sp.GPIORoot, "export"),
			[]byte(fmt.Sprint(pin)), 0644); err != nil {
			log.Printf("gpio%d export: %s", pin, err)
			return false
		}
	}
	sp.write(sp.pinPath(pin, "direction"), "out")
	sp.exported[pin] = true
	return true
}

func (sp *SysfsPins) exportPWM() bool {
	if sp.pwmReady {
		return true
	}
	dir := filepath.Join(sp.PWMChip, "pwm0")
	if _, err := os.Stat(dir); err != nil {
		if err = ioutil.WriteFile(filepath.Join(sp.PWMChip, "export"),
			[]byte("0"), 0644); err != nil {
			log.Printf("pwm export: %s", err)
			return false
		}
	}
	sp.write(filepath.Join(dir, "period"), fmt.Sprint(sp.pwmPeriodNs))
	sp.write(filepath.Join(dir, "enable"), "1")
	sp.pwmReady = true
	return true
}

func (sp *SysfsPins) write(path, value string) {
	if err := ioutil.WriteFile(path, []byte(value), 0644); err != nil {
		log.Printf("write %s: %s", path, err)
	}
}
