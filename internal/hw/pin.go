package hw

import (
	"fmt"
	"os"
	"strings"
)

// GPIOPin reads a digital level from a sysfs GPIO value file
// (e.g. /sys/class/gpio/gpio17/value). For the lid sensor, the reed switch
// pulls the line low while the magnet sits next to it; high means open.
type GPIOPin struct {
	path string
}

// NewGPIOPin verifies the value file is readable.
func NewGPIOPin(path string) (*GPIOPin, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("hw: no gpio at %s: %w", path, err)
	}
	return &GPIOPin{path: path}, nil
}

// Read returns true when the line is high.
func (p *GPIOPin) Read() (bool, error) {
	b, err := os.ReadFile(p.path)
	if err != nil {
		return false, fmt.Errorf("hw: read %s: %w", p.path, err)
	}
	return strings.TrimSpace(string(b)) == "1", nil
}
