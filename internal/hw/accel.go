// Package hw implements the sensor capability interfaces on top of the
// Linux sysfs interfaces exposed on the device: the industrial I/O (IIO)
// accelerometer files and a GPIO value file for the lid reed switch.
package hw

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// standardGravity converts IIO m/s² readings to normalized g units, which
// is what the shake threshold is calibrated in.
const standardGravity = 9.80665

// IIOAccel reads three acceleration axes from an IIO device directory
// (e.g. /sys/bus/iio/devices/iio:device0). Raw counts are converted using
// the device's reported scale.
type IIOAccel struct {
	dir   string
	scale float64
}

// NewIIOAccel probes the IIO directory and caches the axis scale. The scale
// file is optional on some drivers; raw counts are then taken as m/s².
func NewIIOAccel(dir string) (*IIOAccel, error) {
	a := &IIOAccel{dir: dir, scale: 1.0}

	if _, err := os.Stat(filepath.Join(dir, "in_accel_x_raw")); err != nil {
		return nil, fmt.Errorf("hw: no accelerometer at %s: %w", dir, err)
	}

	if b, err := os.ReadFile(filepath.Join(dir, "in_accel_scale")); err == nil {
		if s, err := strconv.ParseFloat(strings.TrimSpace(string(b)), 64); err == nil && s > 0 {
			a.scale = s
		}
	}
	return a, nil
}

// Read samples all three axes and returns them in g.
func (a *IIOAccel) Read() (x, y, z float64, err error) {
	if x, err = a.axis("x"); err != nil {
		return 0, 0, 0, err
	}
	if y, err = a.axis("y"); err != nil {
		return 0, 0, 0, err
	}
	if z, err = a.axis("z"); err != nil {
		return 0, 0, 0, err
	}
	return x, y, z, nil
}

func (a *IIOAccel) axis(name string) (float64, error) {
	path := filepath.Join(a.dir, "in_accel_"+name+"_raw")
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("hw: read %s: %w", path, err)
	}
	raw, err := strconv.ParseFloat(strings.TrimSpace(string(b)), 64)
	if err != nil {
		return 0, fmt.Errorf("hw: parse %s: %w", path, err)
	}
	return raw * a.scale / standardGravity, nil
}
