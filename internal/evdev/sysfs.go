//go:build linux

package evdev

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/vk/axisflow/internal/config"
)

// SysfsRoot is where input devices are enumerated.
var SysfsRoot = "/sys"

// DevRoot is where event device nodes live.
var DevRoot = "/dev/input"

// Resolve turns a matcher into an event device path. A path matcher is
// returned as is; an id matcher is looked up in sysfs and the first
// matching event device, in name order, wins.
func Resolve(m config.Matcher) (string, error) {
	if !m.ByID() {
		return m.Path, nil
	}
	return findByID(SysfsRoot, DevRoot, m.VendorID, m.ProductID)
}

func findByID(sysRoot, devRoot string, vendor, product uint16) (string, error) {
	dirs, err := filepath.Glob(filepath.Join(sysRoot, "class", "input", "event*"))
	if err != nil {
		return "", err
	}
	sort.Strings(dirs)
	for _, dir := range dirs {
		v, err := readHexID(filepath.Join(dir, "device", "id", "vendor"))
		if err != nil || v != vendor {
			continue
		}
		p, err := readHexID(filepath.Join(dir, "device", "id", "product"))
		if err != nil || p != product {
			continue
		}
		return filepath.Join(devRoot, filepath.Base(dir)), nil
	}
	return "", fmt.Errorf("no input device with id %04x:%04x", vendor, product)
}

func readHexID(path string) (uint16, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(strings.TrimSpace(string(b)), 16, 16)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}
	return uint16(v), nil
}
