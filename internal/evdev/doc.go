// Package evdev reads absolute axes from Linux event devices
// (/dev/input/event*). It also holds the input_event wire format and ioctl
// helpers shared with package uinput.
package evdev
