// Package uinput creates virtual joysticks through /dev/uinput.
package uinput
