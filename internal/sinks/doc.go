// Package sinks holds virtual devices that do not go through the kernel:
// a logging sink for dry runs and a socket.io forwarder.
package sinks
