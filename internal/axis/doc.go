// Package axis defines the closed set of absolute control axes the remapper
// understands and the (device, axis) key used to address a concrete axis.
package axis
