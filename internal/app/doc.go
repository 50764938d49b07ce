// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the run lifecycle: load the configuration,
// open the devices, build the dependency graph and propagate updates until
// the devices go away or the context ends. It is decoupled from any
// specific entrypoint like a CLI.
package app
