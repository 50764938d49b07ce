// Package config defines the format-agnostic configuration model for the
// application, along with the Loader interface implemented by the concrete
// HCL and YAML loaders and the lookup of the default configuration file.
//
// The `config.Model` is the single source of truth for the graph builder and
// the device constructors. Expressions are already parsed when a Model leaves
// a Loader, so a syntax error in any axis aborts loading.
package config
