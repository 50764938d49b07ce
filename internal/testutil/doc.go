// Package testutil holds in-memory stand-ins for physical and virtual
// devices plus small helpers shared by tests across packages.
package testutil
