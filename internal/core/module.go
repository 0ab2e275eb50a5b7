// Package core provides the module system foundation for mockmate.
package core

// ModuleID uniquely identifies a module, namespaced by concern
// (e.g. "gateway.http", "provider.openai").
type ModuleID string

// ModuleInfo describes a registered module type.
type ModuleInfo struct {
	// ID is the unique module identifier.
	ID ModuleID

	// New returns a fresh, unconfigured instance of the module.
	New func() Module
}

// Module is the minimal interface every module implements. Lifecycle
// behavior is added through the optional interfaces in lifecycle.go.
type Module interface {
	ModuleInfo() ModuleInfo
}
