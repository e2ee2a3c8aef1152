// Package cil2cpp is the embeddable public façade over the translator: a
// single Translate call that takes a loader.Source and configuration and
// returns the populated IR module, for hosts that want to drive the
// pipeline from their own Go program rather than the CLI.
package cil2cpp

import (
	"github.com/axiomates/cil2cpp/internal/ir"
	"github.com/axiomates/cil2cpp/internal/loader"
	"github.com/axiomates/cil2cpp/internal/reach"
	"github.com/axiomates/cil2cpp/internal/translator"
)

// Re-exported so a caller never has to import an internal package directly.
type (
	// Source is the external metadata boundary (§6): an already-parsed set
	// of assemblies the translator reads from.
	Source = loader.Source
	// Module is the populated IR tree handed off to an external emitter.
	Module = ir.Module
	// ReachabilityMode selects the seeding policy (§4.C).
	ReachabilityMode = reach.Mode
)

const (
	// Auto seeds the root assembly's entry point if one exists, falling
	// back to library-surface seeding otherwise.
	Auto = reach.ModeAuto
	// Executable requires an entry point; translation touches nothing if
	// the root assembly declares none.
	Executable = reach.ModeExecutable
	// Library seeds every public (or family-level) member of the root
	// assembly's public types, ignoring any entry point.
	Library = reach.ModeLibrary
)

// Options configures a translation run.
type Options struct {
	Mode ReachabilityMode

	// RegisterValueTypes lists extra IL names the Name Mapper should treat
	// as value types beyond the fixed primitive set (§5).
	RegisterValueTypes []string
}

// Result is what one Translate call produces.
type Result struct {
	Module *Module

	// Reachable is the live set that shaped Module: every type and method
	// name mapping found reachable, plus an observational why-trace.
	Reachable *reach.Result
}

// Translate runs the full Name Mapper / Reachability / Lifter /
// Interception / Attribute / Generic-Specialization pipeline (§2) over src
// and returns the resulting Module.
func Translate(src Source, opts Options) (*Result, error) {
	res, err := translator.Translate(src, translator.Options{
		Mode:               opts.Mode,
		RegisterValueTypes: opts.RegisterValueTypes,
	})
	if err != nil {
		return nil, err
	}
	return &Result{Module: res.Module, Reachable: res.Reach}, nil
}
