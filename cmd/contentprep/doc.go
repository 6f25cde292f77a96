// Package main hosts the contentprep CLI entrypoint and command graph.
//
// The Cobra command tree maps terminal invocations onto the prep service:
// folder analysis, set validation and ordering, manifest generation, set
// lifecycle changes, retention sweeps, and the pending-folder watcher.
// Configuration, logging, and store setup live in commandContext so each
// subcommand only deals with its own flags and output.
package main
