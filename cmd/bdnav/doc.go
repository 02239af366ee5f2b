// Package main hosts the bdnav CLI entrypoint and command graph.
//
// The Cobra-based command tree opens disc folders through the discsource
// package, drives playback sessions, and manages player settings and
// configuration scaffolding. Configuration resolution, logging setup and
// per-disc locking live here so subcommands can focus on presentation.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
