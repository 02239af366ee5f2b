// Package preflight provides readiness checks for the filesystem paths and
// disc folders that bdnav depends on.
//
// The CLI "bdnav check" command runs RunAll for the configured directories
// and CheckDisc for each disc path given on the command line.
package preflight
