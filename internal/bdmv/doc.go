// Package bdmv decodes disc navigation metadata into an immutable catalog.
//
// The index buffer describes the disc identity and its title table; each
// title lists its play items (clip references with in/out times, still
// settings and alternate-angle clips) and its marks. Clip info buffers,
// one per clip id, carry packet counts and stream tables. Parse
// cross-checks every declared length against the buffer and derives the
// chapter, mark and byte-offset tables used by the navigator.
//
// Integers are big-endian and times are stored in 45 kHz units on the
// wire; everything exposed by this package is expressed in 90 kHz ticks.
//
// Primary entry points:
//   - Parse: builds a DiscCatalog from raw metadata
//   - DiscCatalog.Summary / Detail: copies of title metadata by index
//   - DiscCatalog.MainTitle: explicit or longest-duration main title
package bdmv
