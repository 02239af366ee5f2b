// Package language normalizes language codes for player settings and stream
// selection.
//
// Discs label streams with ISO 639-2 codes and player settings store the
// same form. Callers may hand in ISO 639-1 codes, English names, or BCP 47
// tags such as "en-US"; everything funnels through ToISO3 or ToDisc before
// comparison.
package language
