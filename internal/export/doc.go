// Package export renders the time-lapse to files: one SVG per year and an
// animated GIF of the whole sequence.
package export
