// Package ui provides terminal UI components for gitup's CLI output.
//
// The package includes the animated spinner used during key generation and
// connectivity probes, the Bubble Tea spinner component used by the watch
// view, and the shared color palette and status symbols.
//
// Colors are defined as ANSI codes for broad terminal compatibility. The
// animated spinners cycle through GradientColors while running and settle
// on a semantic color (green, red, yellow) when finished.
package ui
