// Package cli implements gitup's command surface.
//
// Commands are thin: flag parsing and rendering live here, while the real
// work happens in the keys, remote, verify, trust, and doctor packages.
// Probe outcomes map to distinct process exit codes (see exit.go) so shell
// scripts can branch on the failure class.
package cli
