// Package detector provides console-specific battery-save detection logic.
//
// Each detector decodes the header of one cartridge format from the full
// contents of a ROM image and answers a single question: does the cartridge
// declare battery-backed save RAM?
package detector

import (
	"fmt"
)

// Console represents a cartridge-based gaming console.
type Console string

// Supported console types.
const (
	ConsoleGB      Console = "GB"
	ConsoleGenesis Console = "Genesis"
	ConsoleNES     Console = "NES"
	ConsoleSNES    Console = "SNES"
)

// AllConsoles is a list of all supported consoles.
var AllConsoles = []Console{
	ConsoleGB,
	ConsoleGenesis,
	ConsoleNES,
	ConsoleSNES,
}

// Kind is the outcome of classifying a ROM image.
type Kind int

// Classification outcomes.
const (
	// NoBattery means the header was understood and declares no battery RAM.
	NoBattery Kind = iota
	// BatteryPresent means the header declares battery-backed save RAM.
	BatteryPresent
	// Unreadable means the file did not match its claimed format or could not be read.
	Unreadable
)

func (k Kind) String() string {
	switch k {
	case NoBattery:
		return "no battery"
	case BatteryPresent:
		return "battery"
	case Unreadable:
		return "unreadable"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Classification is the result of running a detector over a ROM image.
type Classification struct {
	// Kind is the battery-save verdict.
	Kind Kind

	// Err explains an Unreadable verdict. It is nil for the other kinds.
	Err error

	// Title is the internal title embedded in the header, if any.
	Title string

	// Hardware is a human-readable description of the cartridge hardware.
	Hardware string
}

// HasBattery reports whether the classification is BatteryPresent.
func (c Classification) HasBattery() bool {
	return c.Kind == BatteryPresent
}

// classify builds a BatteryPresent or NoBattery classification.
func classify(battery bool, title, hardware string) Classification {
	kind := NoBattery
	if battery {
		kind = BatteryPresent
	}
	return Classification{Kind: kind, Title: title, Hardware: hardware}
}

// unreadable builds an Unreadable classification for the given reason.
func unreadable(console Console, reason string) Classification {
	return Classification{
		Kind: Unreadable,
		Err:  ErrInvalidFormat{Console: console, Reason: reason},
	}
}

// UnreadableError wraps err (typically a filesystem error) as an Unreadable classification.
func UnreadableError(err error) Classification {
	return Classification{Kind: Unreadable, Err: err}
}

// Detector is the interface for console-specific battery detection.
type Detector interface {
	// Detect classifies the full contents of a ROM image.
	// It never panics on short or malformed input.
	Detect(data []byte) Classification

	// Console returns the console type this detector handles.
	Console() Console
}

// ErrNotSupported is returned when a file format is not supported.
type ErrNotSupported struct {
	Format string
}

func (e ErrNotSupported) Error() string {
	return fmt.Sprintf("format not supported: %s", e.Format)
}

// ErrInvalidFormat is returned when a file doesn't match the expected format.
type ErrInvalidFormat struct {
	Console Console
	Reason  string
}

func (e ErrInvalidFormat) Error() string {
	return fmt.Sprintf("invalid %s format: %s", e.Console, e.Reason)
}
