// Copyright (c) 2025 Niema Moshiri and The Zaparoo Project.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of go-rombat.
//
// go-rombat is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-rombat is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-rombat.  If not, see <https://www.gnu.org/licenses/>.

// Package rombat finds cartridge ROM images that declare battery-backed save
// RAM. It maps file names to consoles, classifies ROM headers, scans directory
// trees and writes the sorted output.txt report.
package rombat

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZaparooProject/go-rombat/detector"
)

// Classification is an alias for detector.Classification for convenience.
type Classification = detector.Classification

// Console is an alias for detector.Console for convenience.
type Console = detector.Console

// Re-export console constants for convenience.
const (
	ConsoleGB      = detector.ConsoleGB
	ConsoleGenesis = detector.ConsoleGenesis
	ConsoleNES     = detector.ConsoleNES
	ConsoleSNES    = detector.ConsoleSNES
)

// AllConsoles is a list of all supported consoles.
var AllConsoles = detector.AllConsoles

// detectors maps console types to their detector implementations.
var detectors = map[detector.Console]detector.Detector{
	detector.ConsoleGB:      detector.NewGBDetector(),
	detector.ConsoleGenesis: detector.NewGenesisDetector(),
	detector.ConsoleNES:     detector.NewNESDetector(),
	detector.ConsoleSNES:    detector.NewSNESDetector(),
}

// Entry is the classification of one file found during a scan.
type Entry struct {
	// Path is the file path as found by the walk.
	Path string

	// Name is the base name written to the report.
	Name string

	// Console is the console selected from the file name.
	Console Console

	Classification Classification
}

// Detect classifies the contents of a ROM image using the detector for console.
func Detect(data []byte, console Console) (Classification, error) {
	det, ok := detectors[console]
	if !ok {
		return Classification{}, detector.ErrNotSupported{Format: string(console)}
	}
	return det.Detect(data), nil
}

// ClassifyFile reads the file at path and classifies it as a ROM for console.
// Read failures produce an Unreadable classification rather than an error so
// that a scan can record them and continue.
func ClassifyFile(path string, console Console) Entry {
	entry := Entry{
		Path:    path,
		Name:    filepath.Base(path),
		Console: console,
	}

	data, err := os.ReadFile(path) //nolint:gosec // Path comes from the directory walk
	if err != nil {
		entry.Classification = detector.UnreadableError(fmt.Errorf("read file: %w", err))
		return entry
	}

	result, err := Detect(data, console)
	if err != nil {
		entry.Classification = detector.UnreadableError(err)
		return entry
	}
	entry.Classification = result
	return entry
}
