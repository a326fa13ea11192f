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

package rombat

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZaparooProject/go-rombat/detector"
)

// Extension to console mapping
var extToConsole = map[string]detector.Console{
	// Game Boy / Game Boy Color
	".gb":  detector.ConsoleGB,
	".gbc": detector.ConsoleGB,

	// SNES
	".smc": detector.ConsoleSNES,
	".sfc": detector.ConsoleSNES,
	".fig": detector.ConsoleSNES,

	// Genesis / Mega Drive
	".gen": detector.ConsoleGenesis,
	".smd": detector.ConsoleGenesis,

	// NES
	".nes": detector.ConsoleNES,
}

// smdSuffix is matched against the end of the whole name, not the extension,
// so "gamesmd" is treated as a Genesis dump unless StrictSMD is set.
const smdSuffix = "smd"

// DispatchOptions controls how file names are mapped to consoles.
type DispatchOptions struct {
	// StrictSMD only accepts SMD dumps with a real ".smd" extension.
	StrictSMD bool
}

// ConsoleForName selects the console for a file from its name alone.
// Matching is case-insensitive. The file is never opened.
// Names that belong to no supported console return detector.ErrNotSupported.
func ConsoleForName(name string, opts DispatchOptions) (Console, error) {
	lower := strings.ToLower(filepath.Base(name))
	ext := filepath.Ext(lower)

	if console, ok := extToConsole[ext]; ok {
		return console, nil
	}

	if !opts.StrictSMD && strings.HasSuffix(lower, smdSuffix) {
		return detector.ConsoleGenesis, nil
	}

	return "", detector.ErrNotSupported{Format: ext}
}

// SupportedExtensions returns the recognized file extensions in sorted order.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(extToConsole))
	for ext := range extToConsole {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
