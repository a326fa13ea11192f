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
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ZaparooProject/go-rombat/detector"
)

// ReportFileName is the name of the report written next to the scanned directory.
const ReportFileName = "output.txt"

// DefaultDiagnostic is the diagnostic used when BuildReport is given none.
const DefaultDiagnostic = "File could not be read"

// BuildReport turns scan entries into sorted report lines.
//
// Entries with battery RAM become their base name. Unreadable entries become
// "# <diagnostic>: <name>". Entries without battery RAM are left out.
// Since '#' sorts before letters and digits, diagnostics come first.
func BuildReport(entries []Entry, diagnostic string) []string {
	if diagnostic == "" {
		diagnostic = DefaultDiagnostic
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		switch e.Classification.Kind {
		case detector.BatteryPresent:
			lines = append(lines, e.Name)
		case detector.Unreadable:
			lines = append(lines, fmt.Sprintf("# %s: %s", diagnostic, e.Name))
		case detector.NoBattery:
			// not reported
		}
	}

	sort.Strings(lines)
	return lines
}

// ReportPath returns where the report for dir is written: output.txt in the
// parent of dir. Symlinks in dir are resolved first, so a linked directory
// reports into the parent of its target, as "dir/.." does for the OS.
func ReportPath(dir string) string {
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		dir = resolved
	}
	return filepath.Join(dir, "..", ReportFileName)
}

// WriteReport writes lines to path, one per line, replacing any existing file.
func WriteReport(path string, lines []string) error {
	file, err := os.Create(path) //nolint:gosec // Report path is chosen by the user
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}

	w := bufio.NewWriter(file)
	for _, line := range lines {
		if _, err := w.WriteString(line + "\n"); err != nil {
			_ = file.Close()
			return fmt.Errorf("write report: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = file.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	return nil
}
