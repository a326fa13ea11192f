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

package detector

import (
	"errors"

	"github.com/ZaparooProject/go-rombat/internal/binary"
)

// SMD copier layout
const (
	smdSignatureOffset = 1
	smdCopierHeader    = 512
	smdBlockSize       = 16384
	smdHalfBlock       = smdBlockSize / 2
)

// Genesis header offsets
const (
	genesisTitleOverseasOffset = 0x150
	genesisTitleSize           = 0x30
	genesisMemoryMarkerOffset  = 0x1A8
	genesisBackupRAMOffset     = 0x1B0
)

// smdSignature marks a dump written by an SMD-style copier.
var smdSignature = []byte{0x03, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xAA, 0xBB, 0x06}

// genesisMemoryMarker precedes the backup RAM field in the cartridge header.
var genesisMemoryMarker = []byte{0x00, 0xFF, 0x00, 0x00, 0x00, 0xFF, 0xFF, 0xFF}

// Backup RAM field values
var (
	genesisBackupRAMPresent = []byte("RA")
	genesisBackupRAMUnset   = []byte("  ")
)

// ErrSMDTruncated is returned when an SMD dump ends before its first block.
var ErrSMDTruncated = errors.New("SMD dump shorter than its first block")

// GenesisDetector detects battery-backed RAM in Sega Genesis / Mega Drive ROMs,
// both raw (.gen/.bin style) and SMD-interleaved dumps.
type GenesisDetector struct{}

// NewGenesisDetector creates a new Genesis detector.
func NewGenesisDetector() *GenesisDetector {
	return &GenesisDetector{}
}

// Console returns the console type.
func (*GenesisDetector) Console() Console {
	return ConsoleGenesis
}

// IsSMD reports whether data carries the SMD copier signature.
func IsSMD(data []byte) bool {
	return binary.MatchAt(data, smdSignatureOffset, smdSignature)
}

// DeinterleaveSMD reconstructs the first 16 KiB of cartridge data from an SMD dump.
//
// Each SMD block stores the odd bytes of the cartridge data in its first half
// and the even bytes in its second half. Only the first block is rebuilt; it
// always contains the cartridge header.
func DeinterleaveSMD(data []byte) ([]byte, error) {
	block, ok := binary.Slice(data, smdCopierHeader, smdBlockSize)
	if !ok {
		return nil, ErrSMDTruncated
	}

	out := make([]byte, 0, smdBlockSize)
	for i := range smdHalfBlock {
		out = append(out, block[i+smdHalfBlock], block[i])
	}
	return out, nil
}

// Detect classifies a Genesis ROM by the backup RAM field of its header.
func (*GenesisDetector) Detect(data []byte) Classification {
	hardware := "Raw dump"
	if IsSMD(data) {
		decoded, err := DeinterleaveSMD(data)
		if err != nil {
			return unreadable(ConsoleGenesis, err.Error())
		}
		data = decoded
		hardware = "SMD dump"
	}

	if !binary.MatchAt(data, genesisMemoryMarkerOffset, genesisMemoryMarker) {
		return unreadable(ConsoleGenesis, "memory header marker not found")
	}

	title := binary.StringAt(data, genesisTitleOverseasOffset, genesisTitleSize)

	switch {
	case binary.MatchAt(data, genesisBackupRAMOffset, genesisBackupRAMPresent):
		return classify(true, title, hardware+", backup RAM")
	case binary.MatchAt(data, genesisBackupRAMOffset, genesisBackupRAMUnset):
		return classify(false, title, hardware)
	default:
		return unreadable(ConsoleGenesis, "unknown backup RAM field")
	}
}
