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
	"fmt"

	"github.com/ZaparooProject/go-rombat/internal/binary"
)

// SNES header offsets (relative to header start)
const (
	snesLoROMHeaderStart = 0x7FC0
	snesHiROMHeaderStart = 0xFFC0
	snesCopierHeaderSize = 0x200

	// Headerless dumps are always a multiple of this size.
	snesSizeUnit = 1024

	snesInternalNameOffset       = 0x00
	snesInternalNameSize         = 21
	snesROMTypeOffset            = 0x16 // 22
	snesRAMSizeOffset            = 0x18 // 24
	snesChecksumComplementOffset = 0x1C // 28
	snesChecksumOffset           = 0x1E // 30
)

// snesBatteryROMTypes always include battery RAM, whatever the RAM size field says.
var snesBatteryROMTypes = map[byte]bool{
	0x02: true, // ROM + RAM + Battery
	0x15: true, // ROM + Super FX + RAM + Battery
	0x1A: true, // ROM + Super FX + RAM + Battery (alternate encoding)
}

// SNESDetector detects battery-backed RAM in Super Nintendo ROMs.
type SNESDetector struct{}

// NewSNESDetector creates a new SNES detector.
func NewSNESDetector() *SNESDetector {
	return &SNESDetector{}
}

// Console returns the console type.
func (*SNESDetector) Console() Console {
	return ConsoleSNES
}

// snesHeadered reports whether an image of the given size carries a copier header.
func snesHeadered(size int) bool {
	return size%snesSizeUnit != 0
}

// snesHeaderCandidates returns the LoROM and HiROM header offsets to try, in order.
func snesHeaderCandidates(headered bool) []int {
	if headered {
		return []int{
			snesLoROMHeaderStart + snesCopierHeaderSize,
			snesHiROMHeaderStart + snesCopierHeaderSize,
		}
	}
	return []int{snesLoROMHeaderStart, snesHiROMHeaderStart}
}

// snesChecksumValid reports whether the checksum and its complement at start
// together cover all bits. Out-of-bounds reads count as a failed check.
func snesChecksumValid(data []byte, start int) bool {
	checksum, ok := binary.Uint16LEAt(data, start+snesChecksumOffset)
	if !ok {
		return false
	}
	complement, ok := binary.Uint16LEAt(data, start+snesChecksumComplementOffset)
	if !ok {
		return false
	}
	return checksum|complement == 0xFFFF
}

// snesFindHeader locates the internal header, returning its offset or -1.
func snesFindHeader(data []byte) int {
	for _, start := range snesHeaderCandidates(snesHeadered(len(data))) {
		if snesChecksumValid(data, start) {
			return start
		}
	}
	return -1
}

// Detect classifies a SNES ROM by its ROM type and RAM size header fields.
func (*SNESDetector) Detect(data []byte) Classification {
	start := snesFindHeader(data)
	if start < 0 {
		return unreadable(ConsoleSNES, "no valid header found")
	}

	// Both fields sit before the checksum, which was read successfully.
	romType := data[start+snesROMTypeOffset]
	ramSize := data[start+snesRAMSizeOffset]

	title := binary.PrintableAt(data, start+snesInternalNameOffset, snesInternalNameSize)
	hardware := snesGetHardware(romType, data, start)
	if ramSize != 0 {
		hardware += fmt.Sprintf(", SRAM %s", snesFormatRAMSize(ramSize))
	}

	return classify(ramSize != 0 || snesBatteryROMTypes[romType], title, hardware)
}

// snesFormatRAMSize decodes the RAM size field (log2 of size in KiB).
func snesFormatRAMSize(ramSize byte) string {
	if ramSize > 10 {
		return fmt.Sprintf("code 0x%02x", ramSize)
	}
	return fmt.Sprintf("%d KiB", 1<<ramSize)
}

// snesGetHardware determines the hardware configuration string.
// The low nibble of the ROM type selects the configuration; the high nibble
// selects the coprocessor when one is present.
func snesGetHardware(romType byte, data []byte, headerStart int) string {
	var hardware string
	config := romType & 0x0F
	if config == 0x0A {
		// Alternate encoding of ROM + Coprocessor + RAM + Battery.
		config = 5
	}
	switch {
	case config == 0:
		hardware = "ROM"
	case config == 1:
		hardware = "ROM + RAM"
	case config == 2:
		hardware = "ROM + RAM + Battery"
	case config >= 3 && config <= 6:
		hardware = []string{
			"ROM + Coprocessor",
			"ROM + Coprocessor + RAM",
			"ROM + Coprocessor + RAM + Battery",
			"ROM + Coprocessor + Battery",
		}[config-3]
	default:
		return fmt.Sprintf("Unknown (0x%02x)", romType)
	}

	if config >= 3 {
		if coprocessor := snesGetCoprocessor(romType, data, headerStart); coprocessor != "" {
			hardware += " (" + coprocessor + ")"
		}
	}
	return hardware
}

// snesGetCoprocessor determines the coprocessor type from the ROM type.
func snesGetCoprocessor(romType byte, data []byte, headerStart int) string {
	switch romType >> 4 {
	case 0:
		return "DSP"
	case 1:
		return "Super FX"
	case 2:
		return "OBC1"
	case 3:
		return "SA-1"
	case 4:
		return "S-DD1"
	case 5:
		return "S-RTC"
	case 0xE:
		return "Super Game Boy / Satellaview"
	case 0xF:
		return snesGetExtendedCoprocessor(data, headerStart)
	default:
		return ""
	}
}

// snesGetExtendedCoprocessor determines extended coprocessor type (0xF chip byte).
// The subtype lives in the byte just before the header.
func snesGetExtendedCoprocessor(data []byte, headerStart int) string {
	prevByte, ok := binary.Uint8At(data, headerStart-1)
	if !ok {
		return ""
	}
	switch prevByte & 0x0F {
	case 0:
		return "SPC7110"
	case 1:
		return "ST010 / ST011"
	case 2:
		return "ST018"
	case 3:
		return "CX4"
	default:
		return ""
	}
}
