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
	"bytes"
	"fmt"

	"github.com/retroenv/retrogolib/nes/cartridge"

	"github.com/ZaparooProject/go-rombat/internal/binary"
)

// iNES header offsets
const (
	nesHeaderSize    = 16
	nesFlags6Offset  = 6
	nesFlags7Offset  = 7
	nesFlags6Battery = 0x02
)

// nesMagic is the iNES signature. The trailing 0x1A byte is not required.
var nesMagic = []byte("NES")

// nesFullMagic is the complete iNES signature expected by cartridge loaders.
var nesFullMagic = []byte("NES\x1a")

// NESDetector detects battery-backed RAM in iNES ROM images.
type NESDetector struct{}

// NewNESDetector creates a new NES detector.
func NewNESDetector() *NESDetector {
	return &NESDetector{}
}

// Console returns the console type.
func (*NESDetector) Console() Console {
	return ConsoleNES
}

// Detect classifies an iNES ROM by the battery bit of flags 6.
func (*NESDetector) Detect(data []byte) Classification {
	if !binary.MatchAt(data, 0, nesMagic) {
		return unreadable(ConsoleNES, "iNES signature not found")
	}

	flags6, ok := binary.Uint8At(data, nesFlags6Offset)
	if !ok {
		return unreadable(ConsoleNES, "header truncated")
	}

	return classify(flags6&nesFlags6Battery != 0, "", nesDescribe(data, flags6))
}

// nesDescribe builds the hardware description: the mapper number, plus the
// PRG/CHR sizes when the image loads as a complete iNES cartridge.
func nesDescribe(data []byte, flags6 byte) string {
	mapper := flags6 >> 4
	if flags7, ok := binary.Uint8At(data, nesFlags7Offset); ok {
		mapper |= flags7 & 0xF0
	}
	hardware := fmt.Sprintf("Mapper %d", mapper)

	if len(data) < nesHeaderSize || !binary.MatchAt(data, 0, nesFullMagic) {
		return hardware
	}
	cart, err := cartridge.LoadFile(bytes.NewReader(data))
	if err != nil {
		return hardware
	}
	return fmt.Sprintf("%s, PRG %d KiB, CHR %d KiB", hardware, len(cart.PRG)/1024, len(cart.CHR)/1024)
}
