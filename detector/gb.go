package detector

import (
	"fmt"

	"github.com/ZaparooProject/go-rombat/internal/binary"
)

// GB/GBC header offsets
const (
	gbTitleOffset         = 0x0134
	gbTitleSize           = 16
	gbCartridgeTypeOffset = 0x0147
)

// gbBatteryTypes are the cartridge types whose MBC carries battery-backed RAM.
var gbBatteryTypes = map[byte]bool{
	0x03: true, // MBC1 + RAM + Battery
	0x06: true, // MBC2 + Battery
	0x09: true, // ROM + RAM + Battery
	0x0D: true, // MMM01 + RAM + Battery
	0x0F: true, // MBC3 + Timer + Battery
	0x10: true, // MBC3 + Timer + RAM + Battery
	0x13: true, // MBC3 + RAM + Battery
	0x1B: true, // MBC5 + RAM + Battery
	0x1E: true, // MBC5 + Rumble + RAM + Battery
}

// GB cartridge types lookup table
var gbCartridgeTypes = map[byte]string{
	0x00: "ROM",
	0x01: "MBC1",
	0x02: "MBC1 + RAM",
	0x03: "MBC1 + RAM + Battery",
	0x05: "MBC2",
	0x06: "MBC2 + Battery",
	0x08: "ROM + RAM",
	0x09: "ROM + RAM + Battery",
	0x0B: "MMM01",
	0x0C: "MMM01 + RAM",
	0x0D: "MMM01 + RAM + Battery",
	0x0F: "MBC3 + Timer + Battery",
	0x10: "MBC3 + Timer + RAM + Battery",
	0x11: "MBC3",
	0x12: "MBC3 + RAM",
	0x13: "MBC3 + RAM + Battery",
	0x19: "MBC5",
	0x1A: "MBC5 + RAM",
	0x1B: "MBC5 + RAM + Battery",
	0x1C: "MBC5 + Rumble",
	0x1D: "MBC5 + Rumble + RAM",
	0x1E: "MBC5 + Rumble + RAM + Battery",
	0x20: "MBC6",
	0x22: "MBC7 + Sensor + Rumble + RAM + Battery",
	0xFC: "Pocket Camera",
	0xFD: "Bandai TAMA5",
	0xFE: "HuC3",
	0xFF: "HuC1 + RAM + Battery",
}

// GBDetector detects battery-backed RAM in Game Boy and Game Boy Color ROMs.
type GBDetector struct{}

// NewGBDetector creates a new GB/GBC detector.
func NewGBDetector() *GBDetector {
	return &GBDetector{}
}

// Console returns the console type.
func (*GBDetector) Console() Console {
	return ConsoleGB
}

// Detect classifies a GB/GBC ROM by its cartridge-type byte.
// The Nintendo logo and header checksum are not validated.
func (*GBDetector) Detect(data []byte) Classification {
	cartType, ok := binary.Uint8At(data, gbCartridgeTypeOffset)
	if !ok {
		return unreadable(ConsoleGB, "file too small")
	}

	hardware, known := gbCartridgeTypes[cartType]
	if !known {
		hardware = fmt.Sprintf("Unknown (0x%02x)", cartType)
	}

	// The title field overlaps the CGB flag at 0x143 on newer carts,
	// which ExtractPrintable drops when it is 0x80 or 0xC0.
	title := binary.PrintableAt(data, gbTitleOffset, gbTitleSize)

	return classify(gbBatteryTypes[cartType], title, hardware)
}
