package scene

import (
	"image/color"
	"unicode/utf16"
)

// Color is a 0xRRGGBB value.
type Color uint32

// RGBA converts c to an opaque color.RGBA.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: 0xff}
}

// shade multiplies each channel by f, clamped to [0, 1] per channel.
func (c Color) shade(f [3]float64) color.RGBA {
	rgba := c.RGBA()
	ch := func(v uint8, k float64) uint8 {
		x := float64(v) * k
		if x > 255 {
			x = 255
		}
		if x < 0 {
			x = 0
		}
		return uint8(x + 0.5)
	}
	return color.RGBA{R: ch(rgba.R, f[0]), G: ch(rgba.G, f[1]), B: ch(rgba.B, f[2]), A: 0xff}
}

func (c Color) unit() [3]float64 {
	rgba := c.RGBA()
	return [3]float64{float64(rgba.R) / 255, float64(rgba.G) / 255, float64(rgba.B) / 255}
}

// FamilyPalette holds the colors families are hashed onto.
var FamilyPalette = [...]Color{
	0x60a5fa, 0xf472b6, 0xf59e0b, 0x34d399, 0xa78bfa, 0xf87171, 0x22d3ee,
}

// NeutralColor is used for items without a family.
const NeutralColor Color = 0x9ca3af

// ColorForFamily maps a family name to a palette color by summing its UTF-16
// code units. Equal families always get equal colors.
func ColorForFamily(family string) Color {
	if family == "" {
		return NeutralColor
	}
	sum := 0
	for _, u := range utf16.Encode([]rune(family)) {
		sum += int(u)
	}
	return FamilyPalette[sum%len(FamilyPalette)]
}
