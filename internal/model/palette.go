package model

// Color is an RGB display colour
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

var palette = []Color{
	{R: 255, G: 0, B: 0},
	{R: 0, G: 255, B: 0},
	{R: 0, G: 0, B: 255},
	{R: 255, G: 255, B: 0},
	{R: 0, G: 255, B: 255},
	{R: 255, G: 0, B: 255},
	{R: 255, G: 165, B: 0},
	{R: 57, G: 137, B: 47},
	{R: 46, G: 46, B: 132},
	{R: 120, G: 37, B: 111},
}

// PaletteSize returns the number of colours pieces are drawn from
func PaletteSize() int {
	return len(palette)
}

// PaletteColor returns the colour at a 0-based palette index
func PaletteColor(index int) (Color, bool) {
	if index < 0 || index >= len(palette) {
		return Color{}, false
	}
	return palette[index], true
}

// ColorForCell maps a stored board value back to its colour.
// Returns false for empty cells and unknown values.
func ColorForCell(value int) (Color, bool) {
	return PaletteColor(value - 1)
}
