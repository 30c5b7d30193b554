package core

// Color is the foreground color of a screen cell.
// The platform maps each value to an ANSI 256-color code.
type Color uint8

// Palette used by the tide renderer. ColorDefault leaves the terminal's own
// foreground untouched.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorCyan
	ColorWhite
	ColorGray
	ColorSand     // meter frame and labels
	ColorFoam     // top band of the meter
	ColorShallow  // light water
	ColorDeep     // dark water
	ColorDanger   // indicator outside the balanced band
	ColorHighlite // pressed button
)
