package terminal

import "github.com/fatih/color"

// Palette colours gains and losses. A disabled palette returns text unchanged.
type Palette struct {
	gain *color.Color
	loss *color.Color
}

// NewPalette creates a palette. Colour state is set per palette rather than
// through the library global, so output is independent of the environment.
func NewPalette(enabled bool) Palette {
	gain := color.New(color.FgGreen)
	loss := color.New(color.FgRed)

	if enabled {
		gain.EnableColor()
		loss.EnableColor()
	} else {
		gain.DisableColor()
		loss.DisableColor()
	}

	return Palette{gain: gain, loss: loss}
}

// Gain renders s as a gain.
func (p Palette) Gain(s string) string {
	if s == "" {
		return s
	}

	return p.gain.Sprint(s)
}

// Loss renders s as a loss.
func (p Palette) Loss(s string) string {
	if s == "" {
		return s
	}

	return p.loss.Sprint(s)
}
