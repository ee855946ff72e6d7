package imaging

import (
	"github.com/lucasb-eyer/go-colorful"
)

type stop struct {
	at    float64
	color colorful.Color
}

// jetStops are the control points of the classic "jet" scale.
var jetStops = []stop{
	{0, colorful.Color{R: 0, G: 0, B: 0.5}},
	{0.125, colorful.Color{R: 0, G: 0, B: 1}},
	{0.375, colorful.Color{R: 0, G: 1, B: 1}},
	{0.625, colorful.Color{R: 1, G: 1, B: 0}},
	{0.875, colorful.Color{R: 1, G: 0, B: 0}},
	{1, colorful.Color{R: 0.5, G: 0, B: 0}},
}

// heatStops approximate a dark-to-light sequential palette.
var heatStops = []stop{
	{0, mustHex("#03051a")},
	{0.2, mustHex("#4c1d4b")},
	{0.4, mustHex("#a11a5b")},
	{0.6, mustHex("#e83f3f")},
	{0.8, mustHex("#f69c73")},
	{1, mustHex("#faebdd")},
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

var (
	jetLUT  = buildLUT(jetStops, colorful.Color.BlendRgb)
	heatLUT = buildLUT(heatStops, colorful.Color.BlendLab)
)

func buildLUT(stops []stop, blend func(colorful.Color, colorful.Color, float64) colorful.Color) [256]colorful.Color {
	var lut [256]colorful.Color
	for i := range lut {
		t := float64(i) / 255
		j := 1
		for j < len(stops)-1 && t > stops[j].at {
			j++
		}
		lo, hi := stops[j-1], stops[j]
		lut[i] = blend(lo.color, hi.color, (t-lo.at)/(hi.at-lo.at)).Clamped()
	}
	return lut
}

// Jet maps an 8-bit intensity to the jet color scale.
func Jet(v uint8) colorful.Color {
	return jetLUT[v]
}

// Heat maps an 8-bit intensity to the sequential heat-map palette.
func Heat(v uint8) colorful.Color {
	return heatLUT[v]
}

// quantize maps v in [0, 1] to 0..255, truncating like a uint8 cast.
func quantize(v float64) uint8 {
	switch {
	case v <= 0 || v != v:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(255 * v)
	}
}
