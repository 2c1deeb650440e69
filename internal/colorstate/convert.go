package colorstate

import "math"

const (
	oneThird  = 1.0 / 3.0
	oneSixth  = 1.0 / 6.0
	twoThirds = 2.0 / 3.0
)

// RGBToHLS converts normalized r, g, b in [0,1] to hue, lightness and
// saturation, each in [0,1]. Achromatic input yields hue 0.
//
// Every product that feeds an addition is wrapped in float64() so the
// compiler cannot fuse it into an FMA; the truncated integer outputs depend
// on the exact rounding of each step.
func RGBToHLS(r, g, b float64) (h, l, s float64) {
	maxc := math.Max(r, math.Max(g, b))
	minc := math.Min(r, math.Min(g, b))
	sumc := maxc + minc
	rangec := maxc - minc
	l = sumc / 2.0
	if minc == maxc {
		return 0.0, l, 0.0
	}
	if l <= 0.5 {
		s = rangec / sumc
	} else {
		s = rangec / (2.0 - maxc - minc)
	}
	rc := (maxc - r) / rangec
	gc := (maxc - g) / rangec
	bc := (maxc - b) / rangec
	switch {
	case r == maxc:
		h = bc - gc
	case g == maxc:
		h = 2.0 + rc - bc
	default:
		h = 4.0 + gc - rc
	}
	h = floorMod1(h / 6.0)
	return h, l, s
}

// HLSToRGB is the inverse of RGBToHLS.
func HLSToRGB(h, l, s float64) (r, g, b float64) {
	if s == 0.0 {
		return l, l, l
	}
	var m2 float64
	if l <= 0.5 {
		m2 = float64(l * (1.0 + s))
	} else {
		m2 = l + s - float64(l*s)
	}
	m1 := float64(2.0*l) - m2
	return channel(m1, m2, h+oneThird), channel(m1, m2, h), channel(m1, m2, h-oneThird)
}

func channel(m1, m2, hue float64) float64 {
	hue = floorMod1(hue)
	switch {
	case hue < oneSixth:
		return m1 + float64(float64((m2-m1)*hue)*6.0)
	case hue < 0.5:
		return m2
	case hue < twoThirds:
		return m1 + float64(float64((m2-m1)*(twoThirds-hue))*6.0)
	}
	return m1
}

// floorMod1 returns x modulo 1 with the sign of the divisor, so negative
// inputs wrap into [0,1].
func floorMod1(x float64) float64 {
	m := math.Mod(x, 1.0)
	if m == 0 {
		return 0
	}
	if m < 0 {
		m += 1.0
	}
	return m
}
