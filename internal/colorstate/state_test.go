package colorstate

import (
	"testing"
)

// Reference outputs captured from the HLS transform with integer truncation.
var rgbGolden = []struct {
	r, g, b int
	h, s, l int
}{
	{r: 0, g: 0, b: 0, h: 0, s: 0, l: 0},
	{r: 255, g: 255, b: 255, h: 0, s: 0, l: 100},
	{r: 128, g: 128, b: 128, h: 0, s: 0, l: 50},
	{r: 255, g: 0, b: 0, h: 0, s: 100, l: 50},
	{r: 0, g: 255, b: 0, h: 120, s: 100, l: 50},
	{r: 0, g: 0, b: 255, h: 240, s: 100, l: 50},
	{r: 255, g: 255, b: 0, h: 60, s: 100, l: 50},
	{r: 0, g: 255, b: 255, h: 180, s: 100, l: 50},
	{r: 255, g: 0, b: 255, h: 300, s: 100, l: 50},
	{r: 255, g: 128, b: 0, h: 30, s: 100, l: 50},
	{r: 12, g: 200, b: 99, h: 147, s: 88, l: 41},
	{r: 5, g: 244, b: 240, h: 178, s: 95, l: 48},
	{r: 0, g: 56, b: 51, h: 174, s: 100, l: 10},
	{r: 1, g: 2, b: 3, h: 210, s: 50, l: 0},
	{r: 254, g: 1, b: 128, h: 329, s: 99, l: 50},
	{r: 165, g: 77, b: 202, h: 282, s: 54, l: 54},
	{r: 24, g: 37, b: 48, h: 207, s: 33, l: 14},
	{r: 187, g: 29, b: 109, h: 329, s: 73, l: 42},
	{r: 19, g: 44, b: 222, h: 232, s: 84, l: 47},
	{r: 214, g: 35, b: 123, h: 330, s: 71, l: 48},
	{r: 46, g: 217, b: 30, h: 114, s: 75, l: 48},
	{r: 63, g: 114, b: 31, h: 96, s: 57, l: 28},
	{r: 203, g: 25, b: 113, h: 330, s: 78, l: 44},
	{r: 23, g: 68, b: 148, h: 218, s: 73, l: 33},
	{r: 214, g: 73, b: 60, h: 5, s: 65, l: 53},
	{r: 157, g: 92, b: 52, h: 22, s: 50, l: 40},
	{r: 96, g: 190, b: 49, h: 99, s: 58, l: 46},
	{r: 32, g: 30, b: 105, h: 241, s: 55, l: 26},
	{r: 254, g: 218, b: 160, h: 37, s: 97, l: 81},
	{r: 238, g: 232, b: 185, h: 53, s: 60, l: 82},
}

var hslGolden = []struct {
	h, s, l int
	r, g, b int
}{
	{h: 0, s: 0, l: 50, r: 127, g: 127, b: 127},
	{h: 240, s: 100, l: 50, r: 0, g: 0, b: 255},
	{h: 0, s: 100, l: 50, r: 255, g: 0, b: 0},
	{h: 120, s: 100, l: 50, r: 0, g: 255, b: 0},
	{h: 360, s: 100, l: 50, r: 255, g: 0, b: 0},
	{h: 60, s: 100, l: 50, r: 254, g: 255, b: 0},
	{h: 200, s: 50, l: 25, r: 31, g: 74, b: 95},
	{h: 0, s: 0, l: 100, r: 255, g: 255, b: 255},
	{h: 30, s: 100, l: 50, r: 255, g: 127, b: 0},
	{h: 359, s: 100, l: 50, r: 255, g: 0, b: 4},
	{h: 180, s: 1, l: 99, r: 252, g: 252, b: 252},
	{h: 90, s: 33, l: 66, r: 168, g: 196, b: 139},
	{h: 153, s: 31, l: 23, r: 40, g: 76, b: 60},
	{h: 357, s: 99, l: 31, r: 157, g: 0, b: 8},
	{h: 41, s: 73, l: 38, r: 167, g: 122, b: 26},
	{h: 268, s: 63, l: 43, r: 105, g: 40, b: 178},
	{h: 229, s: 36, l: 77, r: 175, g: 182, b: 217},
	{h: 37, s: 15, l: 65, r: 179, g: 168, b: 152},
	{h: 214, s: 21, l: 96, r: 242, g: 244, b: 246},
	{h: 175, s: 19, l: 62, r: 139, g: 176, b: 173},
	{h: 215, s: 5, l: 85, r: 214, g: 216, b: 218},
	{h: 39, s: 97, l: 71, r: 252, g: 202, b: 109},
	{h: 293, s: 40, l: 43, r: 143, g: 65, b: 153},
	{h: 355, s: 44, l: 76, r: 220, g: 166, b: 171},
	{h: 254, s: 74, l: 58, r: 105, g: 68, b: 227},
	{h: 35, s: 11, l: 34, r: 96, g: 88, b: 77},
	{h: 242, s: 89, l: 85, r: 184, g: 182, b: 250},
}

func TestDefault(t *testing.T) {
	d := Default()
	if d != (ColorState{R: 128, G: 128, B: 128, H: 0, S: 0, L: 50}) {
		t.Errorf("unexpected default state: %+v", d)
	}
}

func TestSyncFromRGB_Golden(t *testing.T) {
	for _, tc := range rgbGolden {
		in := ColorState{R: tc.r, G: tc.g, B: tc.b, H: -1, S: -1, L: -1}
		got := SyncFromRGB(in)
		if got.H != tc.h || got.S != tc.s || got.L != tc.l {
			t.Errorf("SyncFromRGB(%d,%d,%d) = H%d S%d L%d, want H%d S%d L%d",
				tc.r, tc.g, tc.b, got.H, got.S, got.L, tc.h, tc.s, tc.l)
		}
		if got.R != tc.r || got.G != tc.g || got.B != tc.b {
			t.Errorf("SyncFromRGB mutated RGB: %+v", got)
		}
	}
}

func TestSyncFromHSL_Golden(t *testing.T) {
	for _, tc := range hslGolden {
		in := ColorState{R: -1, G: -1, B: -1, H: tc.h, S: tc.s, L: tc.l}
		got := SyncFromHSL(in)
		if got.R != tc.r || got.G != tc.g || got.B != tc.b {
			t.Errorf("SyncFromHSL(%d,%d,%d) = R%d G%d B%d, want R%d G%d B%d",
				tc.h, tc.s, tc.l, got.R, got.G, got.B, tc.r, tc.g, tc.b)
		}
		if got.H != tc.h || got.S != tc.s || got.L != tc.l {
			t.Errorf("SyncFromHSL mutated HSL: %+v", got)
		}
	}
}

func TestSyncFromRGB_Scenarios(t *testing.T) {
	red := SyncFromRGB(ColorState{R: 255})
	if red.H != 0 || red.S != 100 || red.L != 50 {
		t.Errorf("red: expected 0/100/50, got %d/%d/%d", red.H, red.S, red.L)
	}

	green := SyncFromRGB(ColorState{G: 255})
	if green.H != 120 || green.S != 100 || green.L != 50 {
		t.Errorf("green: expected 120/100/50, got %d/%d/%d", green.H, green.S, green.L)
	}

	blue := SyncFromHSL(ColorState{H: 240, S: 100, L: 50})
	if blue.R != 0 || blue.G != 0 || blue.B != 255 {
		t.Errorf("blue: expected 0/0/255, got %d/%d/%d", blue.R, blue.G, blue.B)
	}
}

func TestSyncFromRGB_Achromatic(t *testing.T) {
	for v := 0; v <= RGBMax; v++ {
		got := SyncFromRGB(ColorState{R: v, G: v, B: v})
		if got.S != 0 {
			t.Errorf("gray %d: expected S=0, got %d", v, got.S)
		}
		if got.H != 0 {
			t.Errorf("gray %d: expected H=0, got %d", v, got.H)
		}
	}
}

func TestRoundTrip_RGB(t *testing.T) {
	step := 1
	if testing.Short() {
		step = 7
	}
	// Truncating H, S and L to whole units loses up to 10 levels per channel.
	const tolerance = 10
	for r := 0; r <= RGBMax; r += step {
		for g := 0; g <= RGBMax; g += step {
			for b := 0; b <= RGBMax; b += step {
				in := ColorState{R: r, G: g, B: b}
				out := SyncFromHSL(SyncFromRGB(in))
				if absDiff(out.R, r) > tolerance || absDiff(out.G, g) > tolerance || absDiff(out.B, b) > tolerance {
					t.Fatalf("round trip drifted: %v -> %v", in, out)
				}
			}
		}
	}
}

func TestRoundTrip_RGBPrimaries(t *testing.T) {
	inputs := []ColorState{
		{R: 255}, {G: 255}, {B: 255},
		{R: 255, G: 255}, {G: 255, B: 255}, {R: 255, B: 255},
		{R: 128, G: 128, B: 128}, {}, {R: 255, G: 255, B: 255},
	}
	for _, in := range inputs {
		out := SyncFromHSL(SyncFromRGB(in))
		if absDiff(out.R, in.R) > 1 || absDiff(out.G, in.G) > 1 || absDiff(out.B, in.B) > 1 {
			t.Errorf("round trip %v -> %v exceeds ±1", in, out)
		}
	}
}

func TestRoundTrip_HSL(t *testing.T) {
	for h := 0; h < HueMax; h++ {
		for s := 20; s <= SaturationMax; s++ {
			for l := 20; l <= 80; l++ {
				in := ColorState{H: h, S: s, L: l}
				out := SyncFromRGB(SyncFromHSL(in))
				dh := absDiff(out.H, h)
				if dh > HueMax/2 {
					dh = HueMax - dh
				}
				if dh > 3 || absDiff(out.S, s) > 2 || absDiff(out.L, l) > 1 {
					t.Fatalf("round trip drifted: %v -> %v", in, out)
				}
			}
		}
	}
}

func TestApply_SingleDirection(t *testing.T) {
	start := ColorState{R: 255, G: 0, B: 0, H: 240, S: 100, L: 50}

	fromRGB := Apply(start, AxisRGB)
	if fromRGB.R != 255 || fromRGB.G != 0 || fromRGB.B != 0 {
		t.Errorf("RGB edit changed RGB: %+v", fromRGB)
	}
	if fromRGB.H != 0 {
		t.Errorf("RGB edit should recompute hue, got %d", fromRGB.H)
	}

	fromHSL := Apply(start, AxisHSL)
	if fromHSL.H != 240 || fromHSL.S != 100 || fromHSL.L != 50 {
		t.Errorf("HSL edit changed HSL: %+v", fromHSL)
	}
	if fromHSL.B != 255 || fromHSL.R != 0 {
		t.Errorf("HSL edit should recompute RGB, got %+v", fromHSL)
	}
}

func TestHex(t *testing.T) {
	tests := []struct {
		state ColorState
		want  string
	}{
		{ColorState{R: 255, G: 255, B: 255}, "#ffffff"},
		{ColorState{R: 0, G: 0, B: 0}, "#000000"},
		{ColorState{R: 1, G: 10, B: 171}, "#010aab"},
		{Default(), "#808080"},
	}
	for _, tt := range tests {
		if got := tt.state.Hex(); got != tt.want {
			t.Errorf("Hex(%+v) = %s, want %s", tt.state, got, tt.want)
		}
	}
}

func TestSummaries(t *testing.T) {
	d := Default()
	if got := d.HSLSummary(); got != "Current HSL: 0°, 0%, 50%" {
		t.Errorf("unexpected HSL summary %q", got)
	}
	if got := d.RGBSummary(); got != "Current RGB: 128, 128, 128" {
		t.Errorf("unexpected RGB summary %q", got)
	}
}

func TestFloorMod1(t *testing.T) {
	tests := map[float64]float64{
		0:     0,
		0.25:  0.25,
		1:     0,
		1.5:   0.5,
		-0.25: 0.75,
		-1:    0,
	}
	for in, want := range tests {
		if got := floorMod1(in); got != want {
			t.Errorf("floorMod1(%v) = %v, want %v", in, got, want)
		}
	}
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
