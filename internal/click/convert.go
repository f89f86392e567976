package click

// ConvertFunc maps a reference-viewport (1920x1080) position to the current
// viewport. Pluggable so operators can recalibrate without code changes.
type ConvertFunc func(x, y, innerWidth, innerHeight int) (int, int)

const (
	refWidth  = 1920
	refHeight = 1080
)

// correction is one breakpoint of the piecewise correction table: positions
// at or below Limit use Factor.
type correction struct {
	Limit  int
	Factor float64
}

// The browser chrome eats vertical space and the side menu compresses the
// horizontal axis unevenly, so a plain linear scale lands clicks a few
// pixels off near the screen edges. These factors were calibrated against
// the live SaaS at 1920x1080.
var xCorrections = []correction{
	{320, 0.980},
	{750, 0.990},
	{1200, 0.993},
	{1300, 0.998},
	{1425, 1.000},
	{1500, 1.0038},
	{1600, 1.0050},
	{1700, 1.0060},
	{1800, 1.0065},
	{refWidth, 1.0072},
}

var yCorrections = []correction{
	{115, 0.35},
	{130, 0.42},
	{185, 0.48},
	{240, 0.68},
	{300, 0.78},
	{390, 0.84},
	{490, 0.88},
	{600, 0.91},
	{700, 0.93},
	{800, 0.94},
	{900, 0.95},
	{refHeight, 0.96},
}

// factorFor finds the correction factor for pos within table.
func factorFor(pos int, table []correction) float64 {
	for _, c := range table {
		if pos <= c.Limit {
			return c.Factor
		}
	}
	return table[len(table)-1].Factor
}

// Convert applies the per-axis linear scale with the position-dependent
// correction factors.
func Convert(x, y, innerWidth, innerHeight int) (int, int) {
	relX := int(float64(innerWidth) * (float64(x) / refWidth) * factorFor(x, xCorrections))
	relY := int(float64(innerHeight) * (float64(y) / refHeight) * factorFor(y, yCorrections))
	return relX, relY
}

// IdentityConvert scales linearly with no correction. Useful on displays
// where the correction table has not been calibrated.
func IdentityConvert(x, y, innerWidth, innerHeight int) (int, int) {
	return innerWidth * x / refWidth, innerHeight * y / refHeight
}
