// Package interp maps spring values onto other ranges: numbers, angles and
// colours.
package interp

import (
	"errors"
	"fmt"
	"math"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

var ErrBadColor = errors.New("interp: expected a color string of format #rrggbb or #rgb")

// MapValueInRange maps value from [fromLow, fromHigh] onto [toLow, toHigh]
// without clamping.
func MapValueInRange(value, fromLow, fromHigh, toLow, toHigh float64) float64 {
	fromRangeSize := fromHigh - fromLow
	toRangeSize := toHigh - toLow
	valueScale := (value - fromLow) / fromRangeSize
	return toLow + valueScale*toRangeSize
}

func DegreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func RadiansToDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// RGB is a colour with 0-255 channels.
type RGB struct {
	R, G, B int
}

// HexToRGB parses "#rrggbb", "#rgb" or the same without the hash.
func HexToRGB(s string) (RGB, error) {
	c, err := colorful.Hex("#" + strings.TrimPrefix(s, "#"))
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	r, g, b := c.RGB255()
	return RGB{int(r), int(g), int(b)}, nil
}

func RGBToHex(r, g, b int) string {
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// ColorOptions tunes InterpolateColor. The zero value maps [0, 1] to hex.
type ColorOptions struct {
	FromLow  float64
	FromHigh float64
	AsRGB    bool
}

// InterpolateColor blends two hex colours by val, where FromLow gives start
// and FromHigh gives end. Channels are floored.
func InterpolateColor(val float64, start, end string, opts ColorOptions) (string, error) {
	if opts.FromLow == 0 && opts.FromHigh == 0 {
		opts.FromHigh = 1
	}
	sc, err := HexToRGB(start)
	if err != nil {
		return "", err
	}
	ec, err := HexToRGB(end)
	if err != nil {
		return "", err
	}

	channel := func(a, b int) int {
		return int(math.Floor(MapValueInRange(val, opts.FromLow, opts.FromHigh, float64(a), float64(b))))
	}
	r, g, b := channel(sc.R, ec.R), channel(sc.G, ec.G), channel(sc.B, ec.B)

	if opts.AsRGB {
		return fmt.Sprintf("rgb(%d,%d,%d)", r, g, b), nil
	}
	return RGBToHex(r, g, b), nil
}
