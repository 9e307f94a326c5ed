package spring

import "math"

// BouncyConversion maps the perceptual bounciness/speed pair onto origami
// tension and friction.
type BouncyConversion struct {
	Bounciness     float64
	Speed          float64
	BouncyTension  float64
	BouncyFriction float64
}

// NewBouncyConversion derives origami tension and friction from the sliders.
func NewBouncyConversion(bounciness, speed float64) BouncyConversion {
	b := projectNormal(normalize(bounciness/1.7, 0, 20.0), 0.0, 0.8)
	s := normalize(speed/1.7, 0, 20.0)
	tension := projectNormal(s, 0.5, 200)
	return BouncyConversion{
		Bounciness:     bounciness,
		Speed:          speed,
		BouncyTension:  tension,
		BouncyFriction: quadraticOutInterpolation(b, b3Nobounce(tension), 0.01),
	}
}

func normalize(value, startValue, endValue float64) float64 {
	return (value - startValue) / (endValue - startValue)
}

func projectNormal(n, start, end float64) float64 {
	return start + n*(end-start)
}

func linearInterpolation(t, start, end float64) float64 {
	return t*end + (1.0-t)*start
}

func quadraticOutInterpolation(t, start, end float64) float64 {
	return linearInterpolation(2*t-t*t, start, end)
}

func b3Friction1(x float64) float64 {
	return 0.0007*math.Pow(x, 3) - 0.031*math.Pow(x, 2) + 0.64*x + 1.28
}

func b3Friction2(x float64) float64 {
	return 0.000044*math.Pow(x, 3) - 0.006*math.Pow(x, 2) + 0.36*x + 2.0
}

func b3Friction3(x float64) float64 {
	return 0.00000045*math.Pow(x, 3) - 0.000332*math.Pow(x, 2) + 0.1078*x + 5.84
}

// b3Nobounce is the origami friction that just avoids oscillation at the
// given origami tension, fitted piecewise.
func b3Nobounce(tension float64) float64 {
	switch {
	case tension <= 18:
		return b3Friction1(tension)
	case tension <= 44:
		return b3Friction2(tension)
	default:
		return b3Friction3(tension)
	}
}
