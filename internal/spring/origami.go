package spring

// Origami values are the tension and friction units of the Origami design
// tool. The affine maps below convert them to and from physical units.

func TensionFromOrigamiValue(oValue float64) float64 {
	return (oValue-30.0)*3.62 + 194.0
}

func OrigamiValueFromTension(tension float64) float64 {
	return (tension-194.0)/3.62 + 30.0
}

func FrictionFromOrigamiValue(oValue float64) float64 {
	return (oValue-8.0)*3.0 + 25.0
}

func OrigamiFromFriction(friction float64) float64 {
	return (friction-25.0)/3.0 + 8.0
}
