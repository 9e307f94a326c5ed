package spring

// Config holds the tension and friction a spring is solved with. Configs
// are values and may be shared between springs.
type Config struct {
	Tension  float64
	Friction float64
}

// DefaultOrigamiConfig is the config used when a spring is created without
// explicit parameters.
var DefaultOrigamiConfig = ConfigFromOrigamiTensionAndFriction(40, 7)

// NewConfig takes tension and friction in solver units.
func NewConfig(tension, friction float64) Config {
	return Config{Tension: tension, Friction: friction}
}

// ConfigFromOrigamiTensionAndFriction converts Origami values to solver units.
func ConfigFromOrigamiTensionAndFriction(tension, friction float64) Config {
	return Config{
		Tension:  TensionFromOrigamiValue(tension),
		Friction: FrictionFromOrigamiValue(friction),
	}
}

// ConfigFromBouncinessAndSpeed maps the bounciness and speed sliders through
// BouncyConversion.
func ConfigFromBouncinessAndSpeed(bounciness, speed float64) Config {
	bc := NewBouncyConversion(bounciness, speed)
	return ConfigFromOrigamiTensionAndFriction(bc.BouncyTension, bc.BouncyFriction)
}

// CoastingConfigWithOrigamiFriction returns a config with no tension, so the
// spring coasts on its velocity and slows down with the given friction.
func CoastingConfigWithOrigamiFriction(friction float64) Config {
	return Config{Tension: 0, Friction: FrictionFromOrigamiValue(friction)}
}
