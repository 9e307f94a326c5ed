package spring

// PhysicsState is the position and velocity of a spring at one instant.
type PhysicsState struct {
	Position float64
	Velocity float64
}
