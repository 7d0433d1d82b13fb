package visio

const (
	// FarDistance is the distance in millimetres at and beyond which motors
	// stay off
	FarDistance uint16 = 1300
	// MaxStrength is the largest off-tick sent to a motor.  Anything mapping
	// above it switches the motor off instead.
	MaxStrength uint16 = 860
)

// VibrationStrength maps a distance in millimetres to a PWM off-tick.  The
// strength rises linearly as obstacles get closer than FarDistance, at two
// thirds of a tick per millimetre, with integer truncation.
//
// Strengths above MaxStrength become 0, so distances of 8 mm and below switch
// the motor off just like distances of FarDistance and above.
func VibrationStrength(distance uint16) uint16 {

	if distance >= FarDistance {
		return 0
	}

	strength := (FarDistance - distance) * 2 / 3

	if strength > MaxStrength {
		return 0
	}

	return strength
}

// MapStrengths applies VibrationStrength to every distance
func MapStrengths(distances Distances) Strengths {

	var s Strengths

	for i, d := range distances {
		s[i] = VibrationStrength(d)
	}

	return s
}
