package gripper

import "math"

// Validate checks a command against the device limits.
// Out-of-range values are rejected, never clamped.
func Validate(cmd Command) error {
	if cmd.Force < MinForce || cmd.Force > MaxForce {
		return &ParameterError{
			Field: "force",
			Value: float64(cmd.Force),
			Min:   MinForce,
			Max:   MaxForce,
		}
	}
	// NaN fails both comparisons, so test for the accepted range instead.
	if !(cmd.Width >= MinWidth && cmd.Width <= MaxWidth) {
		return &ParameterError{
			Field: "width",
			Value: cmd.Width,
			Min:   MinWidth,
			Max:   MaxWidth,
		}
	}
	return nil
}

// Encode converts a validated command into register values.
// No IO. No validation.
func Encode(cmd Command) Encoding {
	return Encoding{
		Force: toRegister(float64(cmd.Force)),
		Width: toRegister(cmd.Width),
	}
}

// Decode converts a raw width register into millimeters.
func Decode(raw uint16) WidthReading {
	return WidthReading{
		Raw:         raw,
		Millimeters: float64(raw) / Scale,
	}
}

func toRegister(v float64) uint16 {
	return uint16(math.Round(v * Scale))
}
