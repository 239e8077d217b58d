package config

import (
	"fmt"
	"math"
)

// Device limits mirrored from the gripper register map.
const (
	maxForce = 40
	maxWidth = 100.0
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil")
	}

	g := cfg.Gripper

	// ------------------------------------------------------------
	// TRANSPORT
	// ------------------------------------------------------------

	switch g.Transport {
	case "tcp":
		if g.Host == "" {
			return fmt.Errorf("gripper: host is required for tcp transport")
		}
		if g.Port < 1 || g.Port > 65535 {
			return fmt.Errorf("gripper: port %d out of range 1-65535", g.Port)
		}

	case "rtu":
		s := g.Serial
		if s.Device == "" {
			return fmt.Errorf("gripper: serial.device is required for rtu transport")
		}
		if s.BaudRate <= 0 {
			return fmt.Errorf("gripper: serial.baud_rate must be > 0")
		}
		if s.DataBits < 5 || s.DataBits > 8 {
			return fmt.Errorf("gripper: serial.data_bits %d out of range 5-8", s.DataBits)
		}
		switch s.Parity {
		case "N", "E", "O":
		default:
			return fmt.Errorf("gripper: serial.parity %q must be N, E or O", s.Parity)
		}
		if s.StopBits != 1 && s.StopBits != 2 {
			return fmt.Errorf("gripper: serial.stop_bits %d must be 1 or 2", s.StopBits)
		}

	default:
		return fmt.Errorf("gripper: unsupported transport %q", g.Transport)
	}

	// Modbus serial addressing allows 1-247 (0 is broadcast).
	if g.UnitID < 1 || g.UnitID > 247 {
		return fmt.Errorf("gripper: unit_id %d out of range 1-247", g.UnitID)
	}
	if g.TimeoutMs <= 0 {
		return fmt.Errorf("gripper: timeout_ms must be > 0")
	}

	// ------------------------------------------------------------
	// LOG
	// ------------------------------------------------------------

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log: unsupported level %q", cfg.Log.Level)
	}

	// ------------------------------------------------------------
	// DEMO STEPS
	// ------------------------------------------------------------

	for i, st := range cfg.Demo.Steps {
		if st.Force < 0 || st.Force > maxForce {
			return fmt.Errorf("demo step %d: force %d out of range 0-%d", i, st.Force, maxForce)
		}
		if math.IsNaN(st.Width) || st.Width < 0 || st.Width > maxWidth {
			return fmt.Errorf("demo step %d: width %g out of range 0-%g", i, st.Width, maxWidth)
		}
		if st.SettleMs < 0 {
			return fmt.Errorf("demo step %d: settle_ms must be >= 0", i)
		}
	}

	return nil
}
