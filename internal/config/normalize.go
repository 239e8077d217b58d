package config

import "strings"

// Defaults applied by Normalize.
const (
	DefaultTransport = "tcp"
	DefaultPort      = 502
	DefaultUnitID    = 65
	DefaultTimeoutMs = 1000
	DefaultBaudRate  = 19200
	DefaultDataBits  = 8
	DefaultParity    = "E"
	DefaultStopBits  = 1
	DefaultLogLevel  = "info"
)

// Normalize fills in defaults and canonicalizes case.
// It is allowed to mutate configuration.
// It MUST be called before Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	g := &cfg.Gripper

	g.Transport = strings.ToLower(strings.TrimSpace(g.Transport))
	if g.Transport == "" {
		g.Transport = DefaultTransport
	}
	if g.Port == 0 {
		g.Port = DefaultPort
	}
	if g.UnitID == 0 {
		g.UnitID = DefaultUnitID
	}
	if g.TimeoutMs == 0 {
		g.TimeoutMs = DefaultTimeoutMs
	}

	// Serial defaults only matter for rtu, but are harmless otherwise.
	s := &g.Serial
	if s.BaudRate == 0 {
		s.BaudRate = DefaultBaudRate
	}
	if s.DataBits == 0 {
		s.DataBits = DefaultDataBits
	}
	s.Parity = strings.ToUpper(strings.TrimSpace(s.Parity))
	if s.Parity == "" {
		s.Parity = DefaultParity
	}
	if s.StopBits == 0 {
		s.StopBits = DefaultStopBits
	}

	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
}
