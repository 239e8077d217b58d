package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Gripper GripperConfig `yaml:"gripper"`
	Log     LogConfig     `yaml:"log"`
	Demo    DemoConfig    `yaml:"demo"`
}

// ---- GRIPPER ----

type GripperConfig struct {
	Transport string       `yaml:"transport"` // tcp | rtu
	Host      string       `yaml:"host"`
	Port      int          `yaml:"port"`
	UnitID    uint8        `yaml:"unit_id"`
	TimeoutMs int          `yaml:"timeout_ms"`
	Serial    SerialConfig `yaml:"serial"` // rtu only
}

type SerialConfig struct {
	Device   string `yaml:"device"`
	BaudRate int    `yaml:"baud_rate"`
	DataBits int    `yaml:"data_bits"`
	Parity   string `yaml:"parity"`
	StopBits int    `yaml:"stop_bits"`
}

// ---- LOG ----

type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// ---- DEMO SEQUENCE ----

type DemoConfig struct {
	Steps []StepConfig `yaml:"steps"`
}

type StepConfig struct {
	Force    int     `yaml:"force"`
	Width    float64 `yaml:"width"`
	SettleMs int     `yaml:"settle_ms"`
}

// Load reads and decodes a YAML config file.
// It does not normalize or validate.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(b)
}

// Parse decodes YAML bytes. Unknown fields are rejected.
func Parse(b []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	// An empty document decodes to io.EOF; it means "all defaults".
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	return &cfg, nil
}
