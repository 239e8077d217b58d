package gripper

import (
	"net"
	"strconv"
	"time"

	"go.uber.org/zap"

	cfg "github.com/tamzrod/rg2-gripper/internal/config"
	gmodbus "github.com/tamzrod/rg2-gripper/internal/gripper/modbus"
)

// Build constructs a disconnected Controller and its Modbus transport.
// Assumes config has already been normalized and validated.
// Connecting is left to the caller: one attempt, no retries.
func Build(g cfg.GripperConfig, logger *zap.Logger) (*Controller, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := time.Duration(g.TimeoutMs) * time.Millisecond

	tcfg := gmodbus.Config{
		Mode:    g.Transport,
		UnitID:  g.UnitID,
		Timeout: timeout,
	}
	ccfg := Config{
		Host:    g.Host,
		Port:    g.Port,
		UnitID:  g.UnitID,
		Timeout: timeout,
	}

	switch g.Transport {
	case gmodbus.ModeRTU:
		tcfg.Endpoint = g.Serial.Device
		tcfg.BaudRate = g.Serial.BaudRate
		tcfg.DataBits = g.Serial.DataBits
		tcfg.Parity = g.Serial.Parity
		tcfg.StopBits = g.Serial.StopBits
		ccfg.Device = g.Serial.Device
	default:
		tcfg.Endpoint = net.JoinHostPort(g.Host, strconv.Itoa(g.Port))
	}

	// Frame dumps only at debug level.
	if logger.Core().Enabled(zap.DebugLevel) {
		std, err := zap.NewStdLogAt(logger.Named("modbus"), zap.DebugLevel)
		if err != nil {
			return nil, err
		}
		tcfg.Logger = std
	}

	tr, err := gmodbus.New(tcfg)
	if err != nil {
		return nil, err
	}

	return New(ccfg, tr, logger)
}
