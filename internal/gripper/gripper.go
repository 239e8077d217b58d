// Package gripper translates RG2 force/width commands into Modbus register
// writes and decodes width feedback.
//
// A Controller owns one Transport for its lifetime and is meant to be driven
// by a single caller issuing commands sequentially. No retries, no polling.
package gripper

import (
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/goburrow/modbus"
	"go.uber.org/zap"
)

// Controller is the RG2 command translator.
type Controller struct {
	cfg       Config
	tr        Transport
	log       *zap.Logger
	connected bool
}

// New creates a disconnected controller.
func New(cfg Config, tr Transport, logger *zap.Logger) (*Controller, error) {
	if tr == nil {
		return nil, errors.New("gripper: transport required")
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.UnitID == 0 {
		cfg.UnitID = DefaultUnitID
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Controller{cfg: cfg, tr: tr}
	c.log = logger.With(
		zap.String("endpoint", c.Endpoint()),
		zap.Uint8("unit_id", cfg.UnitID),
	)
	return c, nil
}

// Endpoint is the transport address used in logs and errors.
func (c *Controller) Endpoint() string {
	if c.cfg.Device != "" {
		return c.cfg.Device
	}
	return net.JoinHostPort(c.cfg.Host, strconv.Itoa(c.cfg.Port))
}

// Connected reports whether Connect succeeded and Disconnect has not run since.
func (c *Controller) Connected() bool {
	return c.connected
}

// Connect opens the transport session. One attempt, no retry.
func (c *Controller) Connect() error {
	if err := c.tr.Connect(); err != nil {
		c.connected = false
		return &ConnectionError{Endpoint: c.Endpoint(), Err: err}
	}
	c.connected = true
	c.log.Info("connected to gripper")
	return nil
}

// Disconnect closes the transport unconditionally.
// Safe to call when never connected or already disconnected.
func (c *Controller) Disconnect() {
	if err := c.tr.Close(); err != nil {
		c.log.Warn("close failed", zap.Error(err))
	}
	c.connected = false
	c.log.Info("disconnected from gripper")
}

// Width reads the current gripper width.
func (c *Controller) Width() (WidthReading, error) {
	if !c.connected {
		return WidthReading{}, ErrNotConnected
	}

	regs, err := c.tr.ReadHoldingRegisters(RegActualWidth, 1)
	if err != nil {
		return WidthReading{}, transportFault("read width", err)
	}
	if len(regs) < 1 {
		return WidthReading{}, fmt.Errorf("%w: read width: empty response", ErrTransport)
	}

	return Decode(regs[0]), nil
}

// ReadWidth is Width with failures reported to the log.
// ok is false when no reading is available.
func (c *Controller) ReadWidth() (WidthReading, bool) {
	w, err := c.Width()
	if err != nil {
		c.report("error reading gripper width", err)
		return WidthReading{}, false
	}
	c.log.Info("gripper width", zap.Float64("width_mm", w.Millimeters))
	return w, true
}

// Apply validates, encodes and sends one command.
//
// The activation write precedes the force/width pair on every call;
// the device only accepts a pair once armed.
func (c *Controller) Apply(cmd Command) error {
	if err := Validate(cmd); err != nil {
		return err
	}
	if !c.connected {
		return ErrNotConnected
	}

	enc := Encode(cmd)

	c.log.Debug("sending gripper command",
		zap.Int("force_n", cmd.Force),
		zap.Float64("width_mm", cmd.Width),
		zap.Uint16("force_reg", enc.Force),
		zap.Uint16("width_reg", enc.Width),
	)

	if err := c.tr.WriteRegister(RegControl, ControlActivate); err != nil {
		return transportFault("activate", err)
	}
	if err := c.tr.WriteRegisters(RegTargetForce, enc.Registers()); err != nil {
		return transportFault("write force/width", err)
	}
	return nil
}

// SetWidthAndForce is Apply with failures reported to the log.
// It returns true only when both writes were accepted.
func (c *Controller) SetWidthAndForce(force int, width float64) bool {
	if err := c.Apply(Command{Force: force, Width: width}); err != nil {
		c.report("error setting gripper", err)
		return false
	}
	c.log.Info("gripper command sent",
		zap.Int("force_n", force),
		zap.Float64("width_mm", width),
	)
	return true
}

func (c *Controller) report(msg string, err error) {
	fields := []zap.Field{zap.Error(err)}

	var mbErr *modbus.ModbusError
	switch {
	case errors.Is(err, ErrInvalidParameter):
		msg = "invalid parameter"
	case errors.As(err, &mbErr):
		fields = append(fields,
			zap.Uint8("function_code", mbErr.FunctionCode),
			zap.Uint8("exception_code", mbErr.ExceptionCode),
		)
	}

	c.log.Warn(msg, fields...)
}

func transportFault(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrTransport, op, err)
}
