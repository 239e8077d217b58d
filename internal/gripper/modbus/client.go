// Package modbus implements gripper.Transport on top of goburrow/modbus.
package modbus

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/goburrow/modbus"
)

// Modes supported by New.
const (
	ModeTCP = "tcp"
	ModeRTU = "rtu"
)

// Config is minimal transport config.
type Config struct {
	Mode     string // tcp (default) or rtu
	Endpoint string // host:port for tcp, serial device for rtu
	UnitID   uint8
	Timeout  time.Duration

	// RTU line settings. Ignored for tcp.
	BaudRate int
	DataBits int
	Parity   string // N, E or O
	StopBits int

	// Logger receives raw frames when set.
	Logger *log.Logger
}

// handler is what both goburrow client handlers provide.
type handler interface {
	modbus.ClientHandler
	Connect() error
	Close() error
}

// Client is one Modbus session to one unit.
// It does not connect until Connect is called.
type Client struct {
	handler handler
	client  modbus.Client
}

// New builds an unconnected client.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("modbus client: endpoint required")
	}

	var h handler

	switch cfg.Mode {
	case "", ModeTCP:
		th := modbus.NewTCPClientHandler(cfg.Endpoint)
		th.SlaveId = cfg.UnitID
		if cfg.Timeout > 0 {
			th.Timeout = cfg.Timeout
		}
		th.Logger = cfg.Logger
		h = th

	case ModeRTU:
		rh := modbus.NewRTUClientHandler(cfg.Endpoint)
		rh.SlaveId = cfg.UnitID
		if cfg.Timeout > 0 {
			rh.Timeout = cfg.Timeout
		}
		if cfg.BaudRate > 0 {
			rh.BaudRate = cfg.BaudRate
		}
		if cfg.DataBits > 0 {
			rh.DataBits = cfg.DataBits
		}
		if cfg.Parity != "" {
			rh.Parity = cfg.Parity
		}
		if cfg.StopBits > 0 {
			rh.StopBits = cfg.StopBits
		}
		rh.Logger = cfg.Logger
		h = rh

	default:
		return nil, fmt.Errorf("modbus client: unsupported mode %q", cfg.Mode)
	}

	return &Client{
		handler: h,
		client:  modbus.NewClient(h),
	}, nil
}

// Connect opens the underlying TCP connection or serial port.
func (c *Client) Connect() error {
	return c.handler.Connect()
}

// Close releases the connection. Safe without Connect and when repeated.
func (c *Client) Close() error {
	if c == nil || c.handler == nil {
		return nil
	}
	return c.handler.Close()
}

// ---- gripper.Transport ----

func (c *Client) ReadHoldingRegisters(addr, qty uint16) ([]uint16, error) {
	if qty == 0 {
		return nil, nil
	}
	b, err := c.client.ReadHoldingRegisters(addr, qty)
	if err != nil {
		return nil, err
	}
	if len(b) != int(qty)*2 {
		return nil, fmt.Errorf("modbus: read-registers payload %d bytes, want %d", len(b), int(qty)*2)
	}
	return unpackRegisters(b), nil
}

func (c *Client) WriteRegister(addr, value uint16) error {
	_, err := c.client.WriteSingleRegister(addr, value)
	return err
}

func (c *Client) WriteRegisters(addr uint16, values []uint16) error {
	if len(values) == 0 {
		return errors.New("modbus: no registers to write")
	}
	_, err := c.client.WriteMultipleRegisters(addr, uint16(len(values)), packRegisters(values))
	return err
}

// ---- helpers (pure geometry) ----

// Modbus register memory order (BIG-ENDIAN)
func packRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out
}

func unpackRegisters(data []byte) []uint16 {
	n := len(data) / 2
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out
}
