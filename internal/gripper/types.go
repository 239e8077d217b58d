package gripper

import "time"

// Command is one force/width request in physical units.
type Command struct {
	Force int     // N, 0..40
	Width float64 // mm, 0.0..100.0
}

// Encoding is a Command in register units (x10).
type Encoding struct {
	Force uint16
	Width uint16
}

// Registers returns the pair in wire order starting at RegTargetForce.
func (e Encoding) Registers() []uint16 {
	return []uint16{e.Force, e.Width}
}

// WidthReading is a decoded width feedback register.
// It only exists for a successful read.
type WidthReading struct {
	Raw         uint16
	Millimeters float64
}

// Config is the connection config of one gripper.
// Zero Port and UnitID fall back to DefaultPort and DefaultUnitID.
type Config struct {
	Host    string
	Port    int
	UnitID  uint8
	Timeout time.Duration

	// Device is the serial line for RTU mode. When set it replaces
	// Host:Port as the endpoint.
	Device string
}

// Transport is the Modbus register access the controller needs.
// Unit addressing is owned by the transport.
type Transport interface {
	Connect() error
	ReadHoldingRegisters(addr, qty uint16) ([]uint16, error) // FC 3
	WriteRegister(addr, value uint16) error                  // FC 6
	WriteRegisters(addr uint16, values []uint16) error       // FC 16
	Close() error
}
