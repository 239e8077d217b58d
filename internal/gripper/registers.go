package gripper

// RG2 register map as exposed through the quick changer.
// These values define the device wire contract and MUST NOT be configurable.

// ---- COMMAND REGISTERS ----

// RegTargetForce holds the target force in N x10.
const RegTargetForce uint16 = 0

// RegTargetWidth holds the target width in mm x10.
// It directly follows RegTargetForce so both are written as one pair.
const RegTargetWidth uint16 = 1

// RegControl arms the gripper. Writing ControlActivate is required
// before the device accepts a force/width pair.
const RegControl uint16 = 2

// ControlActivate is the value written to RegControl.
const ControlActivate uint16 = 1

// ---- FEEDBACK REGISTERS ----

// RegActualWidth holds the measured width in mm x10.
//
// The reported width can differ from the teach pendant display by a fixed
// mechanical offset of roughly 8-10 mm. It is reported as-is.
const RegActualWidth uint16 = 267

// ---- LIMITS ----

// Scale is the implied decimal factor of every register value.
const Scale = 10.0

// MinForce and MaxForce bound the target force in Newtons (inclusive).
const (
	MinForce = 0
	MaxForce = 40
)

// MinWidth and MaxWidth bound the target width in millimeters (inclusive).
const (
	MinWidth = 0.0
	MaxWidth = 100.0
)

// ---- CONNECTION DEFAULTS ----

// DefaultPort is the standard Modbus TCP port.
const DefaultPort = 502

// DefaultUnitID is the slave id of the quick changer that fronts the gripper.
const DefaultUnitID uint8 = 65
