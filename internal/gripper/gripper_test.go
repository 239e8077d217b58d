package gripper

import (
	"errors"
	"testing"

	"github.com/goburrow/modbus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// ---- fake transport ----

type call struct {
	op     string // connect, read, write, writes, close
	addr   uint16
	values []uint16
}

type fakeTransport struct {
	calls []call

	connectErr error
	readErr    error
	writeErr   error // single register write
	writesErr  error // multi register write
	closeErr   error

	regs map[uint16]uint16
}

func (f *fakeTransport) Connect() error {
	f.calls = append(f.calls, call{op: "connect"})
	return f.connectErr
}

func (f *fakeTransport) ReadHoldingRegisters(addr, qty uint16) ([]uint16, error) {
	f.calls = append(f.calls, call{op: "read", addr: addr})
	if f.readErr != nil {
		return nil, f.readErr
	}
	out := make([]uint16, qty)
	for i := range out {
		out[i] = f.regs[addr+uint16(i)]
	}
	return out, nil
}

func (f *fakeTransport) WriteRegister(addr, value uint16) error {
	f.calls = append(f.calls, call{op: "write", addr: addr, values: []uint16{value}})
	return f.writeErr
}

func (f *fakeTransport) WriteRegisters(addr uint16, values []uint16) error {
	f.calls = append(f.calls, call{op: "writes", addr: addr, values: append([]uint16(nil), values...)})
	return f.writesErr
}

func (f *fakeTransport) Close() error {
	f.calls = append(f.calls, call{op: "close"})
	return f.closeErr
}

func (f *fakeTransport) count(op string) int {
	n := 0
	for _, c := range f.calls {
		if c.op == op {
			n++
		}
	}
	return n
}

func (f *fakeTransport) writes() []call {
	var out []call
	for _, c := range f.calls {
		if c.op == "write" || c.op == "writes" {
			out = append(out, c)
		}
	}
	return out
}

// ---- helpers ----

func newTestController(t *testing.T, tr *fakeTransport) (*Controller, *observer.ObservedLogs) {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	c, err := New(Config{Host: "127.0.0.1"}, tr, zap.New(core))
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	return c, logs
}

func connected(t *testing.T, tr *fakeTransport) (*Controller, *observer.ObservedLogs) {
	t.Helper()

	c, logs := newTestController(t, tr)
	if err := c.Connect(); err != nil {
		t.Fatalf("Connect() err=%v", err)
	}
	return c, logs
}

func equalRegs(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ---- tests ----

func TestNew_Defaults(t *testing.T) {
	c, _ := newTestController(t, &fakeTransport{})

	if c.Endpoint() != "127.0.0.1:502" {
		t.Fatalf("expected endpoint 127.0.0.1:502, got %s", c.Endpoint())
	}
	if c.cfg.UnitID != DefaultUnitID {
		t.Fatalf("expected unit id %d, got %d", DefaultUnitID, c.cfg.UnitID)
	}
	if c.Connected() {
		t.Fatalf("new controller must start disconnected")
	}
}

func TestNew_RequiresTransport(t *testing.T) {
	if _, err := New(Config{Host: "127.0.0.1"}, nil, nil); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestConnect_Success(t *testing.T) {
	tr := &fakeTransport{}
	c, logs := newTestController(t, tr)

	if err := c.Connect(); err != nil {
		t.Fatalf("Connect() err=%v", err)
	}
	if !c.Connected() {
		t.Fatalf("expected connected state")
	}
	if logs.FilterMessage("connected to gripper").Len() != 1 {
		t.Fatalf("expected connect to be logged")
	}
}

func TestConnect_Failure(t *testing.T) {
	tr := &fakeTransport{connectErr: errors.New("connection refused")}
	c, _ := newTestController(t, tr)

	err := c.Connect()
	if !errors.Is(err, ErrConnection) {
		t.Fatalf("expected ErrConnection, got %v", err)
	}
	var ce *ConnectionError
	if !errors.As(err, &ce) || ce.Endpoint != "127.0.0.1:502" {
		t.Fatalf("expected *ConnectionError for 127.0.0.1:502, got %v", err)
	}
	if c.Connected() {
		t.Fatalf("failed connect must stay disconnected")
	}

	// Nothing proceeds past a failed connect.
	if _, ok := c.ReadWidth(); ok {
		t.Fatalf("expected absent width after failed connect")
	}
	if c.SetWidthAndForce(20, 50) {
		t.Fatalf("expected command to fail after failed connect")
	}
	if tr.count("read") != 0 || len(tr.writes()) != 0 {
		t.Fatalf("expected no IO after failed connect, got %+v", tr.calls)
	}
}

func TestReadWidth_Success(t *testing.T) {
	tr := &fakeTransport{regs: map[uint16]uint16{RegActualWidth: 500}}
	c, _ := connected(t, tr)

	w, ok := c.ReadWidth()
	if !ok {
		t.Fatalf("expected width reading")
	}
	if w.Millimeters != 50.0 || w.Raw != 500 {
		t.Fatalf("expected 50.0 mm (raw 500), got %+v", w)
	}
	if tr.calls[1].addr != RegActualWidth {
		t.Fatalf("expected read at %d, got %d", RegActualWidth, tr.calls[1].addr)
	}
}

func TestReadWidth_DeviceException(t *testing.T) {
	tr := &fakeTransport{readErr: &modbus.ModbusError{
		FunctionCode:  0x83,
		ExceptionCode: modbus.ExceptionCodeIllegalDataAddress,
	}}
	c, logs := connected(t, tr)

	if _, ok := c.ReadWidth(); ok {
		t.Fatalf("expected absent width on exception response")
	}

	entries := logs.FilterMessage("error reading gripper width").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 read error report, got %d", len(entries))
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Fatalf("expected warn level, got %v", entries[0].Level)
	}
	if got := entries[0].ContextMap()["exception_code"]; got != uint8(modbus.ExceptionCodeIllegalDataAddress) {
		t.Fatalf("expected exception code in report, got %v", got)
	}

	_, err := c.Width()
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	var mbErr *modbus.ModbusError
	if !errors.As(err, &mbErr) {
		t.Fatalf("expected wrapped *modbus.ModbusError, got %v", err)
	}
}

func TestReadWidth_CommunicationError(t *testing.T) {
	tr := &fakeTransport{readErr: errors.New("i/o timeout")}
	c, logs := connected(t, tr)

	if _, ok := c.ReadWidth(); ok {
		t.Fatalf("expected absent width on communication error")
	}
	if logs.FilterMessage("error reading gripper width").Len() != 1 {
		t.Fatalf("expected read error to be reported")
	}
}

func TestSetWidthAndForce_WriteSequence(t *testing.T) {
	tr := &fakeTransport{}
	c, _ := connected(t, tr)

	if !c.SetWidthAndForce(20, 50) {
		t.Fatalf("expected success")
	}

	w := tr.writes()
	if len(w) != 2 {
		t.Fatalf("expected 2 writes, got %d", len(w))
	}
	if w[0].op != "write" || w[0].addr != RegControl || !equalRegs(w[0].values, []uint16{ControlActivate}) {
		t.Fatalf("expected activation write first, got %+v", w[0])
	}
	if w[1].op != "writes" || w[1].addr != RegTargetForce || !equalRegs(w[1].values, []uint16{200, 500}) {
		t.Fatalf("expected pair [200 500] at 0, got %+v", w[1])
	}
}

func TestSetWidthAndForce_ActivatesEveryCall(t *testing.T) {
	tr := &fakeTransport{}
	c, _ := connected(t, tr)

	for i := 0; i < 3; i++ {
		if !c.SetWidthAndForce(10, 20) {
			t.Fatalf("call %d failed", i)
		}
	}
	if tr.count("write") != 3 || tr.count("writes") != 3 {
		t.Fatalf("expected 3 activations and 3 pairs, got %+v", tr.calls)
	}
}

func TestSetWidthAndForce_InvalidForce(t *testing.T) {
	tr := &fakeTransport{}
	c, logs := connected(t, tr)

	if c.SetWidthAndForce(50, 50) {
		t.Fatalf("expected failure for force 50")
	}
	if len(tr.writes()) != 0 {
		t.Fatalf("expected zero writes, got %+v", tr.writes())
	}
	if logs.FilterMessage("invalid parameter").Len() != 1 {
		t.Fatalf("expected invalid parameter report")
	}
}

func TestSetWidthAndForce_InvalidWidth(t *testing.T) {
	tr := &fakeTransport{}
	c, logs := connected(t, tr)

	if c.SetWidthAndForce(20, 150) {
		t.Fatalf("expected failure for width 150")
	}
	if len(tr.writes()) != 0 {
		t.Fatalf("expected zero writes, got %+v", tr.writes())
	}
	if logs.FilterMessage("invalid parameter").Len() != 1 {
		t.Fatalf("expected invalid parameter report")
	}
}

func TestApply_InvalidBeforeConnectionCheck(t *testing.T) {
	c, _ := newTestController(t, &fakeTransport{})

	err := c.Apply(Command{Force: 41, Width: 10})
	if !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}

	err = c.Apply(Command{Force: 10, Width: 10})
	if !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
}

func TestSetWidthAndForce_ActivationFailure(t *testing.T) {
	tr := &fakeTransport{writeErr: errors.New("broken pipe")}
	c, logs := connected(t, tr)

	if c.SetWidthAndForce(20, 50) {
		t.Fatalf("expected failure")
	}
	if tr.count("writes") != 0 {
		t.Fatalf("pair must not be written when activation fails")
	}
	if logs.FilterMessage("error setting gripper").Len() != 1 {
		t.Fatalf("expected transport failure report")
	}

	if err := c.Apply(Command{Force: 20, Width: 50}); !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestSetWidthAndForce_PairFailure(t *testing.T) {
	tr := &fakeTransport{writesErr: &modbus.ModbusError{
		FunctionCode:  0x90,
		ExceptionCode: modbus.ExceptionCodeServerDeviceFailure,
	}}
	c, _ := connected(t, tr)

	if c.SetWidthAndForce(20, 50) {
		t.Fatalf("expected failure")
	}
	if tr.count("write") != 1 || tr.count("writes") != 1 {
		t.Fatalf("expected activation then failed pair, got %+v", tr.calls)
	}
}

func TestDisconnect_ClosesOnce(t *testing.T) {
	tr := &fakeTransport{}
	c, _ := connected(t, tr)

	c.Disconnect()

	if tr.count("close") != 1 {
		t.Fatalf("expected close once, got %d", tr.count("close"))
	}
	if c.Connected() {
		t.Fatalf("expected disconnected state")
	}
	if c.SetWidthAndForce(20, 50) {
		t.Fatalf("expected command to fail after disconnect")
	}
}

func TestDisconnect_WithoutConnect(t *testing.T) {
	tr := &fakeTransport{closeErr: errors.New("not open")}
	c, logs := newTestController(t, tr)

	c.Disconnect()

	if tr.count("close") != 1 {
		t.Fatalf("expected close once, got %d", tr.count("close"))
	}
	if logs.FilterMessage("close failed").Len() != 1 {
		t.Fatalf("expected close error to be logged, not returned")
	}
}

// Open, command, read back, command again.
func TestController_EndToEnd(t *testing.T) {
	tr := &fakeTransport{regs: map[uint16]uint16{RegActualWidth: 1000}}
	c, _ := connected(t, tr)
	defer c.Disconnect()

	if !c.SetWidthAndForce(20, 100) {
		t.Fatalf("first command failed")
	}

	w, ok := c.ReadWidth()
	if !ok || w.Millimeters != 100.0 {
		t.Fatalf("expected 100.0 mm, got %+v ok=%v", w, ok)
	}

	if !c.SetWidthAndForce(30, 10) {
		t.Fatalf("second command failed")
	}

	want := []call{
		{op: "write", addr: 2, values: []uint16{1}},
		{op: "writes", addr: 0, values: []uint16{200, 1000}},
		{op: "write", addr: 2, values: []uint16{1}},
		{op: "writes", addr: 0, values: []uint16{300, 100}},
	}
	got := tr.writes()
	if len(got) != len(want) {
		t.Fatalf("expected %d writes, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i].op != want[i].op || got[i].addr != want[i].addr || !equalRegs(got[i].values, want[i].values) {
			t.Fatalf("write %d: got %+v want %+v", i, got[i], want[i])
		}
	}
}
