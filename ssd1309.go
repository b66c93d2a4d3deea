// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1309

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"periph.io/x/devices/v3/ssd1309/image1bit"
)

// Errors returned by the driver.
var (
	// ErrOutOfBounds is returned when a pixel coordinate is outside the
	// panel. The framebuffer is left unmodified.
	ErrOutOfBounds = errors.New("ssd1309: pixel coordinate out of bounds")

	// ErrNotInitialized is returned when an operation requiring an
	// initialized display is invoked before a successful Init, or after
	// a bus failure. No bus transaction is issued.
	ErrNotInitialized = errors.New("ssd1309: display not initialized")
)

func errInvalidLength(got int) error {
	return fmt.Errorf("ssd1309: invalid pixel stream length; expected %d bytes, got %d bytes", fbSize, got)
}

// Reset timing. The datasheet mandates a minimum 3µs low pulse on RES and
// the panel needs to stabilize before the first command; these constants
// are comfortable margins above those lower bounds.
const (
	resetHoldTime   = 10 * time.Millisecond
	resetPulseTime  = 10 * time.Millisecond
	resetSettleTime = 100 * time.Millisecond
)

// state is the initialization state of the device.
//
// All states except stateReady refuse Update; stateFaulted is terminal
// until a fresh Init.
type state uint8

const (
	stateUninitialized state = iota
	stateResetting
	stateConfiguring
	stateReady
	stateFaulted
)

func (s state) String() string {
	switch s {
	case stateUninitialized:
		return "uninitialized"
	case stateResetting:
		return "resetting"
	case stateConfiguring:
		return "configuring"
	case stateReady:
		return "ready"
	case stateFaulted:
		return "faulted"
	default:
		return "unknown"
	}
}

// FrameRate determines scrolling speed.
type FrameRate byte

// Possible frame rates. The value determines the number of frames between
// each scroll step; the lower the interval, the faster the scroll.
const (
	FrameRate2   FrameRate = 7
	FrameRate3   FrameRate = 4
	FrameRate4   FrameRate = 5
	FrameRate5   FrameRate = 0
	FrameRate25  FrameRate = 6
	FrameRate64  FrameRate = 1
	FrameRate128 FrameRate = 2
	FrameRate256 FrameRate = 3
)

// Orientation is used for scrolling.
type Orientation byte

// Possible orientations for scrolling.
const (
	Right   Orientation = Orientation(scrollRight)
	Left    Orientation = Orientation(scrollLeft)
	UpRight Orientation = Orientation(scrollVerticalRight)
	UpLeft  Orientation = Orientation(scrollVerticalLeft)
)

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	W:        Width,
	H:        Height,
	Contrast: 0x7F,
}

// Opts defines the options for the device.
type Opts struct {
	// W and H are the display dimensions in pixels. The SSD1309 drives a
	// fixed 128x64 RAM; other values are rejected.
	W int
	H int
	// Contrast is the initial contrast level. 0 means DefaultOpts.Contrast.
	Contrast byte
	// MirrorVertical corresponds to the COM scan direction. Toggle this if
	// the display is flipped vertically.
	MirrorVertical bool
	// MirrorHorizontal corresponds to the SEG remap. Toggle this if the
	// display is flipped horizontally.
	MirrorHorizontal bool
	// Sequential corresponds to the sequential/alternative COM pin wiring.
	// Toggle this if only every other row lights up.
	Sequential bool
}

// NewSPI returns a Dev object that communicates over 4-wire SPI to a
// SSD1309 display controller.
//
// The SPI port is configured for 10MHz, Mode0, 8 bits, the maximum the
// controller supports.
//
// dc is the data/command pin, driven Low for command bytes and High for
// pixel data. cs is the chip select; pass nil when the SPI controller
// drives the select line itself. rst is the RES pin; it is mandatory, the
// driver owns the hardware reset sequence.
//
// No bus transaction is performed until Init is called.
func NewSPI(p spi.Port, dc, cs, rst gpio.PinOut, opts *Opts) (*Dev, error) {
	if opts == nil {
		o := DefaultOpts
		opts = &o
	}
	if opts.W != Width || opts.H != Height {
		return nil, fmt.Errorf("ssd1309: unsupported size %dx%d; the controller RAM is %dx%d", opts.W, opts.H, Width, Height)
	}
	if dc == nil || dc == gpio.INVALID {
		return nil, errors.New("ssd1309: dc pin is required")
	}
	if rst == nil || rst == gpio.INVALID {
		return nil, errors.New("ssd1309: rst pin is required")
	}
	c, err := p.Connect(10*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, err
	}
	d := &Dev{
		c:    c,
		dc:   dc,
		cs:   cs,
		rst:  rst,
		opts: *opts,
	}
	if d.opts.Contrast == 0 {
		d.opts.Contrast = DefaultOpts.Contrast
	}
	if l, ok := c.(conn.Limits); ok {
		d.maxTxSize = l.MaxTxSize()
	}
	return d, nil
}

// Dev is an open handle to the display controller.
//
// The handle must have exclusive use of the SPI connection and of the dc,
// cs and rst pins for its whole lifetime. The driver does no locking;
// concurrent calls on the same Dev are the caller's bug.
type Dev struct {
	// Communication.
	c   conn.Conn
	dc  gpio.PinOut
	cs  gpio.PinOut
	rst gpio.PinOut

	// maxTxSize is the transport chunk limit, 0 for unlimited.
	maxTxSize int

	opts  Opts
	state state
	fb    Framebuffer
}

func (d *Dev) String() string {
	return fmt.Sprintf("ssd1309.Dev{%s, %s, %dx%d}", d.c, d.dc, Width, Height)
}

// Framebuffer returns the in-memory bitmap.
//
// Mutate it with SetPixel, Clear or SetBytes, or draw into it with
// image/draw, then call Update to push it to the display RAM.
func (d *Dev) Framebuffer() *Framebuffer {
	return &d.fb
}

// Init resets and configures the display.
//
// It drives the hardware reset pulse on rst with the datasheet timing,
// then issues the power-up command sequence and turns the display on. The
// display RAM still holds whatever the previous session left; call Update
// to overwrite it.
//
// Init is required once after NewSPI and is the only way out of the
// faulted state after a bus failure.
func (d *Dev) Init() error {
	d.state = stateResetting
	if err := d.resetPulse(); err != nil {
		return d.fault("reset", err)
	}
	d.state = stateConfiguring
	for _, cmd := range initCommands(&d.opts) {
		if err := d.sendCommand(cmd); err != nil {
			return d.fault("init", err)
		}
	}
	d.state = stateReady
	return nil
}

// Reset drives the hardware reset pulse without reconfiguring the
// controller.
//
// A reset wipes the controller configuration, so the device reverts to
// uninitialized; call Init before the next Update.
func (d *Dev) Reset() error {
	d.state = stateResetting
	if err := d.resetPulse(); err != nil {
		return d.fault("reset", err)
	}
	d.state = stateUninitialized
	return nil
}

// resetPulse toggles rst per the datasheet: deassert, hold, pulse low,
// then let the controller settle before any command.
func (d *Dev) resetPulse() error {
	if err := d.rst.Out(gpio.High); err != nil {
		return err
	}
	time.Sleep(resetHoldTime)
	if err := d.rst.Out(gpio.Low); err != nil {
		return err
	}
	time.Sleep(resetPulseTime)
	if err := d.rst.Out(gpio.High); err != nil {
		return err
	}
	time.Sleep(resetSettleTime)
	return nil
}

// Update pushes the framebuffer to the display RAM.
//
// It sets the addressing window to the full screen and transmits all 1024
// bytes as a single data transaction. There is no partial-success: on a
// bus failure the device goes faulted, the frame is considered not
// delivered and the previous screen contents stay up.
func (d *Dev) Update() error {
	if d.state != stateReady {
		return ErrNotInitialized
	}
	for _, cmd := range drawWindow(0, Width-1, 0, Height/8-1) {
		if err := d.sendCommand(cmd); err != nil {
			return d.fault("update", err)
		}
	}
	if err := d.sendData(d.fb.Bytes()); err != nil {
		return d.fault("update", err)
	}
	return nil
}

// WriteCommand sends a raw command byte with optional parameter bytes,
// framed with dc Low.
//
// It is meant for callers needing controller features the driver does not
// expose. The device must be initialized.
func (d *Dev) WriteCommand(cmd byte, args ...byte) error {
	if d.state != stateReady {
		return ErrNotInitialized
	}
	if err := d.sendCommand(append([]byte{cmd}, args...)); err != nil {
		return d.fault("command", err)
	}
	return nil
}

// WriteData sends raw bytes to the display RAM, framed with dc High. The
// bytes land in the addressing window previously established by the
// caller.
func (d *Dev) WriteData(p []byte) error {
	if d.state != stateReady {
		return ErrNotInitialized
	}
	if err := d.sendData(p); err != nil {
		return d.fault("data", err)
	}
	return nil
}

// SetContrast changes the screen contrast.
func (d *Dev) SetContrast(level byte) error {
	return d.writeCodec(contrastCmd(level))
}

// Invert the display (black on white vs white on black).
func (d *Dev) Invert(blackOnWhite bool) error {
	return d.writeCodec(invertCmd(blackOnWhite))
}

// SetDisplayStartLine causes the display to start from line, effectively
// scrolling the screen vertically to that position.
func (d *Dev) SetDisplayStartLine(line byte) error {
	if line >= Height {
		return fmt.Errorf("ssd1309: invalid start line %d", line)
	}
	return d.writeCodec(startLineCmd(line))
}

// Scroll scrolls a horizontal band of the display using the controller's
// scroll engine. The band keeps scrolling until StopScroll is called.
//
// Both startLine and endLine must be multiples of 8. Use -1 for endLine to
// extend to the bottom of the display.
func (d *Dev) Scroll(o Orientation, rate FrameRate, startLine, endLine int) error {
	if endLine == -1 {
		endLine = Height
	}
	if startLine >= endLine {
		return fmt.Errorf("ssd1309: startLine (%d) must be lower than endLine (%d)", startLine, endLine)
	}
	if startLine&7 != 0 || startLine < 0 || startLine >= Height {
		return fmt.Errorf("ssd1309: invalid startLine %d", startLine)
	}
	if endLine&7 != 0 || endLine < 0 || endLine > Height {
		return fmt.Errorf("ssd1309: invalid endLine %d", endLine)
	}
	return d.writeCodec(scrollCmd(o, rate, uint8(startLine/8), uint8(endLine/8-1)))
}

// StopScroll stops any scrolling previously set.
func (d *Dev) StopScroll() error {
	return d.writeCodec([]byte{deactivateScroll})
}

// Halt turns the display panel off. It implements conn.Resource.
//
// The controller stays configured and the RAM keeps its contents; a
// subsequent SetContrast, Invert or Update works, the panel just stays
// dark until the next Init.
func (d *Dev) Halt() error {
	return d.writeCodec([]byte{setDisplayOff})
}

// ColorModel implements display.Drawer.
//
// It is a one bit color model, as implemented by image1bit.Bit.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements display.Drawer. Min is guaranteed to be {0, 0}.
func (d *Dev) Bounds() image.Rectangle {
	return d.fb.Bounds()
}

// Draw implements display.Drawer.
//
// It renders src into the framebuffer and pushes the whole frame
// synchronously; once it returns, the display is updated.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	if d.state != stateReady {
		return ErrNotInitialized
	}
	draw.Draw(&d.fb, r, src, sp, draw.Src)
	return d.Update()
}

// Write replaces the framebuffer with pixels and pushes it to the display.
//
// The format is unusual: each byte represents 8 vertical pixels, in
// horizontal bands of 8 pixels high. It accepts exactly Width*Height/8
// bytes.
func (d *Dev) Write(pixels []byte) (int, error) {
	if d.state != stateReady {
		return 0, ErrNotInitialized
	}
	if err := d.fb.SetBytes(pixels); err != nil {
		return 0, err
	}
	if err := d.Update(); err != nil {
		return 0, err
	}
	return len(pixels), nil
}

// writeCodec sends one codec-produced command transaction, gated on the
// initialized state.
func (d *Dev) writeCodec(cmd []byte) error {
	if d.state != stateReady {
		return ErrNotInitialized
	}
	if err := d.sendCommand(cmd); err != nil {
		return d.fault("command", err)
	}
	return nil
}

// fault records a bus failure. Only a fresh Init recovers.
func (d *Dev) fault(op string, err error) error {
	d.state = stateFaulted
	return fmt.Errorf("ssd1309: %s: %w", op, err)
}

// sendCommand transmits one command transaction, dc Low.
func (d *Dev) sendCommand(cmd []byte) error {
	return d.transact(gpio.Low, cmd)
}

// sendData transmits one data transaction, dc High, chunked to the
// transport's limit inside a single cs bracket.
func (d *Dev) sendData(p []byte) error {
	return d.transact(gpio.High, p)
}

// transact frames one logical transaction: dc level for the whole
// transaction, cs asserted before the first byte and deasserted after the
// last. cs is released even when the bus write fails.
func (d *Dev) transact(dcLevel gpio.Level, p []byte) error {
	if err := d.dc.Out(dcLevel); err != nil {
		return err
	}
	if err := d.csOut(gpio.Low); err != nil {
		return err
	}
	txErr := d.tx(p)
	csErr := d.csOut(gpio.High)
	if txErr != nil {
		return txErr
	}
	return csErr
}

// tx writes p over the bus, split into ordered chunks when the transport
// enforces a maximum transfer size.
func (d *Dev) tx(p []byte) error {
	if d.maxTxSize <= 0 || len(p) <= d.maxTxSize {
		return d.c.Tx(p, nil)
	}
	for len(p) > 0 {
		n := len(p)
		if n > d.maxTxSize {
			n = d.maxTxSize
		}
		if err := d.c.Tx(p[:n], nil); err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}

func (d *Dev) csOut(l gpio.Level) error {
	if d.cs == nil {
		return nil
	}
	return d.cs.Out(l)
}

var _ display.Drawer = &Dev{}
var _ conn.Resource = &Dev{}
