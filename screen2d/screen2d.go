// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package screen2d implements a 2D monochrome display.Drawer that outputs
// to terminal (stdout) using ANSI color codes.
//
// Useful to develop against the SSD1309 driver surface while your OLED
// panel is still in the mail: it accepts the same page-addressed pixel
// stream as the hardware.
package screen2d

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"

	"periph.io/x/devices/v3/ssd1309/image1bit"
)

// Opts represents the options available for this display.
type Opts struct {
	// W and H are the emulated panel dimensions in pixels. H must be a
	// multiple of 8.
	W int
	H int
	// Palette is the ANSI palette; nil uses ansi256.Default.
	Palette *ansi256.Palette

	_ struct{}
}

// Dev is a monochrome OLED emulator that renders to the console.
type Dev struct {
	w       io.Writer
	rect    image.Rectangle
	palette ansi256.Palette

	// pixels is in the same vertical-LSB page layout as the SSD1309
	// display RAM.
	pixels []byte
	buf    bytes.Buffer
}

func errInvalidLength(want, got int) error {
	return fmt.Errorf("screen2d: invalid pixel stream length; expected %d bytes, got %d bytes", want, got)
}

// New returns a Dev that displays at the console.
func New(opts *Opts) *Dev {
	return NewWriter(colorable.NewColorableStdout(), opts)
}

// NewWriter returns a Dev that renders ANSI output to w.
func NewWriter(w io.Writer, opts *Opts) *Dev {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	return &Dev{
		w:       w,
		rect:    image.Rect(0, 0, opts.W, opts.H),
		palette: *p,
		pixels:  make([]byte, opts.W*opts.H/8),
	}
}

func (d *Dev) String() string {
	return "Screen2D"
}

// Halt implements conn.Resource.
//
// It resets the terminal attributes so the shell is not corrupted.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// Write accepts a frame in the SSD1309 page-addressed layout (each byte is
// 8 vertically stacked pixels) and renders it to the console.
func (d *Dev) Write(pixels []byte) (int, error) {
	if len(pixels) != len(d.pixels) {
		return 0, errInvalidLength(len(d.pixels), len(pixels))
	}
	copy(d.pixels, pixels)
	return len(pixels), d.refresh()
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Draw implements display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	r = r.Intersect(d.rect)
	srcR := src.Bounds()
	srcR.Min = srcR.Min.Add(sp)
	for y := 0; y < r.Dy() && y < srcR.Dy(); y++ {
		for x := 0; x < r.Dx() && x < srcR.Dx(); x++ {
			dX := r.Min.X + x
			dY := r.Min.Y + y
			on := bool(image1bit.BitModel.Convert(src.At(srcR.Min.X+x, srcR.Min.Y+y)).(image1bit.Bit))
			mask := byte(1) << uint(dY&7)
			if on {
				d.pixels[dY/8*d.rect.Dx()+dX] |= mask
			} else {
				d.pixels[dY/8*d.rect.Dx()+dX] &^= mask
			}
		}
	}
	return d.refresh()
}

// refresh redraws the whole frame, one ANSI block per pixel.
func (d *Dev) refresh() error {
	// This code is designed to minimize the amount of memory allocated
	// per call.
	w := d.rect.Dx()
	d.buf.Reset()
	_, _ = d.buf.WriteString("\033[H")
	for y := 0; y < d.rect.Dy(); y++ {
		mask := byte(1) << uint(y&7)
		row := d.pixels[y/8*w : y/8*w+w]
		for x := 0; x < w; x++ {
			c := color.NRGBA{A: 255}
			if row[x]&mask != 0 {
				c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
			_, _ = io.WriteString(&d.buf, d.palette.Block(c))
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	_, err := d.buf.WriteTo(d.w)
	return err
}

var _ display.Drawer = &Dev{}
