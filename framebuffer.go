// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1309

import (
	"image"
	"image/color"

	"periph.io/x/devices/v3/ssd1309/image1bit"
)

// Display dimensions in pixels. The SSD1309 GDDRAM is always 128x64; the
// driver does not support partial panels.
const (
	Width  = 128
	Height = 64
)

// fbSize is the framebuffer size in bytes: 8 vertically stacked pixels per
// byte.
const fbSize = Width * Height / 8

// Framebuffer is the in-memory copy of the display RAM.
//
// The layout matches the controller's horizontal addressing mode: byte i
// holds 8 vertically stacked pixels (LSB topmost) for column i%Width of
// page i/Width, where a page is a horizontal band of 8 rows. The backing
// array is embedded in the struct; nothing is allocated after
// construction.
//
// Framebuffer implements image.Image and draw.Image with the
// image1bit.Bit color model, so the stdlib image/draw and
// golang.org/x/image packages can render into it directly.
type Framebuffer struct {
	pix [fbSize]byte
}

// SetPixel turns the pixel at (x, y) on or off.
//
// Unlike Set, coordinates outside the panel return ErrOutOfBounds and
// leave the buffer untouched.
func (f *Framebuffer) SetPixel(x, y int, on bool) error {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return ErrOutOfBounds
	}
	mask := byte(1) << uint(y&7)
	if on {
		f.pix[y/8*Width+x] |= mask
	} else {
		f.pix[y/8*Width+x] &^= mask
	}
	return nil
}

// BitAt returns the bit at (x, y). Out of bounds coordinates return Off.
func (f *Framebuffer) BitAt(x, y int) image1bit.Bit {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return image1bit.Off
	}
	return image1bit.Bit(f.pix[y/8*Width+x]&(1<<uint(y&7)) != 0)
}

// Clear turns every pixel off.
func (f *Framebuffer) Clear() {
	for i := range f.pix {
		f.pix[i] = 0
	}
}

// Fill sets every pixel to b.
func (f *Framebuffer) Fill(b image1bit.Bit) {
	v := byte(0)
	if b {
		v = 0xFF
	}
	for i := range f.pix {
		f.pix[i] = v
	}
}

// SetBytes replaces the whole buffer with pix, which must be exactly
// Width*Height/8 bytes in the native page-addressed layout.
func (f *Framebuffer) SetBytes(pix []byte) error {
	if len(pix) != fbSize {
		return errInvalidLength(len(pix))
	}
	copy(f.pix[:], pix)
	return nil
}

// Bytes returns the raw buffer in the native page-addressed layout.
//
// The slice aliases the framebuffer; treat it as read-only and use
// SetPixel or SetBytes to mutate, so the coordinate mapping stays in one
// place.
func (f *Framebuffer) Bytes() []byte {
	return f.pix[:]
}

// ColorModel implements image.Image.
func (f *Framebuffer) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements image.Image. Min is always {0, 0}.
func (f *Framebuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, Width, Height)
}

// At implements image.Image.
func (f *Framebuffer) At(x, y int) color.Color {
	return f.BitAt(x, y)
}

// Set implements draw.Image. Pixels outside the panel are silently
// dropped, per the image/draw contract.
func (f *Framebuffer) Set(x, y int, c color.Color) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return
	}
	_ = f.SetPixel(x, y, bool(image1bit.BitModel.Convert(c).(image1bit.Bit)))
}
