// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1309

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/google/go-cmp/cmp"

	"periph.io/x/devices/v3/ssd1309/image1bit"
)

func TestFramebufferSetPixelRoundTrip(t *testing.T) {
	var fb Framebuffer
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if err := fb.SetPixel(x, y, true); err != nil {
				t.Fatalf("SetPixel(%d, %d, true) failed: %v", x, y, err)
			}
			if got := fb.BitAt(x, y); got != image1bit.On {
				t.Fatalf("BitAt(%d, %d) = %v, want On", x, y, got)
			}
			// Setting again must change nothing further.
			if err := fb.SetPixel(x, y, true); err != nil {
				t.Fatalf("SetPixel(%d, %d, true) failed: %v", x, y, err)
			}
			if got := fb.BitAt(x, y); got != image1bit.On {
				t.Fatalf("BitAt(%d, %d) after repeat = %v, want On", x, y, got)
			}
			if err := fb.SetPixel(x, y, false); err != nil {
				t.Fatalf("SetPixel(%d, %d, false) failed: %v", x, y, err)
			}
			if got := fb.BitAt(x, y); got != image1bit.Off {
				t.Fatalf("BitAt(%d, %d) = %v, want Off", x, y, got)
			}
		}
	}
}

func TestFramebufferLayout(t *testing.T) {
	// The layout contract: byte (y/8)*Width + x, bit y%8.
	for _, tc := range []struct {
		x, y     int
		wantByte int
		wantMask byte
	}{
		{0, 0, 0, 0x01},
		{127, 0, 127, 0x01},
		{0, 7, 0, 0x80},
		{0, 8, 128, 0x01},
		{5, 21, 2*128 + 5, 0x20},
		{127, 63, 7*128 + 127, 0x80},
	} {
		var fb Framebuffer
		if err := fb.SetPixel(tc.x, tc.y, true); err != nil {
			t.Fatalf("SetPixel(%d, %d, true) failed: %v", tc.x, tc.y, err)
		}
		for i, b := range fb.Bytes() {
			want := byte(0)
			if i == tc.wantByte {
				want = tc.wantMask
			}
			if b != want {
				t.Errorf("pixel (%d, %d): byte %d = %#02x, want %#02x", tc.x, tc.y, i, b, want)
			}
		}
	}
}

func TestFramebufferSetPixelOutOfBounds(t *testing.T) {
	var fb Framebuffer
	fb.Fill(image1bit.On)
	before := append([]byte(nil), fb.Bytes()...)

	for _, tc := range []struct{ x, y int }{
		{-1, 0},
		{0, -1},
		{Width, 0},
		{0, Height},
		{Width, Height},
		{-1, -1},
	} {
		if err := fb.SetPixel(tc.x, tc.y, false); err != ErrOutOfBounds {
			t.Errorf("SetPixel(%d, %d) = %v, want ErrOutOfBounds", tc.x, tc.y, err)
		}
	}
	if diff := cmp.Diff(before, fb.Bytes()); diff != "" {
		t.Errorf("buffer modified by out of bounds SetPixel (-want +got):\n%s", diff)
	}
}

func TestFramebufferClear(t *testing.T) {
	var fb Framebuffer
	fb.Fill(image1bit.On)
	fb.Clear()
	if got := fb.Bytes(); len(got) != 1024 {
		t.Fatalf("Bytes() length = %d, want 1024", len(got))
	}
	if !bytes.Equal(fb.Bytes(), make([]byte, fbSize)) {
		t.Error("Clear() did not zero the buffer")
	}
}

func TestFramebufferSetBytes(t *testing.T) {
	var fb Framebuffer
	pat := bytes.Repeat([]byte{0xA5}, fbSize)
	if err := fb.SetBytes(pat); err != nil {
		t.Fatalf("SetBytes failed: %v", err)
	}
	if !bytes.Equal(fb.Bytes(), pat) {
		t.Error("SetBytes did not copy the pattern")
	}
	if err := fb.SetBytes(make([]byte, fbSize-1)); err == nil {
		t.Error("SetBytes accepted a short buffer")
	}
	if err := fb.SetBytes(make([]byte, fbSize+1)); err == nil {
		t.Error("SetBytes accepted a long buffer")
	}
}

func TestFramebufferImage(t *testing.T) {
	var fb Framebuffer
	if got := fb.Bounds(); got != image.Rect(0, 0, 128, 64) {
		t.Errorf("Bounds() = %v, want (0,0)-(128,64)", got)
	}
	if fb.ColorModel() != image1bit.BitModel {
		t.Error("ColorModel() is not image1bit.BitModel")
	}

	// Drawing through the standard library must land in the right bits.
	draw.Draw(&fb, image.Rect(2, 9, 4, 11), &image.Uniform{color.White}, image.Point{}, draw.Src)
	for _, tc := range []struct {
		x, y int
		want image1bit.Bit
	}{
		{2, 9, image1bit.On},
		{3, 10, image1bit.On},
		{1, 9, image1bit.Off},
		{4, 9, image1bit.Off},
		{2, 11, image1bit.Off},
	} {
		if got := fb.BitAt(tc.x, tc.y); got != tc.want {
			t.Errorf("BitAt(%d, %d) = %v, want %v", tc.x, tc.y, got, tc.want)
		}
	}

	// Set outside the bounds is silently dropped, per image/draw.
	fb.Set(-1, -1, color.White)
	fb.Set(Width, Height, color.White)
	if got := fb.At(0, 0).(image1bit.Bit); got != image1bit.Off {
		t.Errorf("At(0, 0) = %v, want Off", got)
	}
}
