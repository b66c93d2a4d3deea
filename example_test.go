// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1309_test

import (
	"image"
	"log"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/ssd1309"
	"periph.io/x/devices/v3/ssd1309/image1bit"
	"periph.io/x/host/v3"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	// Use spireg SPI port registry to find the first available SPI port.
	p, err := spireg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer p.Close()

	dev, err := ssd1309.NewSPI(p,
		gpioreg.ByName("GPIO24"), // D/C
		nil,                      // CS is driven by the SPI controller
		gpioreg.ByName("GPIO25"), // RES
		&ssd1309.DefaultOpts)
	if err != nil {
		log.Fatalf("failed to open display: %v", err)
	}
	if err := dev.Init(); err != nil {
		log.Fatalf("failed to initialize display: %v", err)
	}

	// Draw on it.
	f := basicfont.Face7x13
	drawer := font.Drawer{
		Dst:  dev.Framebuffer(),
		Src:  &image.Uniform{image1bit.On},
		Face: f,
		Dot:  fixed.P(0, dev.Bounds().Dy()-1-f.Descent),
	}
	drawer.DrawString("Hello from periph!")

	if err := dev.Update(); err != nil {
		log.Fatal(err)
	}
}

func Example_pixels() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	p, err := spireg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer p.Close()

	dev, err := ssd1309.NewSPI(p, gpioreg.ByName("GPIO24"), nil, gpioreg.ByName("GPIO25"), nil)
	if err != nil {
		log.Fatal(err)
	}
	if err := dev.Init(); err != nil {
		log.Fatal(err)
	}

	// Raw pixel access: a diagonal line.
	fb := dev.Framebuffer()
	fb.Clear()
	for i := 0; i < 64; i++ {
		if err := fb.SetPixel(i*2, i, true); err != nil {
			log.Fatal(err)
		}
	}
	if err := dev.Update(); err != nil {
		log.Fatal(err)
	}
}
