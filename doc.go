// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ssd1309 controls a monochrome OLED display via a SSD1309
// controller over 4-wire SPI.
//
// The SSD1309 is the successor of the SSD1306 with a nearly identical
// command set but without the internal charge pump; panels based on it
// (e.g. the Waveshare 1.51" transparent OLED) require an external VCC
// supply. Common resolution is 128x64.
//
// The driver keeps a 1KiB page-addressed framebuffer in memory. Callers
// mutate the framebuffer (pixel by pixel or in bulk) and push it to the
// display RAM with Update. Initialization, including the hardware reset
// pulse on the RES pin, is explicit: call Init once before the first
// Update.
//
// Every bus transaction is framed with the D/C line (Low for commands,
// High for pixel data) and bracketed by the CS line, matching the 4-wire
// serial protocol described in the datasheet.
//
// # Datasheet
//
// https://www.hpinfotech.ro/SSD1309.pdf
package ssd1309
