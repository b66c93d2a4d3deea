// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1309

// Commands, from the SSD1309 datasheet section 9. The command set is shared
// with the SSD1306 except for the charge pump (absent) and the horizontal
// scroll setup (takes an extra column range on the SSD1309).
const (
	setColumnAddr         byte = 0x21
	setPageAddr           byte = 0x22
	scrollRight           byte = 0x26
	scrollLeft            byte = 0x27
	scrollVerticalRight   byte = 0x29
	scrollVerticalLeft    byte = 0x2A
	deactivateScroll      byte = 0x2E
	activateScroll        byte = 0x2F
	setStartLine          byte = 0x40
	setContrast           byte = 0x81
	setSegmentRemapOff    byte = 0xA0
	setSegmentRemapOn     byte = 0xA1
	setDisplayAllOnResume byte = 0xA4
	setNormalDisplay      byte = 0xA6
	setInvertDisplay      byte = 0xA7
	setMultiplexRatio     byte = 0xA8
	setDisplayOff         byte = 0xAE
	setDisplayOn          byte = 0xAF
	setComScanInc         byte = 0xC0
	setComScanDec         byte = 0xC8
	setDisplayOffset      byte = 0xD3
	setDisplayClockDiv    byte = 0xD5
	setPrecharge          byte = 0xD9
	setComPins            byte = 0xDA
	setVcomhDeselect      byte = 0xDB
	setMemoryMode         byte = 0x20
)

// Memory addressing modes (setMemoryMode argument).
const (
	addrModeHorizontal byte = 0x00
	addrModePage       byte = 0x02
)

// initCommands returns the power-up command sequence for the given panel
// configuration, one framed transaction per element.
//
// The flow follows the datasheet's software initialization example: the
// display is configured while off and turned on last. There is no charge
// pump setup; the SSD1309 runs from an external VCC supply.
func initCommands(opts *Opts) [][]byte {
	// COM output scan direction and segment remap select the panel
	// orientation; the reset values show the panel mirrored on both axes.
	comScan := setComScanDec
	segRemap := setSegmentRemapOn
	if opts.MirrorVertical {
		comScan = setComScanInc
	}
	if opts.MirrorHorizontal {
		segRemap = setSegmentRemapOff
	}

	return [][]byte{
		{setDisplayOff},
		{setDisplayClockDiv, 0xA0},
		{setMultiplexRatio, byte(opts.H - 1)},
		{setDisplayOffset, 0x00},
		{setStartLine | 0x00},
		{segRemap},
		{comScan},
		{setComPins, comPinsConfig(opts)},
		{setContrast, opts.Contrast},
		{setPrecharge, 0x22},
		{setVcomhDeselect, 0x34},
		{setDisplayAllOnResume},
		{setNormalDisplay},
		{deactivateScroll},
		{setMemoryMode, addrModeHorizontal},
		{setDisplayOn},
	}
}

// comPinsConfig returns the COM pins hardware configuration byte.
// See the datasheet table 9-1; short panels use sequential COM wiring.
func comPinsConfig(opts *Opts) byte {
	c := byte(0x02)
	if !opts.Sequential {
		c |= 0x10
	}
	return c
}

// drawWindow returns the commands establishing the column and page range
// that a following data burst writes into.
func drawWindow(startCol, endCol, startPage, endPage int) [][]byte {
	return [][]byte{
		{setColumnAddr, byte(startCol), byte(endCol)},
		{setPageAddr, byte(startPage), byte(endPage)},
	}
}

// contrastCmd returns the contrast command. level 0xFF is the brightest.
func contrastCmd(level byte) []byte {
	return []byte{setContrast, level}
}

// invertCmd returns the display inversion command.
func invertCmd(blackOnWhite bool) []byte {
	if blackOnWhite {
		return []byte{setInvertDisplay}
	}
	return []byte{setNormalDisplay}
}

// startLineCmd returns the display start line command. line must be in
// [0, 64).
func startLineCmd(line byte) []byte {
	return []byte{setStartLine | line}
}

// scrollCmd returns the scroll setup followed by scroll activation.
// Pages are inclusive on both ends.
func scrollCmd(o Orientation, rate FrameRate, startPage, endPage uint8) []byte {
	if o == Left || o == Right {
		// Horizontal scroll setup, datasheet section 9.4. Unlike the
		// SSD1306, the SSD1309 takes a column range in bytes F and G.
		return []byte{byte(o), 0x00, startPage, byte(rate), endPage, 0x00, 0x00, 0x7F, activateScroll}
	}
	// Continuous vertical and horizontal scroll setup, one row offset.
	return []byte{byte(o), 0x00, startPage, byte(rate), endPage, 0x01, activateScroll}
}
