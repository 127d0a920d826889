package daemon

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"math"
)

const iconSize = 32

// getClockIcon renders the tray icon: a clock face with hands at 9 o'clock,
// wrapped in an ICO container holding a single PNG image.
func getClockIcon() []byte {
	img := image.NewNRGBA(image.Rect(0, 0, iconSize, iconSize))
	center := float64(iconSize-1) / 2
	radius := center - 1

	face := color.NRGBA{R: 0x1f, G: 0x7a, B: 0xe0, A: 0xff}
	rim := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

	for y := 0; y < iconSize; y++ {
		for x := 0; x < iconSize; x++ {
			dist := math.Hypot(float64(x)-center, float64(y)-center)
			switch {
			case dist <= radius-2:
				img.SetNRGBA(x, y, face)
			case dist <= radius:
				img.SetNRGBA(x, y, rim)
			}
		}
	}

	// Hands: minute hand up, hour hand left
	for i := 0; i < int(radius)-3; i++ {
		img.SetNRGBA(int(center), int(center)-i, rim)
	}
	for i := 0; i < int(radius)-7; i++ {
		img.SetNRGBA(int(center)-i, int(center), rim)
	}

	var pngData bytes.Buffer
	if err := png.Encode(&pngData, img); err != nil {
		return nil
	}

	var ico bytes.Buffer
	// ICONDIR: reserved, type 1 (icon), one image
	binary.Write(&ico, binary.LittleEndian, [3]uint16{0, 1, 1})
	// ICONDIRENTRY: width, height, colors, reserved, planes, bpp, size, offset
	ico.Write([]byte{iconSize, iconSize, 0, 0})
	binary.Write(&ico, binary.LittleEndian, [2]uint16{1, 32})
	binary.Write(&ico, binary.LittleEndian, [2]uint32{uint32(pngData.Len()), 6 + 16})
	ico.Write(pngData.Bytes())

	return ico.Bytes()
}
