package daemon

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
)

const iconSize = 32

// calendarIcon draws a small calendar page and wraps it as a PNG-in-ICO
func calendarIcon() []byte {
	img := image.NewRGBA(image.Rect(0, 0, iconSize, iconSize))

	header := color.RGBA{R: 0xd9, G: 0x3b, B: 0x3b, A: 0xff}
	page := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	mark := color.RGBA{R: 0x3b, G: 0x6e, B: 0xd9, A: 0xff}

	for y := 3; y < iconSize-2; y++ {
		for x := 3; x < iconSize-3; x++ {
			c := page
			switch {
			case y < 11:
				c = header
			case (x-6)%6 < 3 && (y-14)%6 < 3 && x >= 6 && y >= 14:
				c = mark
			}
			img.Set(x, y, c)
		}
	}

	var pngData bytes.Buffer
	if err := png.Encode(&pngData, img); err != nil {
		return nil
	}

	// ICONDIR followed by a single ICONDIRENTRY
	var ico bytes.Buffer
	binary.Write(&ico, binary.LittleEndian, []uint16{0, 1, 1})
	ico.Write([]byte{iconSize, iconSize, 0, 0})
	binary.Write(&ico, binary.LittleEndian, []uint16{1, 32})
	binary.Write(&ico, binary.LittleEndian, []uint32{uint32(pngData.Len()), 22})
	ico.Write(pngData.Bytes())

	return ico.Bytes()
}
