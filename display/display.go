// Package display renders debug text into a one bit frame buffer and pushes
// it to a small monochrome panel such as the SSD1306.
package display

import (
	"fmt"
	"image"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// FontSize is the point size of the default face, small enough for a 4x4
// grid of four digit numbers on a 128 pixel wide panel
const FontSize = 8

// Drawer is the panel the frame buffer is flushed to.  *ssd1306.Dev satisfies
// it.
type Drawer interface {
	Bounds() image.Rectangle
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
}

// Screen is a text frame buffer in front of a Drawer
type Screen struct {
	dev  Drawer
	buf  *image1bit.VerticalLSB
	face font.Face
}

// DefaultFace returns the monospaced face used by New
func DefaultFace() (font.Face, error) {

	f, err := opentype.Parse(gomono.TTF)

	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}

	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    FontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// New returns a Screen drawing with the default face
func New(dev Drawer) (*Screen, error) {

	face, err := DefaultFace()

	if err != nil {
		return nil, err
	}

	return NewWithFace(dev, face), nil
}

// NewWithFace returns a Screen drawing with face
func NewWithFace(dev Drawer, face font.Face) *Screen {
	return &Screen{
		dev:  dev,
		buf:  image1bit.NewVerticalLSB(dev.Bounds()),
		face: face,
	}
}

// Clear blanks the frame buffer
func (s *Screen) Clear() {
	clear(s.buf.Pix)
}

// DrawText draws text into the frame buffer with the top of the first line at
// origin.  Lines are split on newlines and anything outside the panel is
// clipped.
func (s *Screen) DrawText(text string, origin image.Point) {

	m := s.face.Metrics()

	d := font.Drawer{
		Dst:  s.buf,
		Src:  image.NewUniform(image1bit.On),
		Face: s.face,
	}

	y := fixed.I(origin.Y) + m.Ascent

	for _, line := range strings.Split(text, "\n") {
		d.Dot = fixed.Point26_6{X: fixed.I(origin.X), Y: y}
		d.DrawString(line)
		y += m.Height
	}
}

// Flush sends the frame buffer to the panel
func (s *Screen) Flush() error {

	if err := s.dev.Draw(s.dev.Bounds(), s.buf, image.Point{}); err != nil {
		return fmt.Errorf("flush display: %w", err)
	}

	return nil
}

// ShowText replaces the panel contents with text
func (s *Screen) ShowText(text string) error {
	s.Clear()
	s.DrawText(text, image.Point{})
	return s.Flush()
}
