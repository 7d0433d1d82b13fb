package display

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// panel keeps a copy of the last frame flushed to it
type panel struct {
	frame []byte
	draws int
	err   error
}

func (p *panel) Bounds() image.Rectangle {
	return image.Rect(0, 0, 128, 64)
}

func (p *panel) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	if p.err != nil {
		return p.err
	}
	p.draws++
	p.frame = append([]byte(nil), src.(*image1bit.VerticalLSB).Pix...)
	return nil
}

func lit(frame []byte) int {
	n := 0
	for _, b := range frame {
		for ; b != 0; b &= b - 1 {
			n++
		}
	}
	return n
}

func TestShowText(t *testing.T) {
	p := &panel{}
	s, err := New(p)
	require.NoError(t, err)

	require.NoError(t, s.ShowText("1300  1300  1300  1300"))
	assert.Equal(t, 1, p.draws)
	assert.Greater(t, lit(p.frame), 0)

	// 128x64 panel, one byte per 8 vertical pixels
	assert.Len(t, p.frame, 128*64/8)
}

func TestShowTextReplacesContents(t *testing.T) {
	p := &panel{}
	s, err := New(p)
	require.NoError(t, err)

	require.NoError(t, s.ShowText("1\n2\n3\n4"))
	grid := lit(p.frame)

	require.NoError(t, s.ShowText("1"))
	assert.Less(t, lit(p.frame), grid)

	s.Clear()
	require.NoError(t, s.Flush())
	assert.Equal(t, 0, lit(p.frame))
}

func TestDrawTextLinesStackDownwards(t *testing.T) {
	p := &panel{}
	s, err := New(p)
	require.NoError(t, err)

	s.DrawText("\n\n\n8888", image.Point{})
	require.NoError(t, s.Flush())

	// nothing in the top two pages, the fourth line sits lower down
	assert.Equal(t, 0, lit(p.frame[:2*128]))
	assert.Greater(t, lit(p.frame[2*128:]), 0)
}

func TestFlushError(t *testing.T) {
	p := &panel{err: errors.New("nack")}
	s, err := New(p)
	require.NoError(t, err)

	require.ErrorIs(t, s.ShowText("Ready!"), p.err)
}
