package visio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatGrid(t *testing.T) {
	d := Distances{
		1, 22, 333, 4444,
		5, 66, 777, 8190,
		0, 0, 0, 0,
		1300, 1300, 1300, 1300,
	}

	want := "1  22  333  4444\n" +
		"5  66  777  8190\n" +
		"0  0  0  0\n" +
		"1300  1300  1300  1300"

	assert.Equal(t, want, FormatGrid(d))
}
