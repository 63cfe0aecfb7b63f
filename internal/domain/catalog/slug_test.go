package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Mechanical Keyboard", "mechanical-keyboard"},
		{"punctuation collapses", "USB-C Hub (7-in-1)", "usb-c-hub-7-in-1"},
		{"diacritics stripped", "Café Crème", "cafe-creme"},
		{"repeated separators", "a  --  b", "a-b"},
		{"leading and trailing junk", "  !Keyboard!  ", "keyboard"},
		{"numbers kept", "Model 3000X", "model-3000x"},
		{"empty", "", ""},
		{"only symbols", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}
