package carousel

import "testing"

func TestResolveDimensions(t *testing.T) {
	reg := PresetMap{
		PresetMedium: {Width: 300, Height: 300},
		PresetLarge:  {Width: 1024, Height: 0},
		"odd":        {Width: 1, Height: 1},
	}
	tests := []struct {
		name   string
		preset string
		want   Dimensions
	}{
		{"custom ignores registry", PresetCustom, Dimensions{200, 400}},
		{"named preset", PresetMedium, Dimensions{300, 300}},
		{"unbounded side uses custom", PresetLarge, Dimensions{1024, 400}},
		{"unregistered preset uses custom", PresetFull, Dimensions{200, 400}},
	}
	for _, tt := range tests {
		c := Defaults()
		c.ImageSizePreset = tt.preset
		c.CustomImageWidth = 200
		c.CustomImageHeight = 400
		if got := ResolveDimensions(c, reg); got != tt.want {
			t.Errorf("%s: got %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestResolveDimensionsNilRegistry(t *testing.T) {
	c := Defaults()
	if got := ResolveDimensions(c, nil); got != (Dimensions{175, 350}) {
		t.Errorf("got %+v", got)
	}
}
