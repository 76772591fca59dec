package carousel

// Dimensions is a width/height pair in pixels. Zero means unbounded.
type Dimensions struct {
	Width  int
	Height int
}

// PresetRegistry resolves named image sizes.
type PresetRegistry interface {
	Preset(name string) (Dimensions, bool)
}

// PresetMap is a fixed PresetRegistry.
type PresetMap map[string]Dimensions

// Preset implements PresetRegistry.
func (m PresetMap) Preset(name string) (Dimensions, bool) {
	d, ok := m[name]
	return d, ok
}

// DefaultPresets are the stock sizes of a fresh site. "full" is the original
// upload and has no fixed size.
var DefaultPresets = PresetMap{
	PresetThumbnail: {Width: 150, Height: 150},
	PresetMedium:    {Width: 300, Height: 300},
	PresetLarge:     {Width: 1024, Height: 1024},
}

// ResolveDimensions returns the card size for c. The custom preset uses the
// custom fields. Named presets come from reg; a preset that is unknown, or a
// side the registry leaves unbounded, falls back to the custom value.
func ResolveDimensions(c Config, reg PresetRegistry) Dimensions {
	custom := Dimensions{Width: c.CustomImageWidth, Height: c.CustomImageHeight}
	if c.ImageSizePreset == PresetCustom || reg == nil {
		return custom
	}
	d, ok := reg.Preset(c.ImageSizePreset)
	if !ok {
		return custom
	}
	if d.Width <= 0 {
		d.Width = custom.Width
	}
	if d.Height <= 0 {
		d.Height = custom.Height
	}
	return d
}
