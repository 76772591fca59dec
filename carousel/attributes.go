// Package carousel holds the story carousel block: its attribute schema, the
// pipeline that fetches and enriches content items, and the renderers that
// turn both into markup.
package carousel

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Image size presets.
const (
	PresetThumbnail = "thumbnail"
	PresetMedium    = "medium"
	PresetLarge     = "large"
	PresetFull      = "full"
	PresetCustom    = "custom"
)

// Box holds per-side pixel values.
type Box struct {
	Top    int
	Right  int
	Bottom int
	Left   int
}

// Config is the resolved attribute set of one block instance. Every field
// satisfies its declared range once it comes out of Resolve.
type Config struct {
	PostCount      int
	ContentType    string
	CategoryFilter string

	TitleFontSize   int
	TitleFontFamily string
	TitleColor      string
	TitleLineHeight float64

	DescriptionMaxChars int
	DescriptionFontSize int
	DescriptionColor    string

	Padding Box
	Margin  Box

	ImageSizePreset   string
	CustomImageWidth  int
	CustomImageHeight int

	CardGap int
}

// QueryKey identifies the attributes that change which items are fetched.
// Two configs with equal keys render the same item list.
type QueryKey struct {
	PostCount      int
	ContentType    string
	CategoryFilter string
}

// QueryKey returns the fetch-relevant subset of c.
func (c Config) QueryKey() QueryKey {
	return QueryKey{PostCount: c.PostCount, ContentType: c.ContentType, CategoryFilter: c.CategoryFilter}
}

// Kind is the value type of a field.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindText
	KindColor
	KindEnum
	KindContentType
	KindCategory
)

// Field describes one configurable attribute.
type Field struct {
	Key     string
	Aliases []string // names used by earlier versions of the block
	Kind    Kind
	Min     float64
	Max     float64
	Step    float64
	Default interface{}
	Options []string
	Panel   string
	Label   string

	ptr func(*Config) interface{}
}

// Fields is the attribute schema, in editor order.
var Fields = []Field{
	{Key: "postCount", Aliases: []string{"numberOfPosts"}, Kind: KindInt, Min: 1, Max: 20, Step: 1, Default: 7,
		Panel: "Post Settings", Label: "Number of Posts", ptr: func(c *Config) interface{} { return &c.PostCount }},
	{Key: "contentType", Aliases: []string{"postType"}, Kind: KindContentType, Default: "post",
		Panel: "Post Settings", Label: "Post Type", ptr: func(c *Config) interface{} { return &c.ContentType }},
	{Key: "categoryFilter", Aliases: []string{"category"}, Kind: KindCategory, Default: "",
		Panel: "Post Settings", Label: "Category (id or slug, empty for all)", ptr: func(c *Config) interface{} { return &c.CategoryFilter }},
	{Key: "imageSizePreset", Aliases: []string{"imageSize"}, Kind: KindEnum, Default: PresetLarge,
		Options: []string{PresetThumbnail, PresetMedium, PresetLarge, PresetFull, PresetCustom},
		Panel:   "Post Settings", Label: "Image Size", ptr: func(c *Config) interface{} { return &c.ImageSizePreset }},
	{Key: "customImageWidthPx", Aliases: []string{"customImageWidth"}, Kind: KindInt, Min: 1, Max: 2000, Step: 1, Default: 175,
		Panel: "Post Settings", Label: "Custom Image Width (px)", ptr: func(c *Config) interface{} { return &c.CustomImageWidth }},
	{Key: "customImageHeightPx", Aliases: []string{"customImageHeight"}, Kind: KindInt, Min: 1, Max: 2000, Step: 1, Default: 350,
		Panel: "Post Settings", Label: "Custom Image Height (px)", ptr: func(c *Config) interface{} { return &c.CustomImageHeight }},

	{Key: "titleFontSizePx", Aliases: []string{"fontSize"}, Kind: KindInt, Min: 10, Max: 50, Step: 1, Default: 14,
		Panel: "Title Settings", Label: "Title Font Size", ptr: func(c *Config) interface{} { return &c.TitleFontSize }},
	{Key: "titleFontFamily", Aliases: []string{"fontFamily"}, Kind: KindText, Default: "Arial",
		Panel: "Title Settings", Label: "Title Font Family", ptr: func(c *Config) interface{} { return &c.TitleFontFamily }},
	{Key: "titleColor", Aliases: []string{"fontColor"}, Kind: KindColor, Default: "#ffffff",
		Panel: "Title Settings", Label: "Title Font Color", ptr: func(c *Config) interface{} { return &c.TitleColor }},
	{Key: "titleLineHeight", Aliases: []string{"lineHeight"}, Kind: KindFloat, Min: 0, Max: 2, Step: 0.1, Default: 1.0,
		Panel: "Title Settings", Label: "Title Line Height", ptr: func(c *Config) interface{} { return &c.TitleLineHeight }},

	{Key: "descriptionFontSizePx", Aliases: []string{"descriptionFontSize"}, Kind: KindInt, Min: 10, Max: 50, Step: 1, Default: 12,
		Panel: "Subtitle Settings", Label: "Subtitle Font Size", ptr: func(c *Config) interface{} { return &c.DescriptionFontSize }},
	{Key: "descriptionColor", Aliases: []string{"descriptionFontColor"}, Kind: KindColor, Default: "#ffffff",
		Panel: "Subtitle Settings", Label: "Subtitle Font Color", ptr: func(c *Config) interface{} { return &c.DescriptionColor }},
	{Key: "descriptionMaxChars", Aliases: []string{"subtitleLength"}, Kind: KindInt, Min: 10, Max: 300, Step: 1, Default: 50,
		Panel: "Subtitle Settings", Label: "Subtitle Length", ptr: func(c *Config) interface{} { return &c.DescriptionMaxChars }},

	boxField("paddingTop", "Padding Top", func(c *Config) *int { return &c.Padding.Top }),
	boxField("paddingRight", "Padding Right", func(c *Config) *int { return &c.Padding.Right }),
	boxField("paddingBottom", "Padding Bottom", func(c *Config) *int { return &c.Padding.Bottom }),
	boxField("paddingLeft", "Padding Left", func(c *Config) *int { return &c.Padding.Left }),
	boxField("marginTop", "Margin Top", func(c *Config) *int { return &c.Margin.Top }),
	boxField("marginRight", "Margin Right", func(c *Config) *int { return &c.Margin.Right }),
	boxField("marginBottom", "Margin Bottom", func(c *Config) *int { return &c.Margin.Bottom }),
	boxField("marginLeft", "Margin Left", func(c *Config) *int { return &c.Margin.Left }),
	{Key: "cardGapPx", Aliases: []string{"cardSpace"}, Kind: KindInt, Min: 0, Max: 50, Step: 1, Default: 5,
		Panel: "Spacing Settings", Label: "Card Space", ptr: func(c *Config) interface{} { return &c.CardGap }},
}

func boxField(key, label string, p func(*Config) *int) Field {
	return Field{Key: key, Kind: KindInt, Min: 0, Max: 100, Step: 1, Default: 10,
		Panel: "Spacing Settings", Label: label, ptr: func(c *Config) interface{} { return p(c) }}
}

// FieldByKey returns the field with the given canonical key.
func FieldByKey(key string) (Field, bool) {
	for _, f := range Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Defaults returns the configuration of a freshly inserted block.
func Defaults() Config {
	return Resolve(nil)
}

// Resolve turns raw stored attributes into a Config. Missing or malformed
// values take the field default; numbers outside a field's range are clamped.
// Canonical keys win over legacy aliases. Resolve never fails.
func Resolve(raw map[string]interface{}) Config {
	var c Config
	for _, f := range Fields {
		v, present := lookup(raw, f)
		switch p := f.ptr(&c).(type) {
		case *int:
			*p = f.intValue(v, present)
		case *float64:
			*p = f.floatValue(v, present)
		case *string:
			*p = f.stringValue(v, present)
		}
	}
	return c
}

// fieldFor returns the field whose canonical key or alias is name.
func fieldFor(name string) (Field, bool) {
	for _, f := range Fields {
		if f.Key == name {
			return f, true
		}
		for _, a := range f.Aliases {
			if a == name {
				return f, true
			}
		}
	}
	return Field{}, false
}

// Merge applies update on top of base and returns a new map. A key in update
// replaces every name of its field in base, so a legacy name sent by an old
// client still overrides a stored canonical value.
func Merge(base, update map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(base)+len(update))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range update {
		if f, ok := fieldFor(k); ok {
			delete(out, f.Key)
			for _, a := range f.Aliases {
				delete(out, a)
			}
		}
		out[k] = v
	}
	return out
}

// Attributes returns c as a raw attribute map under canonical keys. Resolve
// of the result returns c.
func (c Config) Attributes() map[string]interface{} {
	out := make(map[string]interface{}, len(Fields))
	for _, f := range Fields {
		switch p := f.ptr(&c).(type) {
		case *int:
			out[f.Key] = *p
		case *float64:
			out[f.Key] = *p
		case *string:
			out[f.Key] = *p
		}
	}
	return out
}

// Value returns the current value of the field in c.
func (f Field) Value(c Config) interface{} {
	switch p := f.ptr(&c).(type) {
	case *int:
		return *p
	case *float64:
		return *p
	case *string:
		return *p
	}
	return nil
}

func lookup(raw map[string]interface{}, f Field) (interface{}, bool) {
	if raw == nil {
		return nil, false
	}
	if v, ok := raw[f.Key]; ok {
		return v, true
	}
	for _, a := range f.Aliases {
		if v, ok := raw[a]; ok {
			return v, true
		}
	}
	return nil, false
}

func (f Field) intValue(v interface{}, present bool) int {
	def := f.Default.(int)
	if !present {
		return def
	}
	n, ok := parseNumber(v)
	if !ok {
		return def
	}
	return int(math.Round(clamp(n, f.Min, f.Max)))
}

func (f Field) floatValue(v interface{}, present bool) float64 {
	def := f.Default.(float64)
	if !present {
		return def
	}
	n, ok := parseNumber(v)
	if !ok {
		return def
	}
	return clamp(n, f.Min, f.Max)
}

func (f Field) stringValue(v interface{}, present bool) string {
	def := f.Default.(string)
	if !present {
		return def
	}
	switch f.Kind {
	case KindColor:
		if s, ok := v.(string); ok {
			if c, ok := SanitizeHexColor(s); ok {
				return c
			}
		}
	case KindEnum:
		if s, ok := v.(string); ok {
			s = strings.ToLower(strings.TrimSpace(s))
			for _, o := range f.Options {
				if s == o {
					return s
				}
			}
		}
	case KindContentType:
		if s, ok := v.(string); ok {
			if t, ok := sanitizeContentType(s); ok {
				return t
			}
		}
	case KindCategory:
		if s, ok := categoryString(v); ok {
			return s
		}
	case KindText:
		if s, ok := v.(string); ok {
			if s = sanitizeFontFamily(s); s != "" {
				return s
			}
		}
	}
	return def
}

// parseNumber accepts JSON numbers, Go integers, and numeric strings with an
// optional "px" suffix.
func parseNumber(v interface{}) (float64, bool) {
	var n float64
	switch x := v.(type) {
	case float64:
		n = x
	case float32:
		n = float64(x)
	case int:
		n = float64(x)
	case int64:
		n = float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(x), "px"))
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// SanitizeHexColor returns s as a lowercase #rrggbb color. Short #rgb
// colors are expanded, since color inputs only accept the long form.
func SanitizeHexColor(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if !hexColor.MatchString(s) {
		return "", false
	}
	s = strings.ToLower(s)
	if len(s) == 4 {
		s = string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
	}
	return s, true
}

var contentTypeName = regexp.MustCompile(`^[a-z0-9_-]{1,32}$`)

// REST bases stored by earlier versions in place of the type name.
var legacyContentTypes = map[string]string{"posts": "post", "pages": "page"}

func sanitizeContentType(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if t, ok := legacyContentTypes[s]; ok {
		s = t
	}
	if !contentTypeName.MatchString(s) {
		return "", false
	}
	return s, true
}

var categoryValue = regexp.MustCompile(`^[A-Za-z0-9_-]{0,200}$`)

func categoryString(v interface{}) (string, bool) {
	var s string
	switch x := v.(type) {
	case string:
		s = strings.TrimSpace(x)
	case float64:
		if x < 0 || x != math.Trunc(x) || math.IsInf(x, 0) {
			return "", false
		}
		s = strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		if x < 0 {
			return "", false
		}
		s = strconv.Itoa(x)
	case json.Number:
		s = x.String()
	default:
		return "", false
	}
	if !categoryValue.MatchString(s) {
		return "", false
	}
	return s, true
}

const maxFontFamilyLen = 100

// sanitizeFontFamily keeps the characters a font-family list needs and drops
// anything that could end the declaration.
func sanitizeFontFamily(s string) string {
	var b strings.Builder
	n := 0
	for _, r := range s {
		if n == maxFontFamilyLen {
			break
		}
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == ' ', r == ',', r == '-', r == '_', r == '\'', r == '"', r == '.':
			b.WriteRune(r)
			n++
		}
	}
	return strings.TrimSpace(b.String())
}
