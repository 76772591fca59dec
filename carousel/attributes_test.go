package carousel

import (
	"encoding/json"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaults(t *testing.T) {
	want := Config{
		PostCount:           7,
		ContentType:         "post",
		CategoryFilter:      "",
		TitleFontSize:       14,
		TitleFontFamily:     "Arial",
		TitleColor:          "#ffffff",
		TitleLineHeight:     1,
		DescriptionMaxChars: 50,
		DescriptionFontSize: 12,
		DescriptionColor:    "#ffffff",
		Padding:             Box{10, 10, 10, 10},
		Margin:              Box{10, 10, 10, 10},
		ImageSizePreset:     PresetLarge,
		CustomImageWidth:    175,
		CustomImageHeight:   350,
		CardGap:             5,
	}
	if diff := cmp.Diff(want, Resolve(map[string]interface{}{})); diff != "" {
		t.Errorf("Resolve({}) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, Defaults()); diff != "" {
		t.Errorf("Defaults() mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveCoercesAndClamps(t *testing.T) {
	raw := map[string]interface{}{
		"postCount":             float64(50),
		"titleFontSizePx":       "18px",
		"titleLineHeight":       "1.5",
		"descriptionMaxChars":   float64(3),
		"descriptionFontSizePx": json.Number("16"),
		"paddingTop":            float64(-4),
		"marginLeft":            float64(12.6),
		"cardGapPx":             "nope",
		"titleColor":            "#ABC",
		"descriptionColor":      "red",
		"imageSizePreset":       "Custom",
		"contentType":           "Story",
		"categoryFilter":        float64(12),
	}
	c := Resolve(raw)
	checks := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"PostCount", c.PostCount, 20},
		{"TitleFontSize", c.TitleFontSize, 18},
		{"TitleLineHeight", c.TitleLineHeight, 1.5},
		{"DescriptionMaxChars", c.DescriptionMaxChars, 10},
		{"DescriptionFontSize", c.DescriptionFontSize, 16},
		{"Padding.Top", c.Padding.Top, 0},
		{"Margin.Left", c.Margin.Left, 13},
		{"CardGap", c.CardGap, 5},
		{"TitleColor", c.TitleColor, "#aabbcc"},
		{"DescriptionColor", c.DescriptionColor, "#ffffff"},
		{"ImageSizePreset", c.ImageSizePreset, PresetCustom},
		{"ContentType", c.ContentType, "story"},
		{"CategoryFilter", c.CategoryFilter, "12"},
	}
	for _, ck := range checks {
		if ck.got != ck.want {
			t.Errorf("%s = %v, want %v", ck.name, ck.got, ck.want)
		}
	}
}

func TestResolveLegacyNames(t *testing.T) {
	raw := map[string]interface{}{
		"numberOfPosts":        float64(3),
		"postType":             "posts",
		"category":             "news",
		"fontSize":             "20px",
		"fontColor":            "#000000",
		"subtitleLength":       float64(80),
		"imageSize":            "medium",
		"customImageWidth":     float64(200),
		"cardSpace":            float64(8),
		"descriptionFontColor": "#ff0000",
	}
	c := Resolve(raw)
	if c.PostCount != 3 || c.ContentType != "post" || c.CategoryFilter != "news" {
		t.Errorf("query fields = %d %q %q", c.PostCount, c.ContentType, c.CategoryFilter)
	}
	if c.TitleFontSize != 20 || c.TitleColor != "#000000" || c.DescriptionMaxChars != 80 {
		t.Errorf("title fields = %d %q %d", c.TitleFontSize, c.TitleColor, c.DescriptionMaxChars)
	}
	if c.ImageSizePreset != PresetMedium || c.CustomImageWidth != 200 || c.CardGap != 8 || c.DescriptionColor != "#ff0000" {
		t.Errorf("layout fields = %q %d %d %q", c.ImageSizePreset, c.CustomImageWidth, c.CardGap, c.DescriptionColor)
	}
}

func TestResolveCanonicalKeyWinsOverAlias(t *testing.T) {
	c := Resolve(map[string]interface{}{"numberOfPosts": float64(3), "postCount": float64(9)})
	if c.PostCount != 9 {
		t.Errorf("PostCount = %d, want 9", c.PostCount)
	}
}

func TestResolveFontFamilyDropsDeclarationBreakers(t *testing.T) {
	c := Resolve(map[string]interface{}{"titleFontFamily": `Georgia; background: url(x) }<b>`})
	if c.TitleFontFamily != "Georgia background urlx b" {
		t.Errorf("TitleFontFamily = %q", c.TitleFontFamily)
	}
	c = Resolve(map[string]interface{}{"titleFontFamily": ";;;"})
	if c.TitleFontFamily != "Arial" {
		t.Errorf("TitleFontFamily = %q, want default", c.TitleFontFamily)
	}
}

func TestAttributesRoundTrip(t *testing.T) {
	c := Defaults()
	c.PostCount = 4
	c.TitleLineHeight = 1.25
	c.CategoryFilter = "7"
	c.Margin.Bottom = 0
	b, err := json.Marshal(c.Attributes())
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(c, Resolve(raw)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveExpandsShortColors(t *testing.T) {
	c := Resolve(map[string]interface{}{
		"fontColor":            "#fff",
		"descriptionFontColor": "#0A3",
	})
	if c.TitleColor != "#ffffff" {
		t.Errorf("TitleColor = %q, want #ffffff", c.TitleColor)
	}
	if c.DescriptionColor != "#00aa33" {
		t.Errorf("DescriptionColor = %q, want #00aa33", c.DescriptionColor)
	}
	again := Resolve(c.Attributes())
	if again.TitleColor != c.TitleColor || again.DescriptionColor != c.DescriptionColor {
		t.Errorf("colors changed on round trip: %q %q", again.TitleColor, again.DescriptionColor)
	}
}

func TestSanitizeHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"#fff", "#ffffff", true},
		{" #AbC ", "#aabbcc", true},
		{"#123456", "#123456", true},
		{"#12345", "", false},
		{"fff", "", false},
		{"red", "", false},
	}
	for _, tt := range tests {
		got, ok := SanitizeHexColor(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("SanitizeHexColor(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestQueryKeyIgnoresStyle(t *testing.T) {
	a := Defaults()
	b := a
	b.TitleColor = "#000"
	b.CardGap = 20
	if a.QueryKey() != b.QueryKey() {
		t.Error("style change altered the query key")
	}
	b.CategoryFilter = "3"
	if a.QueryKey() == b.QueryKey() {
		t.Error("category change kept the query key")
	}
}

func randomValue(r *rand.Rand) interface{} {
	switch r.Intn(11) {
	case 0:
		return nil
	case 1:
		return r.NormFloat64() * 1e4
	case 2:
		return math.Inf(1)
	case 3:
		return math.NaN()
	case 4:
		return "#zzzzzz"
	case 5:
		return "12px"
	case 6:
		return true
	case 7:
		return []interface{}{1, "a"}
	case 8:
		return map[string]interface{}{"x": 1}
	case 9:
		b := make([]byte, r.Intn(20))
		r.Read(b)
		return string(b)
	default:
		return r.Intn(5000) - 2500
	}
}

func TestResolveIsTotalOverMalformedInput(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		raw := map[string]interface{}{}
		for _, f := range Fields {
			if r.Intn(3) > 0 {
				raw[f.Key] = randomValue(r)
			}
			for _, a := range f.Aliases {
				if r.Intn(4) == 0 {
					raw[a] = randomValue(r)
				}
			}
		}
		c := Resolve(raw)
		for _, f := range Fields {
			switch v := f.Value(c).(type) {
			case int:
				if float64(v) < f.Min || float64(v) > f.Max {
					t.Fatalf("%s = %d outside [%v, %v] for %v", f.Key, v, f.Min, f.Max, raw)
				}
			case float64:
				if math.IsNaN(v) || v < f.Min || v > f.Max {
					t.Fatalf("%s = %v outside [%v, %v] for %v", f.Key, v, f.Min, f.Max, raw)
				}
			case string:
				switch f.Kind {
				case KindColor:
					if _, ok := SanitizeHexColor(v); !ok || len(v) != 7 {
						t.Fatalf("%s = %q is not a #rrggbb color", f.Key, v)
					}
				case KindEnum:
					found := false
					for _, o := range f.Options {
						found = found || o == v
					}
					if !found {
						t.Fatalf("%s = %q not an option", f.Key, v)
					}
				case KindContentType:
					if !contentTypeName.MatchString(v) {
						t.Fatalf("%s = %q is not a type name", f.Key, v)
					}
				case KindCategory:
					if !categoryValue.MatchString(v) {
						t.Fatalf("%s = %q is not a category", f.Key, v)
					}
				case KindText:
					if v == "" {
						t.Fatalf("%s is empty", f.Key)
					}
				}
			}
		}
	}
}

func TestMergeLetsLegacyNameOverrideStoredCanonical(t *testing.T) {
	base := Defaults().Attributes()
	merged := Merge(base, map[string]interface{}{"fontSize": "30px", "postCount": 3})

	if _, ok := merged["titleFontSizePx"]; ok {
		t.Fatalf("canonical key should be replaced by its alias: %v", merged)
	}
	c := Resolve(merged)
	if c.TitleFontSize != 30 || c.PostCount != 3 {
		t.Fatalf("got font %d posts %d, want 30 and 3", c.TitleFontSize, c.PostCount)
	}
	if base["titleFontSizePx"] != 14 {
		t.Fatalf("Merge modified its input")
	}
}

func TestMergeKeepsUnknownKeys(t *testing.T) {
	merged := Merge(map[string]interface{}{"x-extra": true}, map[string]interface{}{"align": "wide"})
	if merged["x-extra"] != true || merged["align"] != "wide" {
		t.Fatalf("unknown keys lost: %v", merged)
	}
}
