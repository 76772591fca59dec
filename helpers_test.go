package storycarousel

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hello World", "hello-world"},
		{"  Go & Echo!  ", "go-echo"},
		{"already-slugged", "already-slugged"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildAndAssetURL(t *testing.T) {
	if got := BuildURL("https://site.test", "blocks", "abc"); got != "https://site.test/blocks/abc/" {
		t.Errorf("BuildURL = %q", got)
	}
	if got := AssetURL("https://site.test/", "/public/img/default-story.jpg"); got != "https://site.test/public/img/default-story.jpg" {
		t.Errorf("AssetURL = %q", got)
	}
	if got := UploadURL("/", "cat.jpg"); got != "/public/uploads/cat.jpg" {
		t.Errorf("UploadURL = %q", got)
	}
}

func TestParseID(t *testing.T) {
	tests := map[string]int64{"12": 12, " 7 ": 7, "-3": 0, "x": 0, "": 0}
	for in, want := range tests {
		if got := ParseID(in); got != want {
			t.Errorf("ParseID(%q) = %d, want %d", in, got, want)
		}
	}
}
