package carousel

import (
	"fmt"
	"strconv"

	"github.com/eringen/storycarousel/markup"
)

// Navigation constants shared with the client script through data attributes.
const (
	ScrollStep     = 300
	DragMultiplier = 3
)

// Class names of the rendered carousel. The client script and stylesheet
// depend on them.
const (
	ClassCarousel    = "sc-carousel"
	ClassTrack       = "sc-track"
	ClassCard        = "sc-card"
	ClassCardInfo    = "sc-card-info"
	ClassAvatar      = "sc-avatar"
	ClassTitle       = "sc-title"
	ClassDescription = "sc-description"
	ClassArrow       = "sc-arrow"
	ClassPrev        = "sc-prev"
	ClassNext        = "sc-next"
	ClassEmpty       = "sc-empty"
	ClassLoading     = "sc-loading"
)

// EmptyMessage is shown in place of the card row when there are no items.
const EmptyMessage = "No posts available."

// ContainerStyle is the outer wrapper's padding and margin.
func ContainerStyle(c Config) markup.Style {
	return markup.Style{}.
		Add("padding", box(c.Padding)).
		Add("margin", box(c.Margin))
}

// CardStyle is a card's background and fixed size.
func CardStyle(c Config, d Dimensions, imageURL string) markup.Style {
	return markup.Style{}.
		Add("background-image", markup.CSSURL(imageURL)).
		Px("width", d.Width).
		Px("height", d.Height).
		Px("min-width", d.Width).
		Px("min-height", d.Height).
		Px("margin", c.CardGap)
}

// TitleStyle is the title text style.
func TitleStyle(c Config) markup.Style {
	return markup.Style{}.
		Px("font-size", c.TitleFontSize).
		Add("font-family", c.TitleFontFamily).
		Add("color", c.TitleColor).
		Add("line-height", FormatLineHeight(c.TitleLineHeight))
}

// DescriptionStyle is the description text style. It shares the title's
// family and line height.
func DescriptionStyle(c Config) markup.Style {
	return markup.Style{}.
		Px("font-size", c.DescriptionFontSize).
		Add("font-family", c.TitleFontFamily).
		Add("color", c.DescriptionColor).
		Add("line-height", FormatLineHeight(c.TitleLineHeight))
}

// FormatLineHeight prints a unitless line height without trailing zeros.
func FormatLineHeight(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func box(b Box) string {
	return fmt.Sprintf("%dpx %dpx %dpx %dpx", b.Top, b.Right, b.Bottom, b.Left)
}
