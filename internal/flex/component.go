// Package flex renders questions and results as LINE flex bubbles.
package flex

import "github.com/abhisek/wealthnav/internal/line"

// Component is a flex box, text, spacer, or separator. Zero fields are
// omitted from the JSON.
type Component struct {
	Type            string       `json:"type"`
	Layout          string       `json:"layout,omitempty"`
	Contents        []Component  `json:"contents,omitempty"`
	Text            string       `json:"text,omitempty"`
	Size            string       `json:"size,omitempty"`
	Color           string       `json:"color,omitempty"`
	Align           string       `json:"align,omitempty"`
	Weight          string       `json:"weight,omitempty"`
	Wrap            bool         `json:"wrap,omitempty"`
	Spacing         string       `json:"spacing,omitempty"`
	BackgroundColor string       `json:"backgroundColor,omitempty"`
	CornerRadius    string       `json:"cornerRadius,omitempty"`
	PaddingAll      string       `json:"paddingAll,omitempty"`
	BorderColor     string       `json:"borderColor,omitempty"`
	BorderWidth     string       `json:"borderWidth,omitempty"`
	Action          *line.Action `json:"action,omitempty"`
}

// Bubble is the top-level container.
type Bubble struct {
	Type string    `json:"type"`
	Size string    `json:"size"`
	Body Component `json:"body"`
}

const (
	colorText    = "#333333"
	colorMuted   = "#666666"
	colorBorder  = "#DDDDDD"
	colorGreen   = "#06C755"
	colorCanvas  = "#F5F5F5"
	colorSurface = "#FFFFFF"
)

func vbox(children ...Component) Component {
	return Component{Type: "box", Layout: "vertical", Contents: children}
}

func text(s, size, color string) Component {
	return Component{Type: "text", Text: s, Size: size, Color: color}
}

func spacer(size string) Component {
	return Component{Type: "spacer", Size: size}
}

func (c Component) bold() Component {
	c.Weight = "bold"
	return c
}

func (c Component) wrap() Component {
	c.Wrap = true
	return c
}

func (c Component) centre() Component {
	c.Align = "center"
	return c
}

// tappable sends msg as the user when the component is tapped.
func (c Component) tappable(msg string) Component {
	c.Action = &line.Action{Type: "message", Text: msg}
	return c
}

func bubble(contents ...Component) Bubble {
	body := vbox(contents...)
	body.BackgroundColor = colorCanvas
	body.PaddingAll = "xl"
	return Bubble{Type: "bubble", Size: "giga", Body: body}
}
