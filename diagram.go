package movetree

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/exp/maps"
)

// ShapeColor is one of the four colors used for diagram annotations.
type ShapeColor byte

const (
	Red    ShapeColor = 'R'
	Green  ShapeColor = 'G'
	Blue   ShapeColor = 'B'
	Yellow ShapeColor = 'Y'
)

func (c ShapeColor) valid() bool {
	switch c {
	case Red, Green, Blue, Yellow:
		return true
	}
	return false
}

// A Shape is a colored field or, when To is set, a colored arrow.
type Shape struct {
	Color ShapeColor
	From  Square
	To    Square
}

// Field returns a colored square.
func Field(c ShapeColor, sq Square) Shape {
	return Shape{Color: c, From: sq, To: NoSquare}
}

// Arrow returns a colored arrow.
func Arrow(c ShapeColor, from, to Square) Shape {
	return Shape{Color: c, From: from, To: to}
}

// IsArrow reports whether the shape is an arrow.
func (s Shape) IsArrow() bool {
	return s.To != NoSquare
}

// String returns the command form, e.g. "Ge4" or "Re2e4".
func (s Shape) String() string {
	if s.IsArrow() {
		return string(s.Color) + s.From.String() + s.To.String()
	}
	return string(s.Color) + s.From.String()
}

func parseShape(s string, arrow bool) (Shape, bool) {
	s = strings.TrimSpace(s)
	want := 3
	if arrow {
		want = 5
	}
	if len(s) != want || !ShapeColor(s[0]).valid() {
		return Shape{}, false
	}
	from := ParseSquare(s[1:3])
	if from == NoSquare {
		return Shape{}, false
	}
	if !arrow {
		return Field(ShapeColor(s[0]), from), true
	}
	to := ParseSquare(s[3:5])
	if to == NoSquare {
		return Shape{}, false
	}
	return Arrow(ShapeColor(s[0]), from, to), true
}

// normalizeShapes orders fields before arrows and drops duplicates, which
// is the order they are written in.
func normalizeShapes(shapes []Shape) []Shape {
	if len(shapes) == 0 {
		return nil
	}
	out := make([]Shape, 0, len(shapes))
	for _, arrows := range []bool{false, true} {
		for _, s := range shapes {
			if s.IsArrow() == arrows && !slices.Contains(out, s) {
				out = append(out, s)
			}
		}
	}
	return out
}

var commandPattern = regexp.MustCompile(`\[%(\w+)\s+([^\]]*)\]`)

// annotation is the content of one comment: free text plus embedded
// commands such as [%csl Ge4] or [%clk 0:10:00].
type annotation struct {
	text     string
	shapes   []Shape
	commands map[string]string
}

func parseAnnotation(raw string) annotation {
	var a annotation
	for _, m := range commandPattern.FindAllStringSubmatch(raw, -1) {
		key, value := m[1], strings.TrimSpace(m[2])
		switch key {
		case "csl", "cal":
			for _, part := range strings.Split(value, ",") {
				if s, ok := parseShape(part, key == "cal"); ok {
					a.shapes = append(a.shapes, s)
				}
			}
		default:
			if a.commands == nil {
				a.commands = make(map[string]string)
			}
			a.commands[key] = value
		}
	}
	a.text = strings.Join(strings.Fields(commandPattern.ReplaceAllString(raw, " ")), " ")
	return a
}

func (a annotation) empty() bool {
	return a.text == "" && len(a.shapes) == 0 && len(a.commands) == 0
}

// merge appends b to a, joining texts with a space.
func (a *annotation) merge(b annotation) {
	a.text = joinComments(a.text, b.text)
	a.shapes = append(a.shapes, b.shapes...)
	if len(b.commands) > 0 {
		if a.commands == nil {
			a.commands = make(map[string]string)
		}
		maps.Copy(a.commands, b.commands)
	}
}

func joinComments(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + " " + b
}

// formatAnnotation renders comment text followed by shape and other
// commands in a stable order.
func formatAnnotation(text string, shapes []Shape, commands map[string]string) string {
	var parts []string
	if text != "" {
		parts = append(parts, text)
	}
	var fields, arrows []string
	for _, s := range shapes {
		if s.IsArrow() {
			arrows = append(arrows, s.String())
		} else {
			fields = append(fields, s.String())
		}
	}
	if len(fields) > 0 {
		parts = append(parts, fmt.Sprintf("[%%csl %s]", strings.Join(fields, ",")))
	}
	if len(arrows) > 0 {
		parts = append(parts, fmt.Sprintf("[%%cal %s]", strings.Join(arrows, ",")))
	}
	for _, k := range slices.Sorted(maps.Keys(commands)) {
		parts = append(parts, fmt.Sprintf("[%%%s %s]", k, commands[k]))
	}
	return strings.Join(parts, " ")
}
