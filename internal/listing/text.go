package listing

import (
	"strings"

	"github.com/tidwall/gjson"
)

// TextSeparator joins the labelled segments of a composed description.
const TextSeparator = " | "

// textField describes how one record field renders into the description.
type textField struct {
	name    string
	label   string
	prefix  string
	suffix  string
	exclude []string // values that suppress the segment
}

// textFields is the fixed rendering order.
var textFields = []textField{
	{name: "title", label: "Title"},
	{name: "address", label: "Address"},
	{name: "bhk", label: "Type"},
	{name: "propertyType", label: "Property Type", exclude: []string{"All"}},
	{name: "rent", label: "Rent", prefix: "₹"},
	{name: "area", label: "Area", suffix: " sq ft"},
	{name: "furnishing", label: "Furnishing"},
	{name: "_area", label: "Location"},
	{name: "_zone", label: "Zone"},
	{name: "deposit", label: "Deposit", prefix: "₹"},
	{name: "preferredTenants", label: "Preferred", exclude: []string{"All", "Get Owner Details"}},
	{name: "maintenance", label: "Maintenance", exclude: []string{"No Extra Maintenance"}},
}

// ComposeText renders a record into the description used for embedding,
// e.g. "Title: 2 BHK Flat | Rent: ₹15000 | Furnishing: Semi-Furnished".
// Absent, empty, zero and excluded values are left out.
func ComposeText(rec Record) string {
	parts := make([]string, 0, len(textFields))
	for _, f := range textFields {
		v := rec.Get(f.name)
		if !present(v) {
			continue
		}
		text := render(v)
		if f.excludes(text) {
			continue
		}
		parts = append(parts, f.label+": "+f.prefix+text+f.suffix)
	}
	return strings.Join(parts, TextSeparator)
}

func (f textField) excludes(text string) bool {
	for _, x := range f.exclude {
		if text == x {
			return true
		}
	}
	return false
}

// present reports whether a value counts as set: missing, null, false, "",
// 0 and empty containers do not.
func present(v gjson.Result) bool {
	switch v.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.String:
		return v.Str != ""
	case gjson.Number:
		return v.Num != 0
	case gjson.JSON:
		empty := true
		v.ForEach(func(_, _ gjson.Result) bool {
			empty = false
			return false
		})
		return !empty
	}
	return true
}

// render returns the display text of a value. Numbers keep their literal form.
func render(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Number, gjson.JSON:
		return v.Raw
	}
	return v.String()
}
