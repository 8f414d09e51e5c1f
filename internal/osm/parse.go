package osm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Tag is one OSM tag.
type Tag struct {
	Key   string
	Value string
}

// POI is a flattened Overpass element.
type POI struct {
	ID       int64
	Lat      *float64 // nil when the element has no coordinates
	Lon      *float64
	Name     string // "" when untagged
	Category string // tag key of the first taxonomy match, "" when none
	Tags     []Tag  // document order
}

// TagsJSON renders the tags as a compact JSON object in document order.
// Non-ASCII text and HTML characters are written as-is.
func (p POI) TagsJSON() string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')
	for i, t := range p.Tags {
		if i > 0 {
			buf.WriteByte(',')
		}
		// Strings always encode; Encode appends a newline after each value.
		_ = enc.Encode(t.Key)
		buf.Truncate(buf.Len() - 1)
		buf.WriteByte(':')
		_ = enc.Encode(t.Value)
		buf.Truncate(buf.Len() - 1)
	}
	buf.WriteByte('}')
	return buf.String()
}

// ParseElements flattens the elements array of an Overpass JSON response.
// Elements without their own coordinates use their center.
func ParseElements(body []byte, taxonomy Taxonomy) ([]POI, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedResponse)
	}
	elements := gjson.GetBytes(body, "elements")
	if !elements.IsArray() {
		return nil, fmt.Errorf("%w: missing elements array", ErrMalformedResponse)
	}

	values := taxonomy.valueSet()
	var pois []POI
	elements.ForEach(func(_, el gjson.Result) bool {
		pois = append(pois, parseElement(el, values))
		return true
	})
	return pois, nil
}

func parseElement(el gjson.Result, values map[string]struct{}) POI {
	poi := POI{
		ID:  el.Get("id").Int(),
		Lat: coordinate(el, "lat"),
		Lon: coordinate(el, "lon"),
	}

	tags := el.Get("tags")
	if !tags.IsObject() {
		return poi
	}
	tags.ForEach(func(key, value gjson.Result) bool {
		tag := Tag{Key: key.String(), Value: value.String()}
		poi.Tags = append(poi.Tags, tag)

		if tag.Key == "name" && poi.Name == "" {
			poi.Name = tag.Value
		}
		if _, ok := values[tag.Value]; ok && poi.Category == "" {
			poi.Category = tag.Key
		}
		return true
	})

	return poi
}

func coordinate(el gjson.Result, field string) *float64 {
	v := el.Get(field)
	if !v.Exists() {
		v = el.Get("center." + field)
	}
	if v.Type != gjson.Number {
		return nil
	}
	f := v.Num
	return &f
}
