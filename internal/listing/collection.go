package listing

import (
	"bytes"
	"fmt"
	"os"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// prettyOptions matches the on-disk layout: two-space indent, one element
// per line, keys in their original order.
var prettyOptions = &pretty.Options{Width: 0, Indent: "  "}

// Collection is the ordered list of values stored in one listings file.
// Elements that are not JSON objects are kept as-is.
type Collection struct {
	items [][]byte
}

// Decode parses a listings file. The top-level value must be an array.
func Decode(data []byte) (*Collection, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: got %s", ErrNotArray, kindOf(root))
	}

	c := &Collection{}
	root.ForEach(func(_, value gjson.Result) bool {
		c.items = append(c.items, []byte(value.Raw))
		return true
	})
	return c, nil
}

// Len returns the number of elements, records or not.
func (c *Collection) Len() int {
	return len(c.items)
}

// Record returns element i as a Record. ok is false if the element is not an object.
func (c *Collection) Record(i int) (rec Record, ok bool) {
	raw := c.items[i]
	if !gjson.ParseBytes(raw).IsObject() {
		return Record{}, false
	}
	return Record{raw: raw}, true
}

// SetRecord replaces element i.
func (c *Collection) SetRecord(i int, rec Record) {
	c.items[i] = rec.raw
}

// Encode renders the collection in its on-disk form. Non-ASCII characters
// are written as UTF-8 even when the input escaped them.
func (c *Collection) Encode() []byte {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, item := range c.items {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(unescapeNonASCII(item))
	}
	buf.WriteByte(']')
	return pretty.PrettyOptions(buf.Bytes(), prettyOptions)
}

// LoadFile reads and decodes a listings file.
func LoadFile(path string) (*Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	c, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return c, nil
}

// SaveFile overwrites path with the encoded collection. The write is not
// atomic; an interrupted write can leave a truncated file.
func SaveFile(path string, c *Collection) error {
	if err := os.WriteFile(path, c.Encode(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
