package osm

import (
	"fmt"
	"strings"
)

// QueryTimeout is the server-side timeout, in seconds, embedded in queries.
const QueryTimeout = 180

// BuildQuery returns an Overpass QL query selecting every node inside the
// area named city that matches one of the taxonomy's key/value pairs.
func BuildQuery(city string, taxonomy Taxonomy) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[out:json][timeout:%d];\n", QueryTimeout)
	fmt.Fprintf(&b, "area[\"name\"=%q]->.a;\n", city)
	b.WriteString("(\n")
	for _, g := range taxonomy {
		for _, v := range g.Values {
			fmt.Fprintf(&b, "  node[%q=%q](area.a);\n", g.Key, v)
		}
	}
	b.WriteString(");\nout center;")
	return b.String()
}
