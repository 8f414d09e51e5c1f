package osm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildQuery(t *testing.T) {
	taxonomy := Taxonomy{
		{Key: "amenity", Values: []string{"hospital", "cafe"}},
		{Key: "railway", Values: []string{"station"}},
	}

	query := BuildQuery("Mumbai", taxonomy)

	expected := "[out:json][timeout:180];\n" +
		"area[\"name\"=\"Mumbai\"]->.a;\n" +
		"(\n" +
		"  node[\"amenity\"=\"hospital\"](area.a);\n" +
		"  node[\"amenity\"=\"cafe\"](area.a);\n" +
		"  node[\"railway\"=\"station\"](area.a);\n" +
		");\nout center;"
	assert.Equal(t, expected, query)
}

func TestBuildQuery_DefaultTaxonomy(t *testing.T) {
	taxonomy := DefaultTaxonomy()
	query := BuildQuery("Pune", taxonomy)

	total := 0
	for _, g := range taxonomy {
		total += len(g.Values)
	}
	assert.Equal(t, 40, total)
	assert.Equal(t, total, strings.Count(query, "(area.a);"), "One clause per taxonomy value")
	assert.Contains(t, query, `node["aeroway"="aerodrome"](area.a);`)
	assert.Less(t,
		strings.Index(query, `"amenity"="hospital"`),
		strings.Index(query, `"shop"="supermarket"`),
		"Groups keep taxonomy order")
}
