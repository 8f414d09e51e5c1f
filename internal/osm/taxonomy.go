// Package osm fetches points of interest from an Overpass API endpoint and
// flattens them into CSV rows.
package osm

// CategoryGroup is one OSM tag key and the values queried under it.
type CategoryGroup struct {
	Key    string
	Values []string
}

// Taxonomy is an ordered list of category groups. Order determines the
// order of clauses in the generated query.
type Taxonomy []CategoryGroup

// DefaultTaxonomy returns the POI categories relevant to a rental search:
// health, education, transit, food, leisure and everyday services.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		{Key: "amenity", Values: []string{
			"hospital", "clinic", "doctors", "dentist", "pharmacy",
			"school", "college", "university", "kindergarten", "library",
			"bus_station", "taxi", "parking", "bicycle_parking", "fuel",
			"restaurant", "fast_food", "cafe", "bar", "pub",
			"cinema", "theatre", "bank", "atm", "post_office", "police", "fire_station",
		}},
		{Key: "shop", Values: []string{"supermarket", "convenience", "mall", "department_store"}},
		{Key: "leisure", Values: []string{"park", "sports_centre", "gym", "swimming_pool", "stadium"}},
		{Key: "railway", Values: []string{"station", "subway_entrance", "tram_stop"}},
		{Key: "aeroway", Values: []string{"aerodrome"}},
	}
}

// valueSet returns every value of every group, regardless of key.
func (t Taxonomy) valueSet() map[string]struct{} {
	set := make(map[string]struct{})
	for _, g := range t {
		for _, v := range g.Values {
			set[v] = struct{}{}
		}
	}
	return set
}
