package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRecord(t *testing.T, raw string) Record {
	t.Helper()
	rec, err := NewRecord([]byte(raw))
	require.NoError(t, err)
	return rec
}

func TestComposeText_Example(t *testing.T) {
	rec := mustRecord(t, `{"title": "2 BHK Flat", "rent": 15000, "furnishing": "Semi-Furnished"}`)

	assert.Equal(t, "Title: 2 BHK Flat | Rent: ₹15000 | Furnishing: Semi-Furnished", ComposeText(rec))
}

func TestComposeText_AllFieldsInOrder(t *testing.T) {
	// Keys deliberately out of rendering order.
	rec := mustRecord(t, `{
		"maintenance": "₹2000/month",
		"preferredTenants": "Family",
		"deposit": 50000,
		"_zone": "Western Suburbs",
		"_area": "Andheri West",
		"furnishing": "Furnished",
		"area": 650,
		"rent": 32000,
		"propertyType": "Apartment",
		"bhk": "2 BHK",
		"address": "Lokhandwala Complex",
		"title": "Spacious flat"
	}`)

	want := "Title: Spacious flat" +
		" | Address: Lokhandwala Complex" +
		" | Type: 2 BHK" +
		" | Property Type: Apartment" +
		" | Rent: ₹32000" +
		" | Area: 650 sq ft" +
		" | Furnishing: Furnished" +
		" | Location: Andheri West" +
		" | Zone: Western Suburbs" +
		" | Deposit: ₹50000" +
		" | Preferred: Family" +
		" | Maintenance: ₹2000/month"
	assert.Equal(t, want, ComposeText(rec))
}

func TestComposeText_Exclusions(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "property type All",
			raw:  `{"title": "Flat", "propertyType": "All"}`,
			want: "Title: Flat",
		},
		{
			name: "preferred tenants All",
			raw:  `{"title": "Flat", "preferredTenants": "All"}`,
			want: "Title: Flat",
		},
		{
			name: "preferred tenants owner details",
			raw:  `{"title": "Flat", "preferredTenants": "Get Owner Details"}`,
			want: "Title: Flat",
		},
		{
			name: "no extra maintenance",
			raw:  `{"title": "Flat", "maintenance": "No Extra Maintenance"}`,
			want: "Title: Flat",
		},
		{
			name: "empty and zero values",
			raw:  `{"title": "", "rent": 0, "address": null, "bhk": false, "area": [], "furnishing": {}}`,
			want: "",
		},
		{
			name: "unknown fields ignored",
			raw:  `{"primary_key": "abc", "url": "https://example.com"}`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComposeText(mustRecord(t, tt.raw)))
		})
	}
}

func TestComposeText_EmptyRecord(t *testing.T) {
	assert.Equal(t, "", ComposeText(mustRecord(t, `{}`)))
}

func TestComposeText_NumberLiteralsPreserved(t *testing.T) {
	rec := mustRecord(t, `{"rent": 15000.50, "deposit": "1,00,000", "area": 1.0}`)

	assert.Equal(t, "Rent: ₹15000.50 | Area: 1.0 sq ft | Deposit: ₹1,00,000", ComposeText(rec))
}
