package catalog

import "github.com/uptrace/bun"

// Plant is a single catalog entry. Plants are treated as immutable value
// records: stores and pipelines hand out copies, never shared pointers,
// so a Plant can cross goroutine boundaries without synchronization.
type Plant struct {
	bun.BaseModel `bun:"table:plants"`

	ID               string `json:"id" bun:"id,pk"`
	Name             string `json:"name" bun:"name,notnull"`
	Description      string `json:"description" bun:"description"`
	GrowZoneNumber   int    `json:"grow_zone_number" bun:"grow_zone_number"`
	WateringInterval int    `json:"watering_interval" bun:"watering_interval"`
	ImageURL         string `json:"image_url" bun:"image_url"`
}

// GrowZone identifies a growing zone used to scope plant queries.
// It is a comparable value type; two zones are equal when their numbers match.
type GrowZone struct {
	Number int
}

// NoGrowZone is the sentinel zone meaning "no zone filter". Queries that
// receive it behave like their unfiltered counterparts.
var NoGrowZone = GrowZone{Number: -1}

// IsNoFilter reports whether the zone is the NoGrowZone sentinel.
func (z GrowZone) IsNoFilter() bool {
	return z == NoGrowZone
}
