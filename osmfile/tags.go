package osmfile

import "github.com/paulmach/osm"

// NumRoadLevels is the number of distinct road levels produced by RoadLevel.
// Level 0 is the trunk network; level 5 the local streets. The serialized
// format reserves one more value (6) above these.
const NumRoadLevels = 6

// roadLevels maps the value of the highway tag to a road level. Any value
// absent from this table means the way is not a road for routing purposes.
var roadLevels = map[string]uint8{
	"motorway":      0,
	"motorway_link": 0,
	"trunk":         0,
	"trunk_link":    0,
	"primary":       1,
	"primary_link":  1,
	"secondary":     2,
	"secondary_link": 2,
	"tertiary":      3,
	"tertiary_link": 3,
	"unclassified":  4,
	"residential":   5,
	"service":       5,
	"living_street": 5,
	"road":          5,
	"rest_area":     5,
	"services":      5,
}

// blockingBarriers is the set of barrier tag values treated as blocking.
// All other values are ignored.
var blockingBarriers = map[string]bool{
	"border_control":    true,
	"block":             true,
	"bollard":           true,
	"chain":             true,
	"debris":            true,
	"gate":              true,
	"jersey_barrier":    true,
	"kent_carriage_gap": true,
}

// RoadLevel converts the highway tag of a way into a road level in [0, 5].
// The second return is false when the way is not a routable road.
func RoadLevel(tags osm.Tags) (uint8, bool) {
	level, ok := roadLevels[tags.Find("highway")]
	return level, ok
}

// Direction tells in which directions a way can be traversed, relative to the
// order of its node references.
type Direction struct {
	Direct  bool
	Reverse bool
}

// OnewayDirection derives the traversal direction from the oneway, junction
// and highway tags. Roundabouts and motorways are one-way by default; an
// explicit oneway tag overrides the default.
//
// oneway=no parses to the same direction as oneway=yes. This mirrors the
// behavior the artifact format was frozen against; a bidirectional way is one
// with no oneway tag at all.
func OnewayDirection(tags osm.Tags) Direction {
	direct, reverse := true, true
	if tags.Find("junction") == "roundabout" || tags.Find("highway") == "motorway" {
		direct, reverse = true, false
	}

	switch tags.Find("oneway") {
	case "yes", "true", "1":
		direct, reverse = true, false
	case "no", "false", "0":
		direct, reverse = true, false
	case "-1":
		direct, reverse = false, true
	}

	return Direction{Direct: direct, Reverse: reverse}
}

// IsBarrier reports whether a node's tags mark it as blocking traffic.
func IsBarrier(tags osm.Tags) bool {
	return blockingBarriers[tags.Find("barrier")]
}
