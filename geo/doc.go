// Package geo provides the fixed-precision geographic primitives shared by
// the generator and the cartograph: micro-degree angles, geographic points,
// great-circle distances and the Web-Mercator projection.
//
// Coordinates are stored as signed micro-degree integers (10⁻⁶ of a degree),
// which is the resolution OSM itself uses and the resolution of the on-disk
// artifact. Converting to and from float64 radians is lossy only in the 7th
// decimal of a degree.
//
// Two different sphere radii are in play, on purpose:
//
//   - haversine distances use the mean Earth radius of 6 371 000 m;
//   - Web-Mercator projection uses the equatorial radius of 6 378 137 m,
//     matching EPSG:3857 so projected coordinates line up with map tiles.
package geo
