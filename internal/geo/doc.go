// Package geo loads GeoJSON feature collections and answers the small set of
// geometric questions the viewer needs.
//
//   - [FeatureCollection]: decoded collection with raw geometries
//   - [ToNumber]: numeric coercion of property values
//   - [BBox]: lon/lat area of interest with kilometre buffering
//
// # Example
//
//	fc, err := geo.Load(ctx, "./data/cutblock_year_timelapse.geojson")
//	if err != nil {
//	    return err
//	}
//	aoi := fc.Bounds().Buffer(2)
package geo
