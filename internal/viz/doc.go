// Package viz provides the terminal rendering primitives of the viewer.
//
//   - [Canvas]: Braille-based pixel canvas with line and polygon fill
//   - [Projection]: equirectangular mapping of a lon/lat box onto sub-pixels
//   - [Scene] and [MapLayers]: filtered cutblock fill and outline layers
//   - [Theme]: color schemes, with the cutblock palette per theme
package viz
