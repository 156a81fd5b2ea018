// Package leaflet turns `language-leaflet` code blocks into interactive map embeds.
//
// A transform runs in three steps over a hast tree:
//
//  1. Detect collects every qualifying code element with its parent and index.
//  2. Resolver decodes each block body (YAML, so JSON works too) over the
//     default map record.
//  3. Synthesizer derives overlay bounds, probing image dimensions when needed,
//     and builds a wrapper div holding the map container and its init script.
//
// Transformer drives the steps and only mutates the tree once every block has
// been resolved. A failing block never prevents its siblings from rendering.
package leaflet
