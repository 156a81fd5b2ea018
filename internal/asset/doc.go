// Package asset reads overlay images and reports their pixel dimensions.
//
// A reference is remote when it looks like an absolute http(s) URL and is
// fetched over the network; anything else is read from local storage relative
// to a base directory. Both paths decode only the image header.
package asset
