// Package resource fetches image references and renders them as terminal cell art.
//
// A reference is an http(s) URL, a file:// URL or a filesystem path. Fetched
// bodies are kept in the file cache; decoded images (PNG, JPEG, GIF) are
// scaled to the requested cell size and drawn with upper half-block glyphs so
// each cell carries two vertically stacked pixels.
package resource
