// Package table holds the tabular types the preparation pipeline moves between
// stages: Raw (string cells as read from CSV), Frame (named float64 columns over a
// gonum matrix) and Labels (an integer series aligned with a Frame).
//
// Open reads a CSV with a single fallback location; WriteFrame and WriteLabels
// serialise results without a row index.
package table
