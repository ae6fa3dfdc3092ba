// Package prep turns a raw labelled CSV into model-ready train and test partitions.
//
// A full run is the chain load | clean | encode | impute | split | scale | write, each
// a pipeline.Stage passing a *State along. Use Run for the whole chain, Prepare when
// the table is already in memory, or Register to expose the stages by name to a
// configured pipeline.
package prep
