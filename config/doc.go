// Package config provides a stage registry and the YAML definition of a preparation run.
//
// Register stages by name (prep.Register does this for the built-in ones), then describe
// the run in YAML. Keys left out keep their defaults; stages may carry a timeout:
//
//	name: breastcancer
//	input: ../breastcancer_raw.csv
//	output_dir: breastcancer_preprocessing
//	test_size: 0.2
//	seed: 42
//	stratify: true
//	impute_scope: full
//	label_policy: strict
//	stages:
//	  - load
//	  - clean
//	  - encode
//	  - impute
//	  - split
//	  - scale
//	  - name: write
//	    timeout: 30s
//
// Load or Parse the file, call Validate, then BuildPipeline(registry, config) and run
// the pipeline with prep.NewState(config.Options()) as input.
package config
