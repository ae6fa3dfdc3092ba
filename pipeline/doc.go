// Package pipeline provides a single-value, forward-only stage runner. A Pipeline
// runs stages in order (optionally with its own Source for standalone use); each
// stage's output is the next stage's input and the first error halts the run.
//
// Optional pre/post hooks (Observer) let callers log, measure, trace or journal a run:
// BeforePipeline, BeforeStage/AfterStage (input/output, duration, error) and
// AfterPipeline (result or error). Pass RunOptions{Observer: obs} to RunWithInput;
// combine several observers with MultiObserver.
//
// Every run gets a run id (RunOptions.RunID or a generated UUID). Inside a stage,
// RunID(ctx) returns it and Logger(ctx) returns the logger installed with WithLogger,
// already tagged with run_id, pipeline and stage.
//
// Stages are untyped (interface{} in, interface{} out). Use Transform to write a
// stage as a typed function:
//
//	p := &pipeline.Pipeline{
//	    Name: "double-then-inc",
//	    Stages: []pipeline.Stage{
//	        pipeline.Transform(func(ctx context.Context, n int) (int, error) { return n * 2, nil }),
//	        pipeline.WithTimeout(pipeline.Transform(inc), time.Second),
//	    },
//	}
//	out, err := p.RunWithInput(ctx, 20, nil)
package pipeline
