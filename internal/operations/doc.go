// Package operations runs the sales pipeline as an ordered list of steps.
//
// Core Components:
//
// Manager: Executes the registered steps strictly in registration order and
// stops at the first failure. Each step runs inside its own span and records
// the stage metrics.
//
// Step: One unit of work. Steps exchange the sales table and its derived
// values through the OperationState context.
//
// Registry: Holds the steps and preserves their registration order.
//
// State: Tracks the runtime state of the operation and of every step.
//
// RunManifest: A JSON summary of a successful run, naming the input, its
// checksum, the step timings and every file written.
//
// Example usage:
//
//	steps, err := operations.NewPipelineSteps(operations.Pipeline{
//		Paths:  paths,
//		Input:  cfg.Input,
//		TopN:   cfg.Report.TopN,
//		Stdout: os.Stdout,
//		Logger: logger,
//	})
//
//	registry := operations.NewRegistry()
//	for _, step := range steps {
//		registry.Register(step)
//	}
//
//	manager := operations.NewManager(registry, logger,
//		operations.WithTracer(tracer),
//		operations.WithManifest(paths.Manifest, paths.Outputs()))
//	err = manager.Run(ctx, operations.NewOperationState(runID))
//
// Execution is single threaded. The table is owned by one step at a time.
package operations
