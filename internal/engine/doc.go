/*
Engine fans the paths of one pricing run out over a pool of goroutines and reduces their payoffs.

# Module
  - dispatcher: hands out index ranges (static, dynamic, guided)
  - worker: owns one rng.State and one model.Aggregate, simulates and prices paths
  - persist: writes records to the sink, one writer at a time, or buffers them per worker

# Source
  - validated model.Params from ops
  - options from the command line

# Produce
  - Result: merged aggregate, optional records in worker order

# Sharded
  - worker index
*/
package engine
