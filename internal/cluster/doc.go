/*
Cluster splits one pricing run over several processes that talk over a unix socket.

# Module
  - Partition/Offset: per-rank share of the iteration space, remainder on the last rank
  - Collector: rank 0, accepts report and record frames, barrier over all ranks
  - Reporter: ranks 1..size-1, sends record batches and the final report
  - Merge: folds reports into one average

# Source
  - engine.Result of every rank

# Produce
  - one average payoff
  - records relayed to the collector's sink
*/
package cluster
