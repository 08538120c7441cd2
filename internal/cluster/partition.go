package cluster

import (
	"fmt"

	"mcpricer/pkg/exception"
)

// Partition returns how many paths rank runs. Every rank gets total/size; the last rank also
// takes total%size.
func Partition(total, size, rank int) (int, error) {
	if err := checkPartition(total, size, rank); err != nil {
		return 0, err
	}
	share := total / size
	if rank == size-1 {
		share += total % size
	}
	return share, nil
}

// Offset returns the global index of the first path of rank.
func Offset(total, size, rank int) (int64, error) {
	if err := checkPartition(total, size, rank); err != nil {
		return 0, err
	}
	return int64(total/size) * int64(rank), nil
}

func checkPartition(total, size, rank int) error {
	if total <= 0 || size <= 0 || rank < 0 || rank >= size {
		return fmt.Errorf("%w, total %d size %d rank %d", exception.ErrInvalidPartition, total, size, rank)
	}
	return nil
}
