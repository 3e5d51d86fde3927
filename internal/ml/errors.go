// Package ml trains and evaluates the gradient boosted matchup classifier.
package ml

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData matches any InsufficientDataError
	ErrInsufficientData = errors.New("insufficient training data")

	// ErrDegenerateLabel matches any DegenerateLabelError
	ErrDegenerateLabel = errors.New("partition holds a single class")

	// ErrFeatureMismatch indicates rows of differing width
	ErrFeatureMismatch = errors.New("feature width mismatch")

	// ErrInvalidLabel indicates a label other than 0 or 1
	ErrInvalidLabel = errors.New("labels must be 0 or 1")

	// ErrInvalidParams indicates hyperparameters out of range
	ErrInvalidParams = errors.New("invalid hyperparameters")
)

// InsufficientDataError reports a partition below the minimum row count
type InsufficientDataError struct {
	Partition string
	Rows      int
	Min       int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s partition has %d rows, need at least %d", e.Partition, e.Rows, e.Min)
}

// Is lets errors.Is match ErrInsufficientData
func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}

// DegenerateLabelError reports a partition whose labels are all one class
type DegenerateLabelError struct {
	Partition string
	Class     int
}

func (e *DegenerateLabelError) Error() string {
	return fmt.Sprintf("%s partition contains only class %d", e.Partition, e.Class)
}

// Is lets errors.Is match ErrDegenerateLabel
func (e *DegenerateLabelError) Is(target error) bool {
	return target == ErrDegenerateLabel
}
