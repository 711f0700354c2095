package sorter

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRequest  = errors.New("invalid sort request")
	ErrTraversal       = errors.New("cannot read source directory")
	ErrDestinationBusy = errors.New("destination is locked by another sort")
)

// Invalid request details. All of them match ErrInvalidRequest.
var (
	ErrMissingDirectory      = fmt.Errorf("%w: source and destination directories are required", ErrInvalidRequest)
	ErrSameDirectory         = fmt.Errorf("%w: source and destination must be different directories", ErrInvalidRequest)
	ErrUnsupportedCriterion  = fmt.Errorf("%w: unsupported sorting criteria", ErrInvalidRequest)
	ErrSourceNotFound        = fmt.Errorf("%w: source directory does not exist", ErrInvalidRequest)
	ErrSourceNotDirectory    = fmt.Errorf("%w: source is not a directory", ErrInvalidRequest)
	ErrDestNotDirectory      = fmt.Errorf("%w: destination is not a directory", ErrInvalidRequest)
	ErrDestinationUnwritable = fmt.Errorf("%w: destination directory cannot be created", ErrInvalidRequest)
)
