package DynamicRupture

import "errors"

var (
	// ErrInvalidParameter marks a friction law or model parameter outside its valid range
	ErrInvalidParameter = errors.New("invalid friction parameter")

	// ErrShapeMismatch marks a fault layer whose buffers do not match its layout
	ErrShapeMismatch = errors.New("fault layer shape mismatch")
)
