package ring

import "fmt"

// ErrInvalidCapacity is returned by New when capacity is not a power of two
// or is less than 2.
var ErrInvalidCapacity = fmt.Errorf("ring: capacity must be a power of two >= 2")
