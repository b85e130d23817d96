package pendant

import "errors"

// ErrGroupSize indicates a Panel was constructed over a group that does not
// contain exactly one device.
var ErrGroupSize = errors.New("pendant: group must contain exactly one device")
