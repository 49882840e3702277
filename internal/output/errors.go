package output

import "errors"

var ErrOutputWriteFailure = errors.New("output_write_failure")
