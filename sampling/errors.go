package sampling

import "errors"

var errSourceUnavailable = errors.New("signal source unavailable")
