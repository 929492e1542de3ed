package lobby

import "errors"

var errUnsupportedCommand = errors.New("unsupported command")
