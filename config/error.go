package config

import "errors"

var ErrBadConfig = errors.New("bad config")
