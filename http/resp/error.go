package resp

import "errors"

var (
	ErrBadConfig = errors.New("bad config")
	ErrNotExist  = errors.New("not exist")
	ErrSent      = errors.New("response already sent")
)
