package fault

import "errors"

var ErrNotValid = errors.New("not valid")
