package gradcheck

import "errors"

var (
	ErrShapeMismatch = errors.New("gradcheck: shape mismatch")
	ErrBadStep       = errors.New("gradcheck: step must be positive and finite")
	ErrBadFormula    = errors.New("gradcheck: formula must approximate a first derivative")
	ErrEmptyInput    = errors.New("gradcheck: empty input")
)
