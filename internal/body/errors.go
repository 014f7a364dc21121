package body

import "errors"

var (
	ErrInvalidMass       = errors.New("body: mass and inertia must be positive")
	ErrInvalidStep       = errors.New("body: time step must be finite and positive")
	ErrInvalidInput      = errors.New("body: non-finite control input")
	ErrUnknownSurface    = errors.New("body: unknown control surface")
	ErrUnknownTank       = errors.New("body: unknown ballast tank")
	ErrUnstable          = errors.New("body: state diverged")
	ErrDuplicateProducer = errors.New("body: producer name already attached")
)
