package chronify

import "github.com/pkg/errors"

// ErrInvalidTimeExpression is returned for blank expressions, shorthand
// offsets that overflow, and ranges whose start cannot be resolved by any
// grammar.
var ErrInvalidTimeExpression = errors.New("invalid time expression")
