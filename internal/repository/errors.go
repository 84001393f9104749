// Package repository implements data access over MySQL. This file defines
// error values reused across multiple repositories so higher layers can
// distinguish failure scenarios, for example a guarded seat flip losing the
// race against a concurrent purchase.
package repository

import "errors"

// ErrConflict is returned when a guarded write affects zero rows because
// another request changed the state first: occupying an already occupied
// seat, releasing a seat that is not occupied, or generating seats for a
// trip that already has them. Callers should surface it as "no longer
// available, retry".
var ErrConflict = errors.New("conflict")
