package domain

import "errors"

// ErrInvalidLevel is returned when a proficiency level is outside the
// 1-6 range. Shared by vocabulary items and learner profiles.
var ErrInvalidLevel = errors.New("level must be between 1 and 6")
