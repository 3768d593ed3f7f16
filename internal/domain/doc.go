// Package domain contains the core entities of the vocabulary-learning
// system: vocabulary items, per-item review scheduling state, the single
// learner profile with its daily-goal accounting, and generated reading
// passages. Entities validate themselves and carry no infrastructure
// concerns; scheduling and progression rules live in the subpackages.
package domain
