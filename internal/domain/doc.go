// Package domain contains the core entities of the practice engine:
// users, questions, per-question learning states, attempt records and
// bookmarks. Entities validate themselves; all scheduling and
// classification logic lives in the srs and mastery subpackages.
package domain
