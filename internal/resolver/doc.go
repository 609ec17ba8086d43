// Package resolver turns free-form target strings into the rooms, services,
// scenes and groups they refer to.
//
// Resolve runs a fixed chain of matching strategies against one immutable
// home.Snapshot and group list and returns the verdict of the first
// strategy that has an opinion:
//
//  1. identifier      "8F1C-22AB-..."          service id, then scene id
//  2. scene           "scene.Goodnight", "Goodnight"
//  3. room group      "Office/group.Desk"
//  4. global group    "group.All Lights", "All Lights"
//  5. type and room   "light.bedroom"
//  6. wildcards       "all lights", "bedroom.*", "*.light"
//  7. exact name      "Kitchen Light"
//  8. room and device "Office/Spotlights", "Office Spotlights"
//  9. fuzzy           "spot"
//
// All string comparisons fold case. Resolve never fails: ambiguity and
// absence are ordinary results, and dangling ids in groups or rooms only
// shrink the match set.
//
// Resolve keeps no state and performs no I/O, so it is safe to call from
// any number of goroutines against the same snapshot.
package resolver
