// Package loggerstate provides the status flag shared by the subsystems of a
// CO2 data logger.
//
// A State holds the current and previous Status of one subsystem and an
// optional back-reference to the State of its parent. Entering INITIALIZE or
// ERROR is mirrored onto the parent; entering WORKING stays local. Mirroring
// goes exactly one level up and never changes the parent's own parent.
//
// A State is not safe for concurrent use. It is owned by the control flow of
// its subsystem.
package loggerstate
