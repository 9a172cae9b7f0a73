// Package swe defines the shared types of the 1D Saint-Venant solver: the
// conserved-variable field, the simulation clock, and the contracts between
// the time-integration driver and its collaborators (mesh, physics, flux
// assembler, stepper).
package swe
