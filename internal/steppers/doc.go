// Package steppers implements the explicit time-integration variants that
// advance the solution one step at a time. Each stepper is stateless between
// calls and pure with respect to its inputs.
package steppers
