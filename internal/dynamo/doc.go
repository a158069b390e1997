// Package dynamo provides core numerical-simulation primitives.
//
// It defines the vector types and interfaces shared by the physics core
// and the integrators:
//
//   - [State]: flat vector holding an ODE state
//   - [System]: right-hand side of dX/dt = f(X, u, t)
//   - [Integrator]: fixed-step numerical stepper
//   - [AdaptiveIntegrator]: stepper with embedded error estimation
//
// The package is deliberately unaware of the quadrotor. The vehicle model
// in internal/quad encodes its typed state into a [State] only at the
// integrator boundary and decodes it straight back.
package dynamo
