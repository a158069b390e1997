// Package quad implements the quadrotor physics core: the vehicle state,
// the rotor thrust and mixing model, the 6-DOF rigid-body state derivative,
// and the stateful engine that advances the state by one timestep.
//
// The engine composes the derivative with a pluggable [dynamo.Integrator];
// everything else in the package is a pure function of state and commands.
package quad
