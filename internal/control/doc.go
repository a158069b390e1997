// Package control provides rotor-command policies for the simulator.
//
// Controllers implement the [quad.Controller] interface:
//
//   - [OpenLoop]: replays a fixed rotor-rate command
//   - [PD]: cascaded position/attitude proportional-derivative controller
//
// These exist to exercise the physics core; control design is explicitly
// out of scope, so the PD gains are hand-tuned for the reference airframe
// rather than derived.
package control
