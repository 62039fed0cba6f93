// Package agent provides the Agent aggregate: a company's delivery agent with a service
// area, an availability switch and a bounded number of concurrent order slots.
//
// Slots are taken when an agent accepts an offer and released when the parcel is delivered
// or cancelled, or when the agent's group leg finishes.
package agent
