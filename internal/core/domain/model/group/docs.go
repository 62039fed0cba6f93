// Package group implements group shipments: parcels travelling the same source -> target
// city pair pooled under a discount, closed on fill or by the deadline sweep, and moved
// by a pickup agent and then a delivery agent.
//
// Membership rules are checked by CanJoin in a fixed order so that callers get the same
// error for the same situation: GroupFull, GroupClosed, GroupDeadlinePassed,
// RouteMismatch, AlreadyJoinedGroup.
package group
