// Package services provides stateless domain services that work across aggregates:
//   - AgentSelector ranks eligible agents for an offer
//   - SettlementCalculator computes parcel splits and group settlements
package services
