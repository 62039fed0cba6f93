// Package ledger is the settlement ledger: the commission split of delivered parcels,
// earnings with their clearance cycle, append-only wallet transactions, payouts and the
// one-time settlement of group shipments.
//
// Wallet balances are a cache over transactions. They change only through Post, Clear and
// Reverse, so every balance movement corresponds to exactly one Transaction.
package ledger
