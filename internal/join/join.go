// Package join performs client-side relational joins over the raw,
// unjoined collections returned by the finance API. The API offers no
// server-side joins, so filtering a collection by a foreign-key match is
// done here, by id value equality.
//
// All functions are pure: same inputs, same outputs, no suspension.
// Dangling references (a transaction pointing at an account missing from
// the fetched collection) are dropped silently rather than treated as
// errors, since collections are fetched independently and may be
// momentarily inconsistent.
package join

import "finman/internal/models"

// ClientJoin holds the subsets of the raw collections that belong to one
// focal client.
type ClientJoin struct {
	Accounts     []models.Account
	AccountIDs   map[int]struct{}
	Transactions []models.Transaction
	Budgets      []models.Budget
}

// ForClient computes the client-focused join: the client's accounts, the
// transactions on those accounts, and the budgets the client shares.
// Empty input collections produce empty subsets, never an error.
func ForClient(clientID int, accounts []models.Account, transactions []models.Transaction, budgets []models.Budget) ClientJoin {
	j := ClientJoin{AccountIDs: make(map[int]struct{})}

	for _, acc := range accounts {
		if acc.ClientID == clientID {
			j.Accounts = append(j.Accounts, acc)
			j.AccountIDs[acc.ID] = struct{}{}
		}
	}

	for _, tx := range transactions {
		if _, ok := j.AccountIDs[tx.AccountID]; ok {
			j.Transactions = append(j.Transactions, tx)
		}
	}

	for _, b := range budgets {
		if containsID(b.ClientIDs, clientID) {
			j.Budgets = append(j.Budgets, b)
		}
	}

	return j
}

// MergeTransactions flattens the per-client batches of a budget fan-out
// into one set, dropping zero-value entries and deduplicating by id.
// First-seen order is preserved so repeated merges of the same batches are
// structurally identical.
func MergeTransactions(batches ...[]models.Transaction) []models.Transaction {
	seen := make(map[int]struct{})
	merged := make([]models.Transaction, 0)

	for _, batch := range batches {
		for _, tx := range batch {
			if tx.ID == 0 {
				continue
			}
			if _, ok := seen[tx.ID]; ok {
				continue
			}
			seen[tx.ID] = struct{}{}
			merged = append(merged, tx)
		}
	}

	return merged
}

func containsID(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
