package services

import "budgetapp/models"

// CanMutateTransaction decides whether a requester may update or delete a
// transaction, given the requester's membership role in the owning budget
// and the user who recorded the transaction. Owners mutate anything;
// contributors mutate only their own rows. Pure function, no store access.
func CanMutateTransaction(role, transactionOwnerID, requesterID string) bool {
	if role == models.RoleOwner {
		return true
	}
	if role == models.RoleContributor {
		return transactionOwnerID == requesterID
	}
	return false
}
