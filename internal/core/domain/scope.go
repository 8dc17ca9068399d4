package domain

import "github.com/google/uuid"

// AccessScope describes which wallets a caller may see. Repositories turn it
// into a filter predicate; it is always passed explicitly, never read from
// ambient state.
//
// Exactly one of the three shapes is expected: admin (backoffice, no
// filtering), organization-scoped (API keys), or customer-scoped (customer
// portal).
type AccessScope struct {
	Admin          bool
	OrganizationID *uuid.UUID
	CustomerID     *uuid.UUID
}

// AdminScope returns an unrestricted scope.
func AdminScope() AccessScope {
	return AccessScope{Admin: true}
}

// OrganizationScope returns a scope restricted to one organization's wallets.
func OrganizationScope(organizationID uuid.UUID) AccessScope {
	return AccessScope{OrganizationID: &organizationID}
}

// CustomerScope returns a scope restricted to one customer's wallet.
func CustomerScope(customerID uuid.UUID) AccessScope {
	return AccessScope{CustomerID: &customerID}
}
