package services

// OwnedResource is implemented by records that belong to exactly one
// user. Ownership checks across accounts and transactions go through
// this single predicate instead of per-handler comparisons.
type OwnedResource interface {
	OwnerID() string
}

// requireOwner rejects access to a resource owned by a different user.
// Callers must have established existence first so that a missing
// resource surfaces as ErrNotFound, never ErrForbidden.
func requireOwner(userID string, resource OwnedResource) error {
	if resource.OwnerID() != userID {
		return ErrForbidden
	}
	return nil
}
