package billing

import "github.com/mmynk/paylink/internal/models"

// OwnerFilter restricts billing reads and writes to one owner.
// Build it once per request with OwnedBy and pass it by value into every
// authenticated list or fetch.
type OwnerFilter struct {
	ownerID string
}

// OwnedBy returns the filter for principal.
// It fails with models.ErrUnauthenticated for an anonymous caller.
func OwnedBy(principal *models.Principal) (OwnerFilter, error) {
	if principal == nil || principal.UserID == "" {
		return OwnerFilter{}, models.ErrUnauthenticated
	}
	return OwnerFilter{ownerID: principal.UserID}, nil
}

// OwnerID is the user the filter admits. Stores use it in WHERE clauses.
func (f OwnerFilter) OwnerID() string {
	return f.ownerID
}

// Match reports whether b is visible through the filter.
// The zero filter matches nothing.
func (f OwnerFilter) Match(b *models.Billing) bool {
	return f.ownerID != "" && b != nil && b.OwnerID == f.ownerID
}

// BindOwner sets b's owner to principal if no owner is set yet.
// It reports whether the owner was bound; rebinding is a no-op.
func BindOwner(b *models.Billing, principal *models.Principal) bool {
	if b.OwnerID != "" || principal == nil || principal.UserID == "" {
		return false
	}
	b.OwnerID = principal.UserID
	return true
}
