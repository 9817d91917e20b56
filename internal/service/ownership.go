package service

import "buyonline/internal/model"

// authorizeOwner is the single ownership check for seller-scoped operations.
// msg is returned as a BadRequest when the principal does not own o.
func authorizeOwner(p model.Principal, o model.Owned, msg string) error {
	if o.OwnerID() != p.UserID {
		return badRequest("%s", msg)
	}
	return nil
}
