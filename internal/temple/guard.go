package temple

import (
	"context"
	"errors"
)

// Guard enforces the name+city and contact uniqueness constraints. It only reads.
type Guard struct {
	Repo Repository
}

func NewGuard(repo Repository) *Guard {
	return &Guard{Repo: repo}
}

// CheckCreateConflicts returns a KindConflict *Error for the first violated
// constraint, or nil. It must run before any media is uploaded.
func (g *Guard) CheckCreateConflicts(ctx context.Context, candidate *Temple) error {
	return g.check(ctx, candidate, 0)
}

// CheckUpdateConflicts applies the same constraints to an updated document,
// ignoring the document itself.
func (g *Guard) CheckUpdateConflicts(ctx context.Context, updated *Temple) error {
	return g.check(ctx, updated, updated.ID)
}

func (g *Guard) check(ctx context.Context, t *Temple, exclude uint) error {
	_, err := g.Repo.FindOne(ctx, Filter{
		ExcludeID:  exclude,
		TempleName: t.TempleName,
		ExactCity:  t.Location.City,
	})
	switch {
	case err == nil:
		return conflict("templeName", "A temple with this name already exists in this city")
	case !errors.Is(err, ErrNotFound):
		return err
	}

	email, phone := t.ContactDetails.Email, t.ContactDetails.Phone
	if email == "" && phone == "" {
		return nil
	}

	found, err := g.Repo.FindOne(ctx, Filter{ExcludeID: exclude, Email: email, Phone: phone})
	switch {
	case errors.Is(err, ErrNotFound):
		return nil
	case err != nil:
		return err
	}
	if email != "" && found.ContactDetails.Email == email {
		return conflict("contactDetails.email", "A temple with this email already exists")
	}
	return conflict("contactDetails.phone", "A temple with this phone number already exists")
}
