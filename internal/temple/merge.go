package temple

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// present returns the trimmed value of p and whether it counts as supplied.
func present(p *string) (string, bool) {
	if p == nil {
		return "", false
	}
	v := strings.TrimSpace(*p)
	return v, v != ""
}

func mergeString(dst *string, p *string, path string, changes Changes) {
	v, ok := present(p)
	if !ok || v == *dst {
		return
	}
	*dst = v
	changes[path] = v
}

// Merge applies patch onto a copy of existing and returns the copy together with
// the paths that actually changed. existing itself is left untouched.
func Merge(existing *Temple, patch Patch, caller Caller) (*Temple, Changes, error) {
	if err := validatePatch(patch); err != nil {
		return nil, nil, err
	}

	t := existing.Clone()
	changes := Changes{}

	mergeString(&t.TempleName, patch.TempleName, "templeName", changes)
	mergeString(&t.Description, patch.Description, "description", changes)
	mergeString(&t.History, patch.History, "history", changes)
	mergeString(&t.ActivitiesAndServices, patch.ActivitiesAndServices, "activitiesAndServices", changes)

	if l := patch.Location; l != nil {
		mergeString(&t.Location.Address, l.Address, "location.address", changes)
		mergeString(&t.Location.City, l.City, "location.city", changes)
		mergeString(&t.Location.State, l.State, "location.state", changes)
		mergeString(&t.Location.Country, l.Country, "location.country", changes)
	}

	if d := patch.DarshanTimings; d != nil {
		mergeString(&t.DarshanTimings.Morning, d.Morning, "darshanTimings.morning", changes)
		mergeString(&t.DarshanTimings.Evening, d.Evening, "darshanTimings.evening", changes)
	}

	if c := patch.ContactDetails; c != nil {
		email := c.Email
		if v, ok := present(c.Email); ok {
			lowered := strings.ToLower(v)
			email = &lowered
		}
		mergeString(&t.ContactDetails.Email, email, "contactDetails.email", changes)
		mergeString(&t.ContactDetails.Phone, c.Phone, "contactDetails.phone", changes)
		mergeString(&t.ContactDetails.Facebook, c.Facebook, "contactDetails.facebook", changes)
		mergeString(&t.ContactDetails.Instagram, c.Instagram, "contactDetails.instagram", changes)
		mergeString(&t.ContactDetails.Website, c.Website, "contactDetails.website", changes)
	}

	if err := applyVerification(t, patch.IsVerified, patch.VerificationRemarks, caller, changes); err != nil {
		return nil, nil, err
	}

	if changes.Has("templeName") || changes.Has("location.city") {
		if slug := Slugify(t.TempleName, t.Location.City); slug != t.Slug {
			t.Slug = slug
			changes["slug"] = slug
		}
	}

	return t, changes, nil
}

// validatePatch checks formats of supplied contact fields; absent fields pass.
func validatePatch(p Patch) error {
	if p.ContactDetails == nil {
		return nil
	}
	email, _ := present(p.ContactDetails.Email)
	phone, _ := present(p.ContactDetails.Phone)
	website, _ := present(p.ContactDetails.Website)

	err := validation.Errors{
		"contactDetails.email":   validation.Validate(email, validation.Match(emailPattern).Error("must be a valid email address")),
		"contactDetails.phone":   validation.Validate(phone, validation.Match(phonePattern).Error("must be exactly 10 digits")),
		"contactDetails.website": validation.Validate(website, is.URL),
	}.Filter()
	if err != nil {
		return validationError(err)
	}
	return nil
}
