package temple

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storedTemple() *Temple {
	return &Temple{
		ID:         3,
		Slug:       "sri-ganesh-temple",
		TempleName: "Sri Ganesh Temple",
		Location:   Location{Address: "1 Temple Road", City: "Pune", State: "Maharashtra", Country: "India"},
		ContactDetails: ContactDetails{
			Email: "info@ganesh.org",
			Phone: "9876543210",
		},
		Description:  "A historic temple",
		PhotoGallery: []string{"https://cdn.test/temples/a.png"},
		RegisteredBy: 7,
	}
}

func TestMergeSparseNested(t *testing.T) {
	existing := storedTemple()
	patch := Patch{Location: &LocationPatch{State: strPtr("MH")}}

	merged, changes, err := Merge(existing, patch, templeAdmin)
	require.NoError(t, err)

	assert.Equal(t, []string{"location.state"}, changes.Paths())
	assert.Equal(t, "MH", merged.Location.State)
	assert.Equal(t, "Pune", merged.Location.City)
	assert.Equal(t, "1 Temple Road", merged.Location.Address)
	assert.Equal(t, "Maharashtra", existing.Location.State, "existing must not be modified")
}

func TestMergeTreatsEmptyAsAbsent(t *testing.T) {
	existing := storedTemple()
	patch := Patch{
		TempleName:  strPtr(""),
		Description: strPtr("   "),
		Location:    &LocationPatch{City: strPtr("")},
	}

	merged, changes, err := Merge(existing, patch, templeAdmin)
	require.NoError(t, err)
	assert.Empty(t, changes)
	assert.Equal(t, existing.TempleName, merged.TempleName)
	assert.Equal(t, existing.Description, merged.Description)
}

func TestMergeUnchangedValueIsNotAChange(t *testing.T) {
	existing := storedTemple()
	_, changes, err := Merge(existing, Patch{TempleName: strPtr("Sri Ganesh Temple")}, templeAdmin)
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestMergeRegeneratesSlug(t *testing.T) {
	existing := storedTemple()

	merged, changes, err := Merge(existing, Patch{Location: &LocationPatch{City: strPtr("Mumbai")}}, templeAdmin)
	require.NoError(t, err)
	assert.Equal(t, "sri-ganesh-temple-mumbai", merged.Slug)
	assert.True(t, changes.Has("slug"))

	merged, changes, err = Merge(existing, Patch{Description: strPtr("Renovated")}, templeAdmin)
	require.NoError(t, err)
	assert.Equal(t, existing.Slug, merged.Slug)
	assert.False(t, changes.Has("slug"))
}

func TestMergeLowercasesEmailWithoutTouchingPatch(t *testing.T) {
	existing := storedTemple()
	email := "New@Ganesh.ORG"
	patch := Patch{ContactDetails: &ContactDetailsPatch{Email: &email}}

	merged, changes, err := Merge(existing, patch, templeAdmin)
	require.NoError(t, err)
	assert.Equal(t, "new@ganesh.org", merged.ContactDetails.Email)
	assert.Equal(t, "new@ganesh.org", changes["contactDetails.email"])
	assert.Equal(t, "New@Ganesh.ORG", email)
}

func TestMergeRejectsBadContactFormats(t *testing.T) {
	existing := storedTemple()
	tests := []struct {
		name  string
		patch ContactDetailsPatch
		field string
	}{
		{"email", ContactDetailsPatch{Email: strPtr("not-an-email")}, "contactDetails.email"},
		{"phone", ContactDetailsPatch{Phone: strPtr("12345")}, "contactDetails.phone"},
		{"website", ContactDetailsPatch{Website: strPtr("not a url")}, "contactDetails.website"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.patch
			_, _, err := Merge(existing, Patch{ContactDetails: &p}, templeAdmin)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)

			var e *Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, tt.field, e.Field)
		})
	}
}

func TestMergeVerificationFieldsNeedPrivilege(t *testing.T) {
	existing := storedTemple()
	patch := Patch{IsVerified: boolPtr(true), VerificationRemarks: strPtr("self approved")}

	merged, changes, err := Merge(existing, patch, templeAdmin)
	require.NoError(t, err)
	assert.False(t, merged.IsVerified)
	assert.Empty(t, changes)

	merged, changes, err = Merge(existing, patch, superAdmin)
	require.NoError(t, err)
	assert.True(t, merged.IsVerified)
	assert.True(t, changes.Has("isVerified"))
	assert.Equal(t, "self approved", merged.VerificationRemarks)
}

func TestMergeDoesNotShareSlices(t *testing.T) {
	existing := storedTemple()
	merged, _, err := Merge(existing, Patch{}, templeAdmin)
	require.NoError(t, err)

	merged.PhotoGallery[0] = "changed"
	assert.Equal(t, "https://cdn.test/temples/a.png", existing.PhotoGallery[0])
}
