package temple

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	superAdmin  = Caller{ActorID: 1, Role: RoleSuperAdmin, Status: StatusActive}
	templeAdmin = Caller{ActorID: 7, Role: RoleTempleAdmin, Status: StatusActive}
)

func TestCallerRoles(t *testing.T) {
	assert.True(t, superAdmin.Privileged())
	assert.True(t, superAdmin.CanRegister())
	assert.False(t, templeAdmin.Privileged())
	assert.True(t, templeAdmin.CanRegister())

	inactive := Caller{ActorID: 1, Role: RoleSuperAdmin, Status: "inactive"}
	assert.False(t, inactive.Privileged())
	assert.False(t, inactive.CanRegister())

	assert.True(t, Caller{Role: "SuperAdmin", Status: "ACTIVE"}.Privileged())
	assert.False(t, Caller{Role: "devotee", Status: StatusActive}.CanRegister())
}

func TestVerifyOnCreate(t *testing.T) {
	tm := &Temple{}
	verifyOnCreate(tm, superAdmin, "")
	assert.True(t, tm.IsVerified)
	require.NotNil(t, tm.VerifiedBy)
	assert.Equal(t, uint(1), *tm.VerifiedBy)
	assert.Equal(t, DefaultVerificationRemark, tm.VerificationRemarks)

	tm = &Temple{IsVerified: true, VerificationRemarks: "forged"}
	verifyOnCreate(tm, templeAdmin, "please verify")
	assert.False(t, tm.IsVerified)
	assert.Nil(t, tm.VerifiedBy)
	assert.Empty(t, tm.VerificationRemarks)
}

func TestApplyVerificationIgnoresUnprivileged(t *testing.T) {
	tm := &Temple{}
	changes := Changes{}
	yes, remarks := true, "looks good"

	require.NoError(t, applyVerification(tm, &yes, &remarks, templeAdmin, changes))
	assert.False(t, tm.IsVerified)
	assert.Empty(t, changes)
}

func TestApplyVerificationStampsVerifier(t *testing.T) {
	tm := &Temple{}
	changes := Changes{}
	yes, remarks := true, "checked documents"

	require.NoError(t, applyVerification(tm, &yes, &remarks, superAdmin, changes))
	assert.True(t, tm.IsVerified)
	require.NotNil(t, tm.VerifiedBy)
	assert.Equal(t, uint(1), *tm.VerifiedBy)
	assert.Equal(t, []string{"isVerified", "verificationRemarks", "verifiedBy"}, changes.Paths())
}

func TestApplyVerificationIsTerminal(t *testing.T) {
	by := uint(1)
	tm := &Temple{IsVerified: true, VerifiedBy: &by}
	no := false

	err := applyVerification(tm, &no, nil, superAdmin, Changes{})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.True(t, tm.IsVerified)

	// re-verifying is a no-op
	yes := true
	changes := Changes{}
	require.NoError(t, applyVerification(tm, &yes, nil, superAdmin, changes))
	assert.Empty(t, changes)
}
