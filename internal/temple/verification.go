package temple

import "strings"

// Role and status values carried in caller identity. Both roles register
// temples but only superadmin verifies: a templeadmin's temple starts
// unverified, a superadmin's is verified on creation.
const (
	RoleSuperAdmin  = "superadmin"
	RoleTempleAdmin = "templeadmin"

	StatusActive = "active"

	DefaultVerificationRemark = "Verified by admin"
)

// Caller identifies who is performing an operation. It is always passed
// explicitly; the registry never reads identity from ambient state.
type Caller struct {
	ActorID uint
	Role    string
	Status  string
	// IP is recorded in audit entries only.
	IP string
}

func (c Caller) active() bool {
	return strings.EqualFold(c.Status, StatusActive)
}

// Privileged reports whether the caller may change verification state.
func (c Caller) Privileged() bool {
	return c.active() && strings.EqualFold(c.Role, RoleSuperAdmin)
}

// CanRegister reports whether the caller may create a temple.
func (c Caller) CanRegister() bool {
	if !c.active() {
		return false
	}
	return strings.EqualFold(c.Role, RoleTempleAdmin) || strings.EqualFold(c.Role, RoleSuperAdmin)
}

// verifyOnCreate puts a temple created by a privileged caller straight into
// the verified state.
func verifyOnCreate(t *Temple, caller Caller, remarks string) {
	if !caller.Privileged() {
		t.IsVerified = false
		t.VerifiedBy = nil
		t.VerificationRemarks = ""
		return
	}
	id := caller.ActorID
	t.IsVerified = true
	t.VerifiedBy = &id
	t.VerificationRemarks = remarks
	if t.VerificationRemarks == "" {
		t.VerificationRemarks = DefaultVerificationRemark
	}
}

// applyVerification is the only path that mutates isVerified, verifiedBy and
// verificationRemarks. Fields from a non-privileged caller are dropped silently.
func applyVerification(t *Temple, isVerified *bool, remarks *string, caller Caller, changes Changes) error {
	if !caller.Privileged() {
		return nil
	}

	if isVerified != nil {
		switch {
		case *isVerified && !t.IsVerified:
			id := caller.ActorID
			t.IsVerified = true
			t.VerifiedBy = &id
			changes["isVerified"] = true
			changes["verifiedBy"] = id
		case !*isVerified && t.IsVerified:
			return invalid("isVerified", "A verified temple cannot be unverified")
		}
	}

	if remarks != nil {
		r := strings.TrimSpace(*remarks)
		if r != "" && r != t.VerificationRemarks {
			t.VerificationRemarks = r
			changes["verificationRemarks"] = r
		}
	}
	return nil
}
