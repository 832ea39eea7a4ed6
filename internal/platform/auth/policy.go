package auth

// Roles recognized by the access policy.
const (
	RoleSuperAdmin   = "super_admin"
	RoleCenterAdmin  = "center_admin"
	RolePsychologist = "psychologist"
)

// ValidRole reports whether r is one of the recognized roles.
func ValidRole(r string) bool {
	return r == RoleSuperAdmin || r == RoleCenterAdmin || r == RolePsychologist
}

// Identity is the resolved requester: who they are, what they may do, and
// which center scopes them. CenterID is empty for users with no affiliation.
type Identity struct {
	UserID   string
	Role     string
	CenterID string
}

func (id Identity) IsSuperAdmin() bool   { return id.Role == RoleSuperAdmin }
func (id Identity) IsCenterAdmin() bool  { return id.Role == RoleCenterAdmin }
func (id Identity) IsPsychologist() bool { return id.Role == RolePsychologist }
func (id Identity) IsAdmin() bool        { return id.IsSuperAdmin() || id.IsCenterAdmin() }

// PatientScope is the snapshot of a patient record the policy needs to decide
// access: its owner, its center, and the psychologists it is shared with.
type PatientScope struct {
	PsychologistID string
	CenterID       string
	SharedWith     []string
}

// CanAccessPatient decides read/write access to a single patient record.
// Pure function; callers handle the not-found case before consulting it.
func CanAccessPatient(id Identity, scope PatientScope) bool {
	switch id.Role {
	case RoleSuperAdmin:
		return true
	case RoleCenterAdmin:
		return scope.CenterID != "" && scope.CenterID == id.CenterID
	case RolePsychologist:
		if scope.PsychologistID == id.UserID {
			return true
		}
		for _, pid := range scope.SharedWith {
			if pid == id.UserID {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// RecordScope is the snapshot of a practitioner-owned record (appointment,
// session objective, payment). Records are denormalized with the owning
// psychologist and center at creation time.
type RecordScope struct {
	PsychologistID string
	CenterID       string
}

// CanAccessRecord decides access to a practitioner-owned record.
func CanAccessRecord(id Identity, scope RecordScope) bool {
	switch id.Role {
	case RoleSuperAdmin:
		return true
	case RoleCenterAdmin:
		return scope.CenterID != "" && scope.CenterID == id.CenterID
	case RolePsychologist:
		return scope.PsychologistID == id.UserID
	default:
		return false
	}
}

// ScopeFilter is the list-scoping predicate the policy hands to repositories.
// Exactly one of the three shapes is populated:
//   - All: no restriction (super_admin)
//   - CenterID: restrict to one center (center_admin)
//   - PsychologistID: restrict to records owned by (or, where the repository
//     supports it, shared with) one psychologist
type ScopeFilter struct {
	All            bool
	CenterID       string
	PsychologistID string
}

// PatientListFilter computes the scoping predicate for patient lists.
// Repositories additionally restrict every list to active records.
func PatientListFilter(id Identity) ScopeFilter {
	switch id.Role {
	case RoleSuperAdmin:
		return ScopeFilter{All: true}
	case RoleCenterAdmin:
		return ScopeFilter{CenterID: id.CenterID}
	default:
		return ScopeFilter{PsychologistID: id.UserID}
	}
}

// RecordListFilter computes the scoping predicate for appointment, objective,
// and payment lists. Same shape as patients minus shared-access expansion.
func RecordListFilter(id Identity) ScopeFilter {
	return PatientListFilter(id)
}

// UserListFilter computes the scoping predicate for user lists: super_admin
// sees everyone, center_admin their center, a psychologist only themself.
type UserFilter struct {
	All      bool
	CenterID string
	UserID   string
}

func UserListFilter(id Identity) UserFilter {
	switch id.Role {
	case RoleSuperAdmin:
		return UserFilter{All: true}
	case RoleCenterAdmin:
		return UserFilter{CenterID: id.CenterID}
	default:
		return UserFilter{UserID: id.UserID}
	}
}

// CanManageUser decides whether actor may create, modify, or deactivate a
// user with the given role and center affiliation. Center admins cannot touch
// super_admin accounts and are pinned to their own center.
func CanManageUser(actor Identity, targetRole, targetCenterID string) bool {
	switch actor.Role {
	case RoleSuperAdmin:
		return true
	case RoleCenterAdmin:
		if targetRole == RoleSuperAdmin {
			return false
		}
		return targetCenterID == actor.CenterID
	default:
		return false
	}
}

// selfUpdateFields is the fixed allow-list a psychologist may change on their
// own user record. Everything else requires an admin role.
var selfUpdateFields = map[string]bool{
	"full_name":      true,
	"phone":          true,
	"specialization": true,
	"license_number": true,
}

// SelfUpdateAllowed reports whether a non-admin may change the named field on
// their own record.
func SelfUpdateAllowed(field string) bool {
	return selfUpdateFields[field]
}
