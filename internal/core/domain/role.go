package domain

// Role is the privilege level attached to a user at registration.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// roleRank orders the closed role set. Unknown roles rank zero.
var roleRank = map[Role]int{
	RoleStudent: 1,
	RoleTeacher: 2,
	RoleAdmin:   3,
}

// ParseRole maps a canonical lowercase role string to a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// Valid reports whether r belongs to the closed role set.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

func (r Role) String() string { return string(r) }

// Satisfies reports whether a holder of r may act where required is demanded.
func (r Role) Satisfies(required Role) bool {
	return Satisfies(r, required)
}

// Satisfies is the role hierarchy: admin ⊇ teacher ⊇ student.
// It is reflexive, and false whenever either side is outside the role set.
func Satisfies(held, required Role) bool {
	h, ok := roleRank[held]
	if !ok {
		return false
	}
	req, ok := roleRank[required]
	if !ok {
		return false
	}
	return h >= req
}
