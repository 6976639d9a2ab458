package domain

// StaffKind enumerates the clinic staff directories.
type StaffKind string

const (
	StaffKindDoctor StaffKind = "doctor"
	StaffKindNurse  StaffKind = "nurse"
)

// Table returns the backing table for the staff kind.
func (k StaffKind) Table() string {
	switch k {
	case StaffKindNurse:
		return "nurses"
	default:
		return "doctors"
	}
}
