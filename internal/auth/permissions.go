package auth

// Console sections, used for role gating. Staff accounts only operate the
// customer and reservation screens; everything else is admin territory.
const (
	SectionCustomers    = "customers"
	SectionReservations = "reservations"
	SectionSales        = "sales"
	SectionMenu         = "menu"
	SectionUsers        = "users"
	SectionReports      = "reports"
	SectionMarketing    = "marketing"
)

var staffSections = map[string]bool{
	SectionCustomers:    true,
	SectionReservations: true,
}

func RoleAllows(role UserRole, section string) bool {
	switch role {
	case RoleAdmin:
		return true
	case RoleStaff:
		return staffSections[section]
	default:
		return false
	}
}

func ValidRole(role string) bool {
	return role == string(RoleAdmin) || role == string(RoleStaff)
}
