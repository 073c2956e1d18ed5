package model

// Role names a semantic column of the audit sheet.
type Role string

// Column roles.
const (
	RoleLocation Role = "location"
	RolePerson   Role = "person"
	RoleDate     Role = "date"
	RoleStatus   Role = "status"
	RoleRating   Role = "rating"
)

// ColumnSchema binds each role to a zero-based column index.
// It is built once per fetch and never modified afterwards.
type ColumnSchema struct {
	Location       int `json:"location" yaml:"location"`
	Person         int `json:"person" yaml:"person"`
	Date           int `json:"date" yaml:"date"`
	Status         int `json:"status" yaml:"status"`
	Rating         int `json:"rating" yaml:"rating"`
	HeaderRowIndex int `json:"header_row_index" yaml:"header_row_index"`
}

// DataStartRowIndex is the first row of the data body.
func (s ColumnSchema) DataStartRowIndex() int {
	return s.HeaderRowIndex + 1
}

// Index returns the column bound to role, or -1 for an unknown role.
func (s ColumnSchema) Index(role Role) int {
	switch role {
	case RoleLocation:
		return s.Location
	case RolePerson:
		return s.Person
	case RoleDate:
		return s.Date
	case RoleStatus:
		return s.Status
	case RoleRating:
		return s.Rating
	default:
		return -1
	}
}
