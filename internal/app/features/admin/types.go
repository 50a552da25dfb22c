// internal/app/features/admin/types.go
package admin

// sponsorUpdateRequest carries a sponsor edit.
type sponsorUpdateRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// activeRequest flips a session's registration window.
type activeRequest struct {
	IsActive bool `json:"isActive"`
}

// codeRequest asks for a new registration code.
type codeRequest struct {
	Role string `json:"role"`
}
