// internal/app/features/pairings/types.go
package pairings

// findRequest is the registration payload a godchild submits.
type findRequest struct {
	GodchildName   string `json:"godchildName"`
	GodchildGender string `json:"godchildGender"`
	SessionID      string `json:"sessionID"`
	SessionCode    string `json:"sessionCode"`
}

// findResponse is returned on 201 (new assignment) and 200 (replay).
type findResponse struct {
	Message      string `json:"message"`
	SponsorName  string `json:"sponsorName"`
	SponsorPhone string `json:"sponsorPhone"`
	Duo          bool   `json:"duo"`
}
