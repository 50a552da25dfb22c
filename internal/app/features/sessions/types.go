// internal/app/features/sessions/types.go
package sessions

// createRequest is the delegate's session-creation payload. SponsorsList is
// one "Name, Phone" pair per line.
type createRequest struct {
	SessionName         string `json:"sessionName"`
	SessionCode         string `json:"sessionCode"`
	ExpectedGodchildren int    `json:"expectedGodchildren"`
	SponsorsList        string `json:"sponsorsList"`
}

// joinRequest is a sponsor's self-registration payload.
type joinRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	SessionCode string `json:"sessionCode"`
}

// sessionSummary is the public view of a session: never the access code,
// never the sponsor pool.
type sessionSummary struct {
	ID          string `json:"_id"`
	SessionName string `json:"sessionName"`
}
