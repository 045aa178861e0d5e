package models

import "encoding/json"

// Result is the envelope every non-propagating client call returns.
// A failed result never carries Data; a successful one never carries Message.
type Result[T any] struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Token      string      `json:"token,omitempty"`
	Data       T           `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination is passed through from the backend. Raw keeps the original
// bytes so fields this package does not know about survive a round trip.
type Pagination struct {
	Count      int             `json:"count"`
	Next       *string         `json:"next"`
	Previous   *string         `json:"previous"`
	TotalPages int             `json:"totalPages"`
	Raw        json.RawMessage `json:"-"`
}

func (p *Pagination) UnmarshalJSON(b []byte) error {
	type plain Pagination
	var v plain
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*p = Pagination(v)
	p.Raw = append(json.RawMessage(nil), b...)
	return nil
}

func (p Pagination) MarshalJSON() ([]byte, error) {
	if len(p.Raw) > 0 {
		return p.Raw, nil
	}
	type plain Pagination
	return json.Marshal(plain(p))
}

type AuthResponse struct {
	Token    string `json:"token,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Message  string `json:"message,omitempty"`
}

// AuthData is accepted by SetAuthData. AuthToken wins over the legacy Token field.
type AuthData struct {
	AuthToken string `json:"authToken,omitempty"`
	Token     string `json:"token,omitempty"`
	Username  string `json:"username,omitempty"`
}

type RegisterData struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Availability struct {
	Available bool `json:"available"`
}

type UploadResponse struct {
	ID            string `json:"id"`
	Filename      string `json:"filename"`
	OriginalName  string `json:"original_name"`
	RequirementID string `json:"requirement_id,omitempty"`
	Status        string `json:"status"`
}

type ProcessUploadsRequest struct {
	RequirementID string   `json:"requirement_id"`
	DocumentIDs   []string `json:"document_ids"`
}

// CVDetailsPage is the paginated body of GET /api/cv/details/{id}/.
type CVDetailsPage struct {
	Results    []CVDetail  `json:"results"`
	Pagination *Pagination `json:"pagination"`
}
