package dto

type AuthStatusResponse struct {
	Authenticated bool   `json:"authenticated"`
	Configured    bool   `json:"configured"`
	Message       string `json:"message"`
}
