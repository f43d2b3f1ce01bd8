package models

// User identifies the visitor the request is made for. The engine assigns a
// key on first contact and echoes it back in every response.
type User struct {
	Key string `json:"key"`
}

// Consent carries the visitor's privacy consent flags.
type Consent struct {
	GDPR bool `json:"gdpr"`
}
