package vo

type CredentialCheck struct {
	Subject  string `json:"subject"`
	Strategy string `json:"strategy"`
	Upgraded bool   `json:"upgraded"`
}
