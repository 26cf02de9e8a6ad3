package vo

import "errors"

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrCredentialNotFound = errors.New("credential not found")
