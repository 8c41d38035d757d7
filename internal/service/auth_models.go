package service

import "time"

type RequestCodeInput struct {
	Email     string
	Purpose   string
	IPAddress *string
}

type AuthenticateInput struct {
	Email     string
	Code      string
	IPAddress *string
}

type AuthResult struct {
	Principal   Principal
	AccessToken string
	ExpiresIn   time.Duration
}
