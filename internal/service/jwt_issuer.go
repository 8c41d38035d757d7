package service

import (
	"time"

	"github.com/Utfprpb-oficina-20251/server-sub001/internal/utils"
)

type JWTAccessIssuer struct {
	Manager *utils.JWTManager
}

func (i JWTAccessIssuer) IssueAccessToken(principal Principal) (string, time.Duration, error) {
	return i.Manager.IssueAccessToken(principal.UserID.String(), principal.Email, string(principal.Role))
}
