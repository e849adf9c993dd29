package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Credential is the bearer token of one session plus the phone it was issued for.
type Credential struct {
	Token string `json:"token" db:"token"`
	Phone string `json:"phone,omitempty" db:"phone"`
}

// ExpiresAt reads the exp claim of a JWT token without verifying it. The
// signature is the election API's concern; this is only used for display and
// cookie lifetimes.
func (c Credential) ExpiresAt() (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(c.Token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// MaskedPhone keeps the last four digits for logs.
func (c Credential) MaskedPhone() string {
	return MaskPhone(c.Phone)
}

func MaskPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	masked := make([]byte, len(phone))
	for i := range masked {
		if i < len(phone)-4 {
			masked[i] = '*'
		} else {
			masked[i] = phone[i]
		}
	}
	return string(masked)
}
