package entity

import "time"

// OTPStatus is the state of a one-time code.
type OTPStatus string

const (
	OTPAvailable OTPStatus = "AVAILABLE"
	OTPUsed      OTPStatus = "USED"
	OTPExpired   OTPStatus = "EXPIRED"
)

// OTPPurpose names what a one-time code proves.
type OTPPurpose string

const (
	PurposeEmailVerification OTPPurpose = "EMAIL_VERIFICATION"
)

// OTPLength is the number of digits in a code.
const OTPLength = 8

// OneTimeCode is a short-lived numeric credential bound to a user and a purpose.
type OneTimeCode struct {
	ID        uint
	UserID    uint
	Code      string
	Purpose   OTPPurpose
	Status    OTPStatus
	ExpiresAt time.Time
	CreatedAt time.Time
}

// ExpiredAt reports whether the code is past its expiry at now.
func (o *OneTimeCode) ExpiredAt(now time.Time) bool {
	return o.ExpiresAt.Before(now)
}
