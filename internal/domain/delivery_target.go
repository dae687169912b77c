package domain

import "strings"

// DeliveryTarget is the push registration token of a single device.
type DeliveryTarget struct {
	token string
}

func NewDeliveryTarget(token string) (DeliveryTarget, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return DeliveryTarget{}, ErrEmptyDeliveryTarget
	}

	return DeliveryTarget{token: token}, nil
}

func (d DeliveryTarget) Token() string {
	return d.token
}

func (d DeliveryTarget) IsZero() bool {
	return d.token == ""
}

func (d DeliveryTarget) Equals(other DeliveryTarget) bool {
	return d.token == other.token
}

// String keeps tokens out of logs.
func (d DeliveryTarget) String() string {
	if len(d.token) <= 8 {
		return "***"
	}

	return d.token[:4] + "..." + d.token[len(d.token)-4:]
}
