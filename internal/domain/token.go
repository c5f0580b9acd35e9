package domain

import "time"

// AccessToken — bearer-токен upstream с моментом истечения.
// При обновлении заменяется целиком.
type AccessToken struct {
	Value     string
	ExpiresAt time.Time
}
