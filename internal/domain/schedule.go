package domain

import "time"

// DefaultScheduleLookahead — горизонт, за которым заказ считается запланированным.
const DefaultScheduleLookahead = 5 * time.Minute

// IsScheduled — время отправки позже now + lookahead.
func IsScheduled(sendTime, now time.Time, lookahead time.Duration) bool {
	return sendTime.After(now.Add(lookahead))
}
