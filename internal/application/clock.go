package application

import "time"

// Clock lets tests pin the time stamped on new records
type Clock interface {
	Now() time.Time
}

// SystemClock is the default, backed by time.Now in UTC
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
