package models

import "time"

// LocalZone is the support team's operations zone (Brazil, fixed UTC-3).
// All captured timestamps use it so that day/month search filters line up
// with the wall-clock dates operators type in.
var LocalZone = time.FixedZone("-03", -3*60*60)

// Now returns the current time in LocalZone.
func Now() time.Time {
	return time.Now().In(LocalZone)
}
