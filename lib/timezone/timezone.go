package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		panic(err)
	}
}

// force timezone to be IST because the portal renders and accepts
// dates in campus-local time, a server in another region would be off
// by a day around midnight when formatting "today"
func Now() time.Time {
	return time.Now().In(Location)
}

// dd-mm-yyyy, the only date format the portal understands
func FormatPortalDate(t time.Time) string {
	return t.In(Location).Format("02-01-2006")
}
