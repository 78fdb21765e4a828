package assessment

import "time"

// timeNow is the session clock. Tests replace it to control elapsed time.
var timeNow = time.Now
