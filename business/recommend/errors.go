package recommend

import "errors"

// ErrNoScorersAvailable is returned when every scorer failed for an
// invocation. It is the only runtime error callers are expected to
// branch on; partial degradation is silent and visible via Statistics.
var ErrNoScorersAvailable = errors.New("no scorers available")
