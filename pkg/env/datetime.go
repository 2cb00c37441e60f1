package env

import (
	"strconv"
	"strings"
	"time"

	"github.com/arthur-debert/buildtiming/pkg/errors"
	"github.com/arthur-debert/buildtiming/pkg/types"
)

// RFC2822 is the layout used for human-facing build times
const RFC2822 = time.RFC1123Z

// BuildTime returns the build timestamp. SOURCE_DATE_EPOCH, when set,
// overrides the captured clock and is interpreted as unix seconds in UTC.
func BuildTime(e types.Environment) (time.Time, error) {
	if raw, ok := e.Getenv(SourceDateEpoch); ok && strings.TrimSpace(raw) != "" {
		secs, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return time.Time{}, errors.Wrapf(err, errors.ErrExternalSignal,
				"invalid %s value %q", SourceDateEpoch, raw)
		}
		return time.Unix(secs, 0).UTC(), nil
	}
	return e.Now(), nil
}
