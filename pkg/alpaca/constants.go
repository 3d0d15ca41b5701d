package alpaca

import "fmt"

// Authentication headers carrying the key id and secret verbatim.
const (
	HeaderKeyID     = "APCA-API-KEY-ID"
	HeaderSecretKey = "APCA-API-SECRET-KEY"
)

const (
	pathAccount  = "v2/account"
	pathAssets   = "v2/assets"
	pathBars     = "v1/bars"
	pathCalendar = "v2/calendar"
	pathClock    = "v2/clock"
)

// calendarWindowDays is how far past start the calendar looks by default.
const calendarWindowDays = 30

// dateLayout is the ISO-8601 calendar date format used by the calendar endpoint.
const dateLayout = "2006-01-02"

// Asset filters accepted by the assets endpoint.
const (
	AssetStatusActive   = "active"
	AssetStatusInactive = "inactive"

	AssetClassUSEquity = "us_equity"
	AssetClassCrypto   = "crypto"
)

// TimeFrame is the bar aggregation window used in the bars path.
type TimeFrame string

const (
	TimeFrameMinute TimeFrame = "minute"
	TimeFrame1Min   TimeFrame = "1Min"
	TimeFrame5Min   TimeFrame = "5Min"
	TimeFrame15Min  TimeFrame = "15Min"
	TimeFrameDay    TimeFrame = "day"
	TimeFrame1D     TimeFrame = "1D"
)

var validTimeFrames = map[TimeFrame]struct{}{
	TimeFrameMinute: {},
	TimeFrame1Min:   {},
	TimeFrame5Min:   {},
	TimeFrame15Min:  {},
	TimeFrameDay:    {},
	TimeFrame1D:     {},
}

// IsValid checks if the TimeFrame is one the bars endpoint accepts.
func (tf TimeFrame) IsValid() bool {
	_, ok := validTimeFrames[tf]
	return ok
}

// ParseTimeFrame parses a string into a valid TimeFrame.
func ParseTimeFrame(s string) (TimeFrame, error) {
	tf := TimeFrame(s)
	if !tf.IsValid() {
		return "", fmt.Errorf("invalid TimeFrame: %s", s)
	}
	return tf, nil
}
