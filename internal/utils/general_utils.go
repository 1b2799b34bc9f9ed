package utils

import "time"

// StrToTime parses an RFC3339 timestamp, the wire format of the pagination
// cursor.
func StrToTime(value string) (*time.Time, error) {
	result, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
