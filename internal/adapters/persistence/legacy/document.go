// Package legacy reads documents exported from the old document store and
// turns them into canonical records. Field spellings that drifted over time
// (forMonth|month, paidAmount|amount, timestamp|createdAt) are resolved here
// and nowhere else.
package legacy

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Collection names as they appear in an export
const (
	CollectionUsers          = "users"
	CollectionMemberRequests = "memberRequests"
	CollectionDeposits       = "deposits"
	CollectionLoans          = "loans"
	CollectionRepayments     = "repayments"
	CollectionTransactions   = "transactions"
	CollectionLogs           = "logs"
	CollectionNotifications  = "notifications"
	CollectionNotices        = "notices"
	CollectionSettings       = "settings"
)

// ImportOrder lists collections so that members exist before anything points at them
var ImportOrder = []string{
	CollectionUsers,
	CollectionMemberRequests,
	CollectionDeposits,
	CollectionLoans,
	CollectionRepayments,
	CollectionTransactions,
	CollectionLogs,
	CollectionNotifications,
	CollectionNotices,
	CollectionSettings,
}

// Doc is one exported document
type Doc map[string]any

// Export maps collection name to document id to document
type Export map[string]map[string]Doc

// Decode reads an export of the form {"users": {"<id>": {...}}, ...}
func Decode(r io.Reader) (Export, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var out Export
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}
	return out, nil
}

// Str returns the first non-empty string among keys
func (d Doc) Str(keys ...string) string {
	for _, k := range keys {
		switch v := d[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case json.Number:
			return v.String()
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// Money returns the first parseable amount among keys. Numbers and numeric
// strings are both accepted; missing values read as zero.
func (d Doc) Money(keys ...string) (decimal.Decimal, error) {
	for _, k := range keys {
		raw, ok := d[k]
		if !ok || raw == nil {
			continue
		}
		switch v := raw.(type) {
		case json.Number:
			return decimal.NewFromString(v.String())
		case float64:
			return decimal.NewFromFloat(v), nil
		case int:
			return decimal.NewFromInt(int64(v)), nil
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
			if s == "" {
				continue
			}
			amount, err := decimal.NewFromString(s)
			if err != nil {
				return decimal.Zero, fmt.Errorf("field %s: %q is not an amount", k, v)
			}
			return amount, nil
		default:
			return decimal.Zero, fmt.Errorf("field %s: unexpected %T", k, raw)
		}
	}
	return decimal.Zero, nil
}

// Int returns the first integer among keys, 0 when absent
func (d Doc) Int(keys ...string) int {
	amount, err := d.Money(keys...)
	if err != nil {
		return 0
	}
	return int(amount.IntPart())
}

// Bool returns the value of key, false when absent
func (d Doc) Bool(key string) bool {
	v, _ := d[key].(bool)
	return v
}

// Time returns the first timestamp among keys. Exported timestamps come as
// {"_seconds","_nanoseconds"}, {"seconds","nanoseconds"}, RFC 3339 strings or
// epoch milliseconds.
func (d Doc) Time(keys ...string) (time.Time, bool) {
	for _, k := range keys {
		if t, ok := parseTime(d[k]); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseTime(raw any) (time.Time, bool) {
	switch v := raw.(type) {
	case map[string]any:
		ts := Doc(v)
		secs := ts.Int("_seconds", "seconds")
		if secs == 0 {
			return time.Time{}, false
		}
		return time.Unix(int64(secs), int64(ts.Int("_nanoseconds", "nanoseconds"))).UTC(), true
	case string:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, strings.TrimSpace(v)); err == nil {
				return t.UTC(), true
			}
		}
	case json.Number:
		ms, err := v.Int64()
		if err == nil && ms > 0 {
			return time.UnixMilli(ms).UTC(), true
		}
	case float64:
		if v > 0 {
			return time.UnixMilli(int64(v)).UTC(), true
		}
	}
	return time.Time{}, false
}
