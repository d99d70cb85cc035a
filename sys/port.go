package sys

import (
	"fmt"
	"strconv"
	"strings"
)

// PortKey coerces a port identifier to its canonical form: the decimal
// string for numeric values, the trimmed string otherwise. Every port entry
// point (listen, unlisten, send, receive, ownership checks) must go through
// this so that 8080 and "8080" name the same port.
func PortKey(v any) string {
	switch p := v.(type) {
	case string:
		return strings.TrimSpace(p)
	case int:
		return strconv.Itoa(p)
	case int8:
		return strconv.FormatInt(int64(p), 10)
	case int16:
		return strconv.FormatInt(int64(p), 10)
	case int32:
		return strconv.FormatInt(int64(p), 10)
	case int64:
		return strconv.FormatInt(p, 10)
	case uint:
		return strconv.FormatUint(uint64(p), 10)
	case uint16:
		return strconv.FormatUint(uint64(p), 10)
	case uint32:
		return strconv.FormatUint(uint64(p), 10)
	case uint64:
		return strconv.FormatUint(p, 10)
	case float64:
		// Whole floats are common when payloads round-trip through JSON.
		if p == float64(int64(p)) {
			return strconv.FormatInt(int64(p), 10)
		}
		return strconv.FormatFloat(p, 'f', -1, 64)
	case fmt.Stringer:
		return strings.TrimSpace(p.String())
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
