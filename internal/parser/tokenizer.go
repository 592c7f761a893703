package parser

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/alexnews/gunlog/internal/domain"
)

// ErrNoMatch is returned for lines that do not match the combined log
// grammar. Callers skip such lines; they are never fatal.
var ErrNoMatch = errors.New("line does not match combined log format")

// linePattern matches the Apache/Nginx combined log format with an
// optional trailing response-time field:
//
//	ip - auth [timestamp] "request" status size|- "referrer" "user-agent" [response-time]
var linePattern = regexp.MustCompile(`^(\S+) - (\S+) \[([^\]]+)\] "([^"]*)" (\d+) (\d+|-) "([^"]*)" "([^"]*)"(?: (\d+(?:\.\d+)?))?`)

// Tokenizer splits raw access-log lines into typed LogRecords.
type Tokenizer struct{}

// NewTokenizer creates a tokenizer for the combined log format.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{}
}

// Tokenize parses one line. It returns ErrNoMatch for lines outside the
// grammar and a timestamp error (wrapping the offending value) when the
// date field cannot be parsed; in the latter case the returned record is
// still populated except for its time fields, so callers can decide how
// to attribute it.
func (t *Tokenizer) Tokenize(line string) (*domain.LogRecord, error) {
	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return nil, ErrNoMatch
	}

	rec := &domain.LogRecord{
		ClientIP:    m[1],
		AuthUser:    authUser(m[2]),
		RequestLine: m[4],
		UserAgent:   m[8],
	}

	rec.Method, rec.URL, rec.Protocol = splitRequest(m[4])

	status, err := strconv.Atoi(m[5])
	if err != nil {
		return nil, ErrNoMatch
	}
	rec.StatusCode = status

	// "-" means no size was recorded; keep that distinct from zero.
	if m[6] != "-" {
		size, err := strconv.ParseInt(m[6], 10, 64)
		if err == nil {
			rec.ResponseSize = size
			rec.HasSize = true
		}
	}

	if ref := m[7]; ref != "-" {
		rec.Referrer = ref
	}

	if m[9] != "" {
		if rt, err := strconv.ParseFloat(m[9], 64); err == nil {
			rec.ResponseTime = rt
			rec.HasResponseTime = true
		}
	}

	ts, hour, day, err := ParseTimestamp(m[3])
	if err != nil {
		return rec, err
	}
	rec.Timestamp = ts
	rec.HourOfDay = hour
	rec.DayOfWeek = day

	return rec, nil
}

// splitRequest breaks "<method> <url> HTTP/<ver>" apart. Requests with
// fewer than two tokens keep the sentinel "UNKNOWN" fields rather than
// failing the whole line.
func splitRequest(request string) (method, url, proto string) {
	parts := strings.Fields(request)
	if len(parts) < 2 {
		return "UNKNOWN", "UNKNOWN", ""
	}
	method, url = parts[0], parts[1]
	if len(parts) >= 3 {
		proto = parts[2]
	}
	return method, url, proto
}

func authUser(s string) string {
	if s == "-" {
		return ""
	}
	return s
}
