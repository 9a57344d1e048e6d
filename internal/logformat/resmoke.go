package logformat

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// ProcessResmokeLine rewrites a structured log line of the form
//
//	[j0:s1:prim] {"t":{"$date":"..."},"s":"I","c":"NETWORK","id":22943,"ctx":"listener","msg":"...","attr":{...}}
//
// into a readable single line. Lines that do not carry a recognizable
// payload are returned unchanged.
func ProcessResmokeLine(raw string) string {
	entry, ok := parseResmoke(raw)
	if !ok {
		return raw
	}
	return entry.String()
}

type resmokeEntry struct {
	prefix    string
	timestamp string
	severity  string
	component string
	id        string
	context   string
	message   string
	attr      string
}

func parseResmoke(raw string) (resmokeEntry, bool) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return resmokeEntry{}, false
	}
	payload := raw[start:]
	if !gjson.Valid(payload) {
		return resmokeEntry{}, false
	}
	doc := gjson.Parse(payload)
	if !doc.IsObject() {
		return resmokeEntry{}, false
	}
	msg := doc.Get("msg")
	date, ok := doc.Get("t").Map()["$date"]
	if !msg.Exists() || !ok {
		return resmokeEntry{}, false
	}

	entry := resmokeEntry{
		prefix:    strings.TrimSpace(raw[:start]),
		timestamp: date.String(),
		severity:  doc.Get("s").String(),
		component: doc.Get("c").String(),
		id:        doc.Get("id").Raw,
		context:   doc.Get("ctx").String(),
		message:   msg.String(),
	}
	if attr := doc.Get("attr"); attr.Exists() {
		entry.attr = attr.Raw
	}
	return entry, true
}

func (e resmokeEntry) String() string {
	var b strings.Builder
	if e.prefix != "" {
		b.WriteString(e.prefix)
		b.WriteString(" | ")
	}
	fmt.Fprintf(&b, "%s %-2s %-8s %-7s [%s] %s",
		e.timestamp, e.severity, e.component, e.id, e.context, strconv.Quote(e.message))
	if e.attr != "" {
		b.WriteString(`,"attr":`)
		b.WriteString(e.attr)
	}
	return b.String()
}
