package parameter

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
)

// EncodeShare renders p as a compact URL query using short keys.
// Fields equal to their default are omitted.
func EncodeShare(p SoundParams) string {
	p = Sanitize(p)
	d := Default()
	v := url.Values{}
	for _, f := range fields {
		if f.short == "" || f.get == nil {
			continue
		}
		s := f.get(&p)
		if s == f.get(&d) {
			continue
		}
		v.Set(f.short, s)
	}
	return v.Encode()
}

// DecodeShare parses a query produced by EncodeShare. A leading '?' is allowed.
// Malformed values fall back to defaults.
func DecodeShare(query string) SoundParams {
	values, err := url.ParseQuery(strings.TrimPrefix(query, "?"))
	if err != nil {
		return Default()
	}
	return FromShareValues(values)
}

// FromShareValues decodes already-parsed share query values
func FromShareValues(values url.Values) SoundParams {
	raw := make(map[string]json.RawMessage)
	for _, f := range fields {
		if f.short == "" || !values.Has(f.short) {
			continue
		}
		if msg, ok := shareToJSON(f.kind, values.Get(f.short)); ok {
			raw[f.key] = msg
		}
	}
	out := Default()
	out.apply(raw)
	return Sanitize(out)
}

func shareToJSON(kind fieldKind, s string) (json.RawMessage, bool) {
	switch kind {
	case kindNumber, kindInt:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, false
		}
		b, err := json.Marshal(f)
		return b, err == nil

	case kindText:
		b, err := json.Marshal(s)
		return b, err == nil

	case kindWaveList:
		var list []string
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				list = append(list, part)
			}
		}
		b, err := json.Marshal(list)
		return b, err == nil

	case kindNumberList:
		var list []float64
		for _, part := range strings.Split(s, ",") {
			f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return nil, false
			}
			list = append(list, f)
		}
		b, err := json.Marshal(list)
		return b, err == nil
	}
	return nil, false
}
