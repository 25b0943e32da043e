package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces the canonical JSON encoding of v.
//
// Encoding rules:
//   - Strings are NFC normalized with no HTML escaping
//   - Lists encode as {"bracketed":b,"items":[...],"separator":name}
//   - Maps encode as {"map":[[key,value],...]} with entries sorted by the
//     UTF-16 order of their encoded keys
//   - The empty map encodes as the empty undecided list
func MarshalCanonical(v Value) []byte {
	var buf bytes.Buffer
	writeCanonical(&buf, v)
	return buf.Bytes()
}

func writeCanonical(buf *bytes.Buffer, v Value) {
	switch val := v.(type) {
	case nil, Null:
		buf.WriteString("null")
	case String:
		buf.Write(marshalCanonicalString(string(val)))
	case Int:
		fmt.Fprintf(buf, "%d", int64(val))
	case Bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case List:
		writeList(buf, val)
	case Map:
		if val.Len() == 0 {
			writeList(buf, List{})
			return
		}
		writeMap(buf, val)
	}
}

func writeList(buf *bytes.Buffer, l List) {
	fmt.Fprintf(buf, `{"bracketed":%t,"items":[`, l.bracketed)
	for i, item := range l.items {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeCanonical(buf, item)
	}
	fmt.Fprintf(buf, `],"separator":"%s"}`, l.separator)
}

func writeMap(buf *bytes.Buffer, m Map) {
	type encoded struct {
		key string
		val []byte
	}
	entries := make([]encoded, len(m.entries))
	for i, e := range m.entries {
		entries[i] = encoded{
			key: string(MarshalCanonical(e.key)),
			val: MarshalCanonical(e.val),
		}
	}
	slices.SortFunc(entries, func(a, b encoded) int {
		return compareUTF16(a.key, b.key)
	})

	buf.WriteString(`{"map":[`)
	for i, e := range entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('[')
		buf.WriteString(e.key)
		buf.WriteByte(',')
		buf.Write(e.val)
		buf.WriteByte(']')
	}
	buf.WriteString("]}")
}

// compareUTF16 orders strings by UTF-16 code units as RFC 8785 requires.
// Go compares UTF-8 bytes, which orders supplementary characters differently.
func compareUTF16(a, b string) int {
	return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
}

// marshalCanonicalString encodes s as a JSON string after NFC normalization.
// Only quotes, backslashes, and control characters are escaped.
func marshalCanonicalString(s string) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(norm.NFC.String(s))

	out := bytes.TrimSuffix(buf.Bytes(), []byte{'\n'})
	return unescapeLineSeparators(out)
}

// unescapeLineSeparators restores U+2028 and U+2029, which encoding/json
// escapes for JavaScript. A sequence preceded by an odd number of backslashes
// is literal text and is kept.
func unescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}

	var out strings.Builder
	backslashes := 0
	for i := 0; i < len(data); i++ {
		if backslashes%2 == 0 && bytes.HasPrefix(data[i:], []byte(`\u202`)) && i+5 < len(data) {
			switch data[i+5] {
			case '8':
				out.WriteString("\u2028")
				i += 5
				backslashes = 0
				continue
			case '9':
				out.WriteString("\u2029")
				i += 5
				backslashes = 0
				continue
			}
		}
		if data[i] == '\\' {
			backslashes++
		} else {
			backslashes = 0
		}
		out.WriteByte(data[i])
	}
	return []byte(out.String())
}
