// Package hexfile implements the generic record-format engine shared by
// all line-oriented hex/object-file dialects: a per-character template
// compiled into a line matcher, a reader that validates and assembles
// records into an image, and a writer that renders an image back into
// records through per-dialect policy hooks.
package hexfile

import (
	"fmt"
	"regexp"
	"strings"
)

// FieldKind identifies what a template field captures.
type FieldKind int

const (
	FieldLength FieldKind = iota
	FieldType
	FieldAddress
	FieldData
	FieldUnparsed
	FieldChecksum
	FieldAddrChecksum
)

func (k FieldKind) String() string {
	switch k {
	case FieldLength:
		return "LENGTH"
	case FieldType:
		return "TYPE"
	case FieldAddress:
		return "ADDRESS"
	case FieldData:
		return "DATA"
	case FieldUnparsed:
		return "UNPARSED"
	case FieldChecksum:
		return "CHECKSUM"
	case FieldAddrChecksum:
		return "ADDR_CHECKSUM"
	default:
		return "UNKNOWN"
	}
}

// Template designator characters. Any other repeated character is a
// literal; a run of spaces matches that many whitespace characters of
// any kind.
var designators = map[byte]FieldKind{
	'L': FieldLength,
	'T': FieldType,
	'A': FieldAddress,
	'D': FieldData,
	'U': FieldUnparsed,
	'C': FieldChecksum,
	'B': FieldAddrChecksum,
}

// Capture group names, shared between the compiler and the record
// decoder.
const (
	groupLength       = "length"
	groupType         = "rectype"
	groupAddress      = "address"
	groupChunk        = "chunk"
	groupChecksum     = "checksum"
	groupAddrChecksum = "addrchecksum"
	groupJunk         = "junk"
)

// CompiledFormat is an anchored matcher over one text line exposing each
// field's captured text plus an unconsumed trailing junk capture that
// never causes a match failure.
type CompiledFormat struct {
	template string
	re       *regexp.Regexp
}

// Compile translates a per-character template into a line matcher. The
// template is partitioned into maximal runs of one repeated character;
// designator runs become fields (width advisory for L/T/A/C/B, ignored
// for D/U which greedily match hex-digit pairs, optionally interleaved
// with dataSeparators), everything else matches verbatim. An
// unrecognized designator is deliberately treated as a literal, since
// dialect templates embed fixed digits and punctuation.
func Compile(template string, dataSeparators string) *CompiledFormat {
	var pattern strings.Builder
	pattern.WriteString("(?s)^")
	for i := 0; i < len(template); {
		ch := template[i]
		j := i
		for j < len(template) && template[j] == ch {
			j++
		}
		writeRun(&pattern, ch, j-i, dataSeparators)
		i = j
	}
	pattern.WriteString("(?P<" + groupJunk + ">.*?)$")
	return &CompiledFormat{
		template: template,
		re:       regexp.MustCompile(pattern.String()),
	}
}

func writeRun(pattern *strings.Builder, ch byte, count int, dataSeparators string) {
	kind, ok := designators[ch]
	if !ok {
		if ch == ' ' {
			fmt.Fprintf(pattern, `\s{%d}`, count)
		} else {
			pattern.WriteString(strings.Repeat(regexp.QuoteMeta(string(ch)), count))
		}
		return
	}
	switch kind {
	case FieldLength:
		fmt.Fprintf(pattern, `(?P<%s>[0-9a-zA-Z]{%d})`, groupLength, count)
	case FieldType:
		fmt.Fprintf(pattern, `(?P<%s>\d{%d})`, groupType, count)
	case FieldAddress:
		fmt.Fprintf(pattern, `(?P<%s>[0-9a-zA-Z]{%d})`, groupAddress, count)
	case FieldData:
		// Zero-width so that records without payload (EOF lines)
		// still match.
		if dataSeparators != "" {
			fmt.Fprintf(pattern, `(?P<%s>[0-9a-zA-Z%s]*)`, groupChunk, escapeClass(dataSeparators))
		} else {
			fmt.Fprintf(pattern, `(?P<%s>[0-9a-zA-Z]*)`, groupChunk)
		}
	case FieldUnparsed:
		fmt.Fprintf(pattern, `(?P<%s>.*)`, groupChunk)
	case FieldChecksum:
		fmt.Fprintf(pattern, `(?P<%s>[0-9a-zA-Z]{%d})`, groupChecksum, count)
	case FieldAddrChecksum:
		fmt.Fprintf(pattern, `(?P<%s>[0-9a-zA-Z]{%d})`, groupAddrChecksum, count)
	}
}

// escapeClass escapes characters for use inside a regexp character
// class.
func escapeClass(chars string) string {
	var b strings.Builder
	for _, ch := range chars {
		switch ch {
		case '\\', ']', '^', '-':
			b.WriteByte('\\')
		}
		b.WriteRune(ch)
	}
	return b.String()
}

// Template returns the template the format was compiled from.
func (f *CompiledFormat) Template() string {
	return f.template
}

// Match matches a single line against the format. On success it returns
// the captured field texts keyed by group name; the junk group is always
// present (possibly empty) and never fails the match.
func (f *CompiledFormat) Match(line string) (map[string]string, bool) {
	m := f.re.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	groups := make(map[string]string)
	for i, name := range f.re.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		groups[name] = m[i]
	}
	return groups, true
}
