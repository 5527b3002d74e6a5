/*
fixmessage — FIX message parsing and validation
Copyright (C) 2025 Steve Clarke <stephenlclarke@mac.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU Affero General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.

In accordance with section 13 of the AGPL, if you modify this program,
your modified version must prominently offer all users interacting with it
remotely through a computer network an opportunity to receive the source
code of your version.
*/

// Package message parses and validates FIX messages independently of the
// protocol version. Only the rules shared by every version are enforced:
// the checksum, the position of BeginString(8), BodyLength(9) and MsgType(35),
// and the presence of each standard header field exactly once before
// CheckSum(10). Body fields are left to version specific handlers.
package message

import (
	"strings"

	"github.com/stephenlclarke/fixmessage/checksum"
)

// ChecksumGate checks the trailing CheckSum(10) field of a raw message. It
// returns an error when the field is missing or malformed and false when the
// value does not match.
type ChecksumGate interface {
	Validate(raw string) (bool, error)
}

// GateFunc adapts a function to ChecksumGate.
type GateFunc func(raw string) (bool, error)

func (f GateFunc) Validate(raw string) (bool, error) { return f(raw) }

// Parser validates raw messages. The zero value is not usable; use NewParser.
type Parser struct {
	gate ChecksumGate
}

// NewParser returns a Parser backed by gate. A nil gate selects checksum.Validate.
func NewParser(gate ChecksumGate) *Parser {
	if gate == nil {
		gate = GateFunc(checksum.Validate)
	}
	return &Parser{gate: gate}
}

var defaultParser = NewParser(nil)

// Parse validates raw with the standard checksum gate and returns its fields.
func Parse(raw string) (*Message, error) {
	return defaultParser.Parse(raw)
}

// Parse runs the checksum gate on the undivided text, then walks the fields
// left to right and stops at the first broken rule.
func (p *Parser) Parse(raw string) (*Message, error) {
	valid, err := p.gate.Validate(raw)
	if err != nil {
		return nil, &Error{Kind: KindInvalidChecksum, Err: err}
	}
	if !valid {
		return nil, &Error{Kind: KindInvalidChecksumValue}
	}

	// FIX fields are SOH terminated, so the last field may carry one.
	parts := strings.Split(strings.TrimSuffix(raw, Delimiter), Delimiter)

	required := newRequiredSet()
	fields := make([]Field, 0, len(parts))
	sawChecksum := false

	for i, part := range parts {
		f, err := splitField(part)
		if err != nil {
			return nil, err
		}

		if err := checkPosition(i, f.Tag); err != nil {
			return nil, err
		}

		if err := required.consume(f.Tag); err != nil {
			return nil, err
		}

		if f.Tag == TagCheckSum {
			if missing := required.missing(); len(missing) > 0 {
				return nil, &Error{Kind: KindNotAllRequiredFieldsFound, Missing: missing}
			}
			sawChecksum = true
		}

		fields = append(fields, f)
	}

	if !sawChecksum {
		return nil, &Error{Kind: KindInvalidChecksum, Err: checksum.ErrFieldNotFound}
	}

	return &Message{Version: fields[0].Value, Fields: fields}, nil
}

// splitField splits on the first '=' only; values may contain more of them.
func splitField(s string) (Field, error) {
	tag, value, ok := strings.Cut(s, FieldDelimiter)
	if !ok || tag == "" || value == "" {
		return Field{}, &Error{Kind: KindInvalidFieldStructure}
	}
	return Field{Tag: tag, Value: value}, nil
}

func checkPosition(index int, tag string) error {
	var want string
	var kind Kind

	switch index {
	case 0:
		want, kind = TagBeginString, KindInvalidFirstField
	case 1:
		want, kind = TagBodyLength, KindInvalidSecondField
	case 2:
		want, kind = TagMsgType, KindInvalidThirdField
	default:
		return nil
	}

	if tag != want {
		return &Error{Kind: kind, Tag: tag}
	}
	return nil
}

// requiredSet tracks which standard header tags are still to be seen in a
// single Parse call.
type requiredSet map[string]struct{}

func newRequiredSet() requiredSet {
	s := make(requiredSet, len(requiredTags))
	for _, tag := range requiredTags {
		s[tag] = struct{}{}
	}
	return s
}

func (s requiredSet) consume(tag string) error {
	if !IsRequired(tag) {
		return nil
	}
	if _, ok := s[tag]; !ok {
		return &Error{Kind: KindExtraRequiredFieldFound, Tag: tag}
	}
	delete(s, tag)
	return nil
}

func (s requiredSet) missing() []string {
	var out []string
	for _, tag := range requiredTags {
		if _, ok := s[tag]; ok {
			out = append(out, tag)
		}
	}
	return out
}
