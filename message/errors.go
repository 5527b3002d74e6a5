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
package message

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies which rule a message broke.
type Kind int

const (
	KindInvalidChecksum Kind = iota + 1
	KindInvalidChecksumValue
	KindInvalidFieldStructure
	KindInvalidFirstField
	KindInvalidSecondField
	KindInvalidThirdField
	KindExtraRequiredFieldFound
	KindNotAllRequiredFieldsFound
)

var kindNames = map[Kind]string{
	KindInvalidChecksum:           "invalid_checksum",
	KindInvalidChecksumValue:      "invalid_checksum_value",
	KindInvalidFieldStructure:     "invalid_field_structure",
	KindInvalidFirstField:         "invalid_first_field",
	KindInvalidSecondField:        "invalid_second_field",
	KindInvalidThirdField:         "invalid_third_field",
	KindExtraRequiredFieldFound:   "extra_required_field_found",
	KindNotAllRequiredFieldsFound: "not_all_required_fields_found",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the single error type returned by Parse and Generate.
//
// Tag holds the offending tag for the positional errors and for
// KindExtraRequiredFieldFound. Missing lists the required tags still absent
// when KindNotAllRequiredFieldsFound is raised. Err is the checksum gate
// failure behind KindInvalidChecksum.
type Error struct {
	Kind    Kind
	Tag     string
	Missing []string
	Err     error
}

// Sentinels for errors.Is; an *Error matches any sentinel of the same Kind.
var (
	ErrInvalidChecksum           = &Error{Kind: KindInvalidChecksum}
	ErrInvalidChecksumValue      = &Error{Kind: KindInvalidChecksumValue}
	ErrInvalidFieldStructure     = &Error{Kind: KindInvalidFieldStructure}
	ErrInvalidFirstField         = &Error{Kind: KindInvalidFirstField}
	ErrInvalidSecondField        = &Error{Kind: KindInvalidSecondField}
	ErrInvalidThirdField         = &Error{Kind: KindInvalidThirdField}
	ErrExtraRequiredFieldFound   = &Error{Kind: KindExtraRequiredFieldFound}
	ErrNotAllRequiredFieldsFound = &Error{Kind: KindNotAllRequiredFieldsFound}
)

func (e *Error) Error() string {
	switch e.Kind {
	case KindInvalidChecksum:
		if e.Err == nil {
			return "invalid FIX message checksum"
		}
		return "invalid FIX message checksum: " + e.Err.Error()
	case KindInvalidChecksumValue:
		return "invalid value of FIX message checksum"
	case KindInvalidFieldStructure:
		return "invalid structure of FIX message field, should be <tag>=<value>"
	case KindInvalidFirstField:
		return positionMessage("first", TagBeginString, e.Tag)
	case KindInvalidSecondField:
		return positionMessage("second", TagBodyLength, e.Tag)
	case KindInvalidThirdField:
		return positionMessage("third", TagMsgType, e.Tag)
	case KindExtraRequiredFieldFound:
		if e.Tag == "" {
			return "required field found more than once"
		}
		return "required field found more than once: " + e.Tag
	case KindNotAllRequiredFieldsFound:
		if len(e.Missing) == 0 {
			return "not all required fields found"
		}
		return "not all required fields found, missing: " + strings.Join(e.Missing, ",")
	default:
		return e.Kind.String()
	}
}

func positionMessage(position, want, got string) string {
	msg := fmt.Sprintf("invalid %s field, should be `%s`", position, want)
	if got == "" {
		return msg
	}
	return msg + " but found: " + got
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the Kind carried by err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
