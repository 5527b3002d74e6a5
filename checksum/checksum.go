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

// Package checksum implements the FIX CheckSum(10) gate: it locates the
// first checksum field, checks that its value is a non-negative integer
// and compares it with the sum of the bytes that precede it.
package checksum

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	soh    = "\x01"
	marker = soh + "10="
)

// ErrFieldNotFound is returned when the message carries no CheckSum(10) field.
var ErrFieldNotFound = errors.New("checksum field not found")

// FormatError reports a CheckSum(10) value that is not a valid non-negative integer.
type FormatError struct {
	Value string
	Err   error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("checksum field has invalid format %q: %v", e.Value, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Validate reports whether the first CheckSum(10) value of msg matches the
// sum of every byte up to and including the SOH that precedes the field.
// This is the field at which Parse ends its header checks. An error is
// returned only when the field is missing or its value is not numeric.
func Validate(msg string) (bool, error) {
	cutoff := strings.Index(msg, marker)
	if cutoff == -1 {
		return false, ErrFieldNotFound
	}

	value := msg[cutoff+len(marker):]
	if end := strings.Index(value, soh); end != -1 {
		value = value[:end]
	}

	want, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return false, &FormatError{Value: value, Err: err}
	}

	return uint64(Sum(msg[:cutoff+1])) == want, nil
}

// Sum returns the FIX checksum of data: the byte sum modulo 256.
func Sum(data string) int {
	sum := 0
	for i := 0; i < len(data); i++ {
		sum += int(data[i])
	}
	return sum % 256
}

// Format renders a checksum the way it is written on the wire (three digits).
func Format(sum int) string {
	return fmt.Sprintf("%03d", sum)
}
