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
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/stephenlclarke/fixmessage/checksum"
)

// Generate serialises m to wire format with the standard checksum gate.
func Generate(m *Message) (string, error) {
	return defaultParser.Generate(m)
}

// Generate serialises m to wire format. BeginString(8) is written from
// m.Version, BodyLength(9) and CheckSum(10) are recomputed and any stored
// copies of those three fields are ignored. The remaining fields are written
// in stored order, so MsgType(35) must come first among them. The output is
// run back through Parse and its error, if any, is returned.
func (p *Parser) Generate(m *Message) (string, error) {
	if m == nil || !validValue(m.Version) {
		return "", &Error{Kind: KindInvalidFieldStructure}
	}

	body := lo.Reject(m.Fields, func(f Field, _ int) bool {
		return f.Tag == TagBeginString || f.Tag == TagBodyLength || f.Tag == TagCheckSum
	})

	var sb strings.Builder
	for _, f := range body {
		if !validTag(f.Tag) || !validValue(f.Value) {
			return "", &Error{Kind: KindInvalidFieldStructure, Tag: f.Tag}
		}
		sb.WriteString(f.String())
		sb.WriteString(Delimiter)
	}

	out := Field{Tag: TagBeginString, Value: m.Version}.String() + Delimiter +
		Field{Tag: TagBodyLength, Value: strconv.Itoa(sb.Len())}.String() + Delimiter +
		sb.String()
	out += Field{Tag: TagCheckSum, Value: checksum.Format(checksum.Sum(out))}.String() + Delimiter

	if _, err := p.Parse(out); err != nil {
		return "", err
	}
	return out, nil
}

func validTag(tag string) bool {
	return tag != "" && !strings.ContainsAny(tag, FieldDelimiter+Delimiter)
}

func validValue(value string) bool {
	return value != "" && !strings.Contains(value, Delimiter)
}
