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
	"fmt"
	"strings"
)

// Field is a single tag=value pair of a FIX message.
type Field struct {
	Tag   string
	Value string
}

func (f Field) String() string {
	return f.Tag + FieldDelimiter + f.Value
}

// Message is a parsed FIX message. Fields are kept in the order they
// appeared on the wire, header and trailer included. A Message returned by
// Parse is owned by the caller and is not modified by this package.
type Message struct {
	// Version is the BeginString(8) value.
	Version string
	Fields  []Field
}

// Get returns the value of the first field carrying tag.
func (m *Message) Get(tag string) (string, bool) {
	for _, f := range m.Fields {
		if f.Tag == tag {
			return f.Value, true
		}
	}
	return "", false
}

// MsgType returns the MsgType(35) value.
func (m *Message) MsgType() string {
	v, _ := m.Get(TagMsgType)
	return v
}

// Clone returns a deep copy of m.
func (m *Message) Clone() *Message {
	fields := make([]Field, len(m.Fields))
	copy(fields, m.Fields)
	return &Message{Version: m.Version, Fields: fields}
}

func (m *Message) String() string {
	parts := make([]string, len(m.Fields))
	for i, f := range m.Fields {
		parts[i] = f.String()
	}
	return fmt.Sprintf("%s\n[%s]", m.Version, strings.Join(parts, " "))
}
