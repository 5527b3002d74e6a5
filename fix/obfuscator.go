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
package fix

import (
	"fmt"
	"maps"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/stephenlclarke/fixmessage/message"
	"go.uber.org/zap"
)

// SensitiveTags are the identifiers hidden by default: counterparties,
// routing and account fields.
var SensitiveTags = map[string]string{
	"1":   "Account",
	"49":  "SenderCompID",
	"50":  "SenderSubID",
	"56":  "TargetCompID",
	"57":  "TargetSubID",
	"115": "OnBehalfOfCompID",
	"116": "OnBehalfOfSubID",
	"128": "DeliverToCompID",
	"129": "DeliverToSubID",
	"448": "PartyID",
}

// Obfuscator replaces values of sensitive FIX tags with stable aliases: the
// same tag=value pair always maps to the same alias for the lifetime of the
// Obfuscator. It is safe for concurrent use.
type Obfuscator struct {
	enabled  bool
	tags     map[string]string // tag -> name
	log      *zap.Logger
	mu       sync.Mutex        // protects aliasMap and counter
	aliasMap map[string]string // "tag=value" -> alias
	counter  map[string]int    // per-tag, for zero-padded suffixes
}

// CreateObfuscator constructs an Obfuscator for tags. When enabled is false
// every method hands its input back unchanged.
func CreateObfuscator(tags map[string]string, enabled bool, log *zap.Logger) *Obfuscator {
	if log == nil {
		log = zap.NewNop()
	}

	return &Obfuscator{
		enabled:  enabled,
		tags:     maps.Clone(tags),
		log:      log,
		aliasMap: make(map[string]string),
		counter:  make(map[string]int),
	}
}

func (o *Obfuscator) Enabled() bool { return o != nil && o.enabled }

// Message returns a copy of m with sensitive values replaced. BodyLength and
// CheckSum are left as they were; use message.Generate to get a consistent
// wire form of the result.
func (o *Obfuscator) Message(m *message.Message) *message.Message {
	if !o.Enabled() {
		return m
	}

	out := m.Clone()
	out.Fields = lo.Map(out.Fields, func(f message.Field, _ int) message.Field {
		if name, ok := o.tags[f.Tag]; ok {
			f.Value = o.alias(f.Tag, name, f.Value)
		}
		return f
	})
	return out
}

// Line rewrites an SOH-delimited line that could not be parsed, replacing
// values for sensitive tags and leaving anything malformed alone.
func (o *Obfuscator) Line(line string) string {
	if !o.Enabled() {
		return line
	}

	fields := strings.Split(line, message.Delimiter)

	for i, f := range fields {
		tag, val, ok := strings.Cut(f, message.FieldDelimiter)
		if !ok {
			continue
		}

		// a log prefix may share the segment with the first tag
		tag = tag[strings.LastIndexAny(tag, " \t")+1:]

		name, sensitive := o.tags[tag]
		if !sensitive {
			continue
		}

		fields[i] = f[:len(f)-len(val)] + o.alias(tag, name, val)
	}

	return strings.Join(fields, message.Delimiter)
}

func (o *Obfuscator) alias(tag, name, value string) string {
	key := tag + message.FieldDelimiter + value

	o.mu.Lock()
	defer o.mu.Unlock()

	if alias, ok := o.aliasMap[key]; ok {
		return alias
	}

	o.counter[tag]++
	alias := fmt.Sprintf("%s%04d", name, o.counter[tag])
	o.aliasMap[key] = alias

	o.log.Debug("first use of sensitive value",
		zap.String("tag", tag),
		zap.String("name", name),
		zap.String("alias", alias),
	)

	return alias
}
