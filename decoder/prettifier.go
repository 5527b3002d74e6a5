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
package decoder

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/stephenlclarke/fixmessage/fix"
	"github.com/stephenlclarke/fixmessage/internal/metrics"
	"github.com/stephenlclarke/fixmessage/message"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/term"
)

var (
	getTermSize = term.GetSize // allow override in tests
	fixPattern  = regexp.MustCompile(`\b8=FIX.*?\x0110=[^\x01\s]*\x01?`)
)

const maxLineSize = 1024 * 1024

var (
	ColourReset = "\033[0m"
	ColourLine  = "\033[38;5;244m"
	ColourTag   = "\033[38;5;81m"
	ColourName  = "\033[38;5;151m"
	ColourValue = "\033[38;5;228m"
	ColourEnum  = "\033[38;5;214m"
	ColourFile  = "\033[95m"
	ColourError = "\033[31m"
	ColourMsg   = "\033[97m"
	ColourTitle = "\033[31m"
)

func DisableColours() {
	ColourReset = ""
	ColourLine = ""
	ColourTag = ""
	ColourName = ""
	ColourValue = ""
	ColourEnum = ""
	ColourFile = ""
	ColourError = ""
	ColourMsg = ""
	ColourTitle = ""
}

// Options configure a Processor. Every field is optional.
type Options struct {
	Parser     *message.Parser
	Obfuscator *fix.Obfuscator
	Logger     *zap.Logger
	Metrics    *metrics.Recorder
	// Charset names the encoding of the input ("latin1", "windows-1252", ...).
	Charset string
	Stdin   io.Reader
}

// Processor scans log streams for FIX messages, validates each one and
// prints its fields or the reason it was rejected.
type Processor struct {
	out, errOut io.Writer
	stdin       io.Reader
	parser      *message.Parser
	obfuscator  *fix.Obfuscator
	log         *zap.Logger
	metrics     *metrics.Recorder
	charset     string
	separator   string

	parsed, rejected int
}

func NewProcessor(out, errOut io.Writer, opts Options) *Processor {
	p := &Processor{
		out:        out,
		errOut:     errOut,
		stdin:      opts.Stdin,
		parser:     opts.Parser,
		obfuscator: opts.Obfuscator,
		log:        opts.Logger,
		metrics:    opts.Metrics,
		charset:    opts.Charset,
	}

	if p.stdin == nil {
		p.stdin = os.Stdin
	}
	if p.parser == nil {
		p.parser = message.NewParser(nil)
	}
	if p.log == nil {
		p.log = zap.NewNop()
	}

	return p
}

// Parsed and Rejected return how many messages passed and failed validation.
func (p *Processor) Parsed() int   { return p.parsed }
func (p *Processor) Rejected() int { return p.rejected }

// PrettifyFiles processes every path in turn, "-" meaning stdin, and
// returns 1 if any of them could not be read.
func (p *Processor) PrettifyFiles(paths []string) int {
	hadError := false

	if len(paths) == 0 {
		paths = []string{"-"}
	}

	for _, path := range paths {
		var (
			r io.Reader
			c io.Closer // nil when reading stdin
		)

		if path == "-" {
			fmt.Fprint(p.out, "Processing: (stdin)\n\n")
			r = p.stdin
		} else {
			fmt.Fprint(p.out, "Processing: ", ColourFile, path, ColourReset, "\n\n")

			f, err := os.Open(path)
			if err != nil {
				fmt.Fprintln(p.errOut, ColourError+"Cannot open file: "+err.Error()+ColourReset)
				p.log.Error("cannot open input", zap.String("path", path), zap.Error(err))
				hadError = true
				continue
			}

			r, c = f, f
		}

		if err := p.streamLog(r); err != nil {
			fmt.Fprintln(p.errOut, ColourError+"Error reading input: "+err.Error()+ColourReset)
			p.log.Error("cannot read input", zap.String("path", path), zap.Error(err))
			hadError = true
		}

		if c != nil {
			c.Close()
		}
	}

	p.log.Info("decoding finished",
		zap.Int("files", len(paths)),
		zap.Int("parsed", p.parsed),
		zap.Int("rejected", p.rejected),
	)

	if hadError {
		return 1
	}

	return 0
}

func (p *Processor) streamLog(in io.Reader) error {
	if p.charset != "" {
		decoded, err := charset.NewReaderLabel(p.charset, in)
		if err != nil {
			return err
		}
		in = decoded
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	p.separator = ColourTitle + strings.Repeat("=", getTerminalWidth()) + ColourReset + "\n"

	for scanner.Scan() {
		p.handleLogLine(scanner.Text())
	}

	return scanner.Err()
}

// decoded is the outcome for one FIX message found in a line. wire is the
// text shown in place of the original, obfuscated when that is enabled.
type decoded struct {
	wire string
	msg  *message.Message
	err  error
}

func (p *Processor) handleLogLine(line string) {
	p.metrics.Line()

	matches := findFixMessageIndices(line)

	if len(matches) == 0 {
		fmt.Fprint(p.out, ColourLine, line, ColourReset, "\n")
		return
	}

	results := make([]decoded, len(matches))
	for i, m := range matches {
		results[i] = p.decode(line[m[0]:m[1]])
	}

	fmt.Fprint(p.out, formatLine(line, matches, results))
	fmt.Fprint(p.out, p.separator)

	for _, r := range results {
		p.printDecoded(r)
	}
}

func (p *Processor) decode(raw string) decoded {
	msg, err := p.parser.Parse(raw)
	if err != nil {
		p.rejected++
		kind := message.KindOf(err)
		p.metrics.Rejected(kind.String())
		p.log.Debug("rejected FIX message", zap.Stringer("kind", kind), zap.Error(err))

		return decoded{wire: p.obfuscator.Line(raw), err: err}
	}

	p.parsed++
	p.metrics.Parsed(msg.MsgType())

	if !p.obfuscator.Enabled() {
		return decoded{wire: raw, msg: msg}
	}

	wire, err := p.parser.Generate(p.obfuscator.Message(msg))
	if err != nil {
		p.log.Warn("cannot regenerate obfuscated message", zap.Error(err))
		return decoded{wire: p.obfuscator.Line(raw), msg: p.obfuscator.Message(msg)}
	}

	hidden, err := p.parser.Parse(wire)
	if err != nil {
		p.log.Warn("cannot parse regenerated message", zap.Error(err))
		hidden = p.obfuscator.Message(msg)
	}
	return decoded{wire: wire, msg: hidden}
}

func (p *Processor) printDecoded(r decoded) {
	if r.err != nil {
		fmt.Fprintf(p.out, "%s== %s%s\n", ColourError, r.err, ColourReset)
	} else {
		fmt.Fprint(p.out, Prettify(r.msg))
	}

	fmt.Fprint(p.out, p.separator)
}

// Prettify renders one field per line with its name and, for MsgType, the
// message name.
func Prettify(msg *message.Message) string {
	var sb strings.Builder

	for _, f := range msg.Fields {
		sb.WriteString(fmt.Sprintf("    %s%4s%s (%s%s%s): %s%s%s",
			ColourTag, f.Tag, ColourReset,
			ColourName, message.TagName(f.Tag), ColourReset,
			ColourValue, f.Value, ColourReset,
		))

		if f.Tag == message.TagMsgType {
			if desc := message.MsgTypeName(f.Value); desc != "" {
				sb.WriteString(fmt.Sprintf(" (%s%s%s)", ColourEnum, desc, ColourReset))
			}
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

func getTerminalWidth() int {
	if w, _, err := getTermSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

func findFixMessageIndices(line string) [][]int {
	return fixPattern.FindAllStringIndex(line, -1)
}

func formatLine(line string, matches [][]int, results []decoded) string {
	var (
		output    strings.Builder
		lastIndex int
	)

	for i, match := range matches {
		start, end := match[0], match[1]

		output.WriteString(ColourLine + line[lastIndex:start] + ColourMsg + results[i].wire)
		lastIndex = end
	}

	// Append remaining part of the line after last FIX message
	output.WriteString(ColourLine + line[lastIndex:] + ColourReset + "\n")

	return output.String()
}
