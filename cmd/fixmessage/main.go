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
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/stephenlclarke/fixmessage/decoder"
	"github.com/stephenlclarke/fixmessage/fix"
	"github.com/stephenlclarke/fixmessage/internal/config"
	"github.com/stephenlclarke/fixmessage/internal/logging"
	"github.com/stephenlclarke/fixmessage/internal/metrics"
	"github.com/stephenlclarke/fixmessage/message"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// Version, Branch, GitUrl, Sha are injected at build time via -ldflags
var (
	Version = "0.0.0"
	Branch  = "main"
	GitUrl  = "git@github.com:stephenlclarke/fixmessage.git"
	Sha     = "0000000"
)

// isTerminal is swapped in tests.
var isTerminal = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }

// exitCode carries a non-zero exit status that has already been reported.
type exitCode int

func (e exitCode) Error() string { return fmt.Sprintf("exit status %d", int(e)) }

func newRootCmd(stdin io.Reader, out, errOut io.Writer) *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:   "fixmessage [flags] [file ...]",
		Short: "Validate and decode FIX messages found in log files",
		Long: `fixmessage scans log files (or stdin when no file, or "-", is given) for
FIX messages. Each message is checked for a correct CheckSum(10), for
BeginString(8), BodyLength(9) and MsgType(35) in the first three positions and
for every standard header field appearing exactly once before the checksum.
Valid messages are printed field by field, rejected ones with the reason.`,
		Args:          cobra.ArbitraryArgs,
		Version:       fmt.Sprintf("%s (branch:%s, commit:%s)", Version, Branch, Sha),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			return runDecode(cfg, args, stdin, out, errOut)
		},
	}

	root.SetIn(stdin)
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.Flags()
	flags.StringVar(&configFile, "config", "", "Config file (yaml, toml or json)")
	flags.String("log-level", "warn", "Log level (debug|info|warn|error)")
	flags.String("colour", "auto", "Coloured output (auto|yes|no)")
	flags.Bool("obfuscate", false, "Replace sensitive identifiers with stable aliases")
	flags.String("charset", "", "Character set of the input, e.g. latin1")
	flags.String("metrics-file", "", "Write Prometheus counters to this file when done")
	flags.Bool("strict", false, "Exit with status 1 if any message is rejected")

	root.AddCommand(newTagsCmd(out), newGenerateCmd(stdin, out))

	return root
}

func runDecode(cfg config.Config, files []string, stdin io.Reader, out, errOut io.Writer) error {
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	switch cfg.Colour {
	case "no":
		decoder.DisableColours()
	case "auto":
		if !isTerminal() {
			decoder.DisableColours()
		}
	}

	rec := metrics.New()
	p := decoder.NewProcessor(out, errOut, decoder.Options{
		Obfuscator: fix.CreateObfuscator(fix.SensitiveTags, cfg.Obfuscate, log),
		Logger:     log,
		Metrics:    rec,
		Charset:    cfg.Charset,
		Stdin:      stdin,
	})

	code := p.PrettifyFiles(files)

	if cfg.MetricsFile != "" {
		if err := rec.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Error("cannot write metrics", zap.String("path", cfg.MetricsFile), zap.Error(err))
			fmt.Fprintln(errOut, "Cannot write metrics:", err)
			code = 1
		}
	}

	if cfg.Strict && p.Rejected() > 0 {
		code = 1
	}

	if code != 0 {
		return exitCode(code)
	}
	return nil
}

func newTagsCmd(out io.Writer) *cobra.Command {
	var column bool

	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List known tags; required header tags are marked (Y)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			decoder.ListTags(out, column)
			return nil
		},
	}

	cmd.Flags().BoolVar(&column, "column", false, "Display tags in columns")

	return cmd
}

func newGenerateCmd(stdin io.Reader, out io.Writer) *cobra.Command {
	var (
		version string
		pipe    bool
	)

	cmd := &cobra.Command{
		Use:   "generate [file]",
		Short: "Build a wire message from tag=value lines",
		Long: `Reads one tag=value pair per line (blank lines and lines starting with #
are skipped) and prints the FIX message with BeginString(8), BodyLength(9) and
CheckSum(10) computed. Fields are written in the order given, so MsgType(35)
must be the first field after any BeginString/BodyLength lines.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := stdin
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			fields, err := readFields(in)
			if err != nil {
				return err
			}

			msg := &message.Message{Version: version, Fields: fields}
			if !cmd.Flags().Changed("begin-string") {
				if v, ok := msg.Get(message.TagBeginString); ok {
					msg.Version = v
				}
			}

			wire, err := message.Generate(msg)
			if err != nil {
				return err
			}

			if pipe {
				wire = strings.ReplaceAll(wire, message.Delimiter, "|")
			}
			fmt.Fprintln(out, wire)
			return nil
		},
	}

	cmd.Flags().StringVar(&version, "begin-string", "FIX.4.4", "BeginString(8) value")
	cmd.Flags().BoolVar(&pipe, "pipe", false, "Show SOH delimiters as |")

	return cmd
}

func readFields(in io.Reader) ([]message.Field, error) {
	var fields []message.Field

	scanner := bufio.NewScanner(in)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		tag, value, ok := strings.Cut(line, message.FieldDelimiter)
		if !ok {
			return nil, fmt.Errorf("line %d: expected tag=value, got %q", n, line)
		}
		fields = append(fields, message.Field{Tag: tag, Value: value})
	}

	return fields, scanner.Err()
}

// Process runs the command line and returns the exit status.
func Process(args []string, stdin io.Reader, out, errOut io.Writer) int {
	root := newRootCmd(stdin, out, errOut)
	root.SetArgs(args)

	err := root.Execute()
	if err == nil {
		return 0
	}

	var code exitCode
	if errors.As(err, &code) {
		return int(code)
	}

	fmt.Fprintln(errOut, "Error:", err)
	return 1
}

func main() {
	os.Exit(Process(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
