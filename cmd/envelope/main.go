package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	envelope "github.com/moriyoshi/smtp-envelope"
	"github.com/moriyoshi/smtp-envelope/rfc5321"
)

// RunContext is what kong hands each subcommand's Run method.
type RunContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Out    io.Writer
}

type MailCmd struct {
	Body string `arg:"" help:"MAIL command body, e.g. 'MAIL FROM:<bob@example.org> SIZE=1000'."`
}

func (cmd *MailCmd) Run(rc *RunContext) error {
	rp, params, err := rfc5321.ParseMailCommand(cmd.Body)
	if err != nil {
		return err
	}
	fmt.Fprintln(rc.Out, rp)
	for _, param := range params {
		fmt.Fprintln(rc.Out, param)
	}
	return nil
}

type RcptCmd struct {
	Body string `arg:"" help:"RCPT command body, e.g. 'RCPT TO:<alice@example.com>'."`
}

func (cmd *RcptCmd) Run(rc *RunContext) error {
	path, params, err := rfc5321.ParseRcptCommand(cmd.Body)
	if err != nil {
		return err
	}
	fmt.Fprintln(rc.Out, path)
	for _, param := range params {
		fmt.Fprintln(rc.Out, param)
	}
	return nil
}

type ParamsCmd struct {
	List string `arg:"" optional:"" help:"ESMTP parameter list, e.g. 'SIZE=1000 BODY=8BITMIME'."`
}

func (cmd *ParamsCmd) Run(rc *RunContext) error {
	params, err := rfc5321.ParseEsmtpParams(cmd.List)
	if err != nil {
		return err
	}
	for _, param := range params {
		fmt.Fprintf(rc.Out, "%s %s\n", param.Name, param.Value)
	}
	return nil
}

type LiteralCmd struct {
	Text    string `arg:"" help:"Bracketed address literal, e.g. '[192.0.2.1]'."`
	Upgrade bool   `name:"upgrade" help:"Upgrade a free-form literal to a formal one." env:"ENVELOPE_UPGRADE" default:"false"`
}

func (cmd *LiteralCmd) Run(rc *RunContext) error {
	lit, err := rfc5321.ParseAddressLiteral(cmd.Text)
	if err != nil {
		return err
	}
	if cmd.Upgrade && lit.Kind == rfc5321.LiteralFreeForm {
		lit, err = lit.Upgrade()
		if err != nil {
			return err
		}
	}
	fmt.Fprintf(rc.Out, "%s %s\n", lit.Kind, lit)
	return nil
}

type CheckCmd struct {
	Addresses []string `arg:"" optional:"" help:"Mailbox addresses to validate; read from stdin, one per line, when omitted."`
}

func (cmd *CheckCmd) Run(rc *RunContext) error {
	addrs := cmd.Addresses
	if len(addrs) == 0 {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			addrs = append(addrs, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return err
		}
	}
	invalid := 0
	for _, addr := range addrs {
		if rfc5321.ValidateAddress(addr) {
			fmt.Fprintf(rc.Out, "ok %s\n", addr)
		} else {
			invalid++
			fmt.Fprintf(rc.Out, "invalid %s\n", addr)
		}
	}
	if invalid > 0 {
		return fmt.Errorf("%d of %d addresses are invalid", invalid, len(addrs))
	}
	return nil
}

type CorpusCmd struct {
	Path     string `arg:"" help:"Path to a YAML conformance suite."`
	Parallel int    `name:"parallel" help:"Number of cases to run at once." env:"ENVELOPE_PARALLEL" default:"4"`
}

func (cmd *CorpusCmd) Run(rc *RunContext) error {
	suite, err := envelope.LoadSuiteFile(cmd.Path)
	if err != nil {
		return err
	}
	runner, err := envelope.NewRunner(
		envelope.WithLogger(rc.Logger),
		envelope.WithParallelism(cmd.Parallel),
	)
	if err != nil {
		return err
	}
	report, err := runner.Run(rc.Ctx, suite)
	if err != nil {
		return err
	}
	for _, f := range report.Failures {
		fmt.Fprintf(rc.Out, "fail %s: %v\n", f.Case.DisplayName(), f.Err)
	}
	fmt.Fprintf(rc.Out, "%d cases, %d failures\n", report.Total, len(report.Failures))
	if !report.OK() {
		return fmt.Errorf("%d of %d cases failed", len(report.Failures), report.Total)
	}
	return nil
}

type CLI struct {
	LogLevel slog.Level `name:"log-level" help:"Log level." env:"ENVELOPE_LOG_LEVEL" default:"INFO" enum:"DEBUG,INFO,WARN,ERROR"`

	Mail    MailCmd    `cmd:"" help:"Parse a MAIL command body and print its parts."`
	Rcpt    RcptCmd    `cmd:"" help:"Parse a RCPT command body and print its parts."`
	Params  ParamsCmd  `cmd:"" help:"Parse a standalone ESMTP parameter list."`
	Literal LiteralCmd `cmd:"" help:"Parse an address literal."`
	Check   CheckCmd   `cmd:"" help:"Validate mailbox addresses."`
	Corpus  CorpusCmd  `cmd:"" help:"Run a YAML conformance suite."`
}

func (CLI *CLI) initLogger(*kong.Context) *slog.Logger {
	var handler slog.Handler
	if isatty.IsTerminal(os.Stdout.Fd()) {
		handler = tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{Level: CLI.LogLevel})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: CLI.LogLevel})
	}
	return slog.New(handler)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	var CLI CLI
	kongCtx := kong.Parse(&CLI)
	logger := CLI.initLogger(kongCtx)
	err := kongCtx.Run(&RunContext{
		Ctx:    ctx,
		Logger: logger,
		Out:    os.Stdout,
	})
	kongCtx.FatalIfErrorf(err)
}
