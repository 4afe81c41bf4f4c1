// Package envelope runs conformance suites against the RFC 5321
// grammar engine: YAML files of labeled inputs, each with an expected
// canonical rendering or an expected rejection.
package envelope

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"
	yaml "gopkg.in/yaml.v3"

	"github.com/moriyoshi/smtp-envelope/internal/logging"
	"github.com/moriyoshi/smtp-envelope/rfc5321"
)

// Case kinds, naming the operation a case exercises.
const (
	KindMail    = "mail"
	KindRcpt    = "rcpt"
	KindAddress = "address"
	KindLiteral = "literal"
	KindParams  = "params"
	KindUpgrade = "upgrade"
)

// A Case is one conformance case. Input goes to the operation named
// by Kind. Fail marks inputs that must be rejected; otherwise Render
// holds the expected canonical rendering. For mail and rcpt cases,
// Params additionally pins the rendered parameter list, "" meaning
// none. Upgrade cases treat Input as the text of a free-form literal.
type Case struct {
	Name   string `yaml:"name"`
	Kind   string `yaml:"kind"`
	Input  string `yaml:"input"`
	Render string `yaml:"render"`
	Params string `yaml:"params"`
	Fail   bool   `yaml:"fail"`
}

// DisplayName is the case's name, falling back to its input.
func (c *Case) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Input
}

func (c *Case) validate() error {
	switch c.Kind {
	case KindMail, KindRcpt, KindAddress, KindLiteral, KindParams, KindUpgrade:
	default:
		return fmt.Errorf("unknown kind %q", c.Kind)
	}
	if c.Input == "" && c.Kind != KindParams {
		return fmt.Errorf("no input")
	}
	if c.Fail && (c.Render != "" || c.Params != "") {
		return fmt.Errorf("a failing case takes no expected rendering")
	}
	if c.Params != "" && c.Kind != KindMail && c.Kind != KindRcpt {
		return fmt.Errorf("params only apply to mail and rcpt cases")
	}
	return nil
}

func (c *Case) run() error {
	switch c.Kind {
	case KindMail:
		rp, params, err := rfc5321.ParseMailCommand(c.Input)
		if c.Fail {
			return expectFailure(err)
		}
		if err != nil {
			return err
		}
		if err := expect("rendering", c.Render, rp.String()); err != nil {
			return err
		}
		return expect("params", c.Params, string(rfc5321.AppendEsmtpParams(nil, params)))
	case KindRcpt:
		path, params, err := rfc5321.ParseRcptCommand(c.Input)
		if c.Fail {
			return expectFailure(err)
		}
		if err != nil {
			return err
		}
		if err := expect("rendering", c.Render, path.String()); err != nil {
			return err
		}
		return expect("params", c.Params, string(rfc5321.AppendEsmtpParams(nil, params)))
	case KindAddress:
		mbox, err := rfc5321.ParseMailbox(c.Input)
		if c.Fail {
			return expectFailure(err)
		}
		if err != nil {
			return err
		}
		return expect("rendering", c.Render, mbox.String())
	case KindLiteral:
		lit, err := rfc5321.ParseAddressLiteral(c.Input)
		if c.Fail {
			return expectFailure(err)
		}
		if err != nil {
			return err
		}
		return expect("rendering", c.Render, lit.String())
	case KindParams:
		params, err := rfc5321.ParseEsmtpParams(c.Input)
		if c.Fail {
			return expectFailure(err)
		}
		if err != nil {
			return err
		}
		return expect("rendering", c.Render, string(rfc5321.AppendEsmtpParams(nil, params)))
	case KindUpgrade:
		lit := rfc5321.AddressLiteral{Kind: rfc5321.LiteralFreeForm, Text: c.Input}
		upgraded, err := lit.Upgrade()
		if c.Fail {
			return expectFailure(err)
		}
		if err != nil {
			return err
		}
		return expect("rendering", c.Render, upgraded.String())
	default:
		return fmt.Errorf("unknown kind %q", c.Kind)
	}
}

func expectFailure(err error) error {
	if err == nil {
		return fmt.Errorf("expecting the input to be rejected, but it was not")
	}
	return nil
}

func expect(what, expected, got string) error {
	if expected != got {
		return fmt.Errorf("expecting %s %q, got %q", what, expected, got)
	}
	return nil
}

// A Suite is an ordered list of cases.
type Suite struct {
	Cases []Case `yaml:"cases"`
}

// LoadSuite decodes a YAML suite and validates every case in it.
func LoadSuite(b []byte) (*Suite, error) {
	var s Suite
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	if len(s.Cases) == 0 {
		return nil, fmt.Errorf("suite contains no cases")
	}
	for i := range s.Cases {
		if err := s.Cases[i].validate(); err != nil {
			return nil, fmt.Errorf("case %d (%s): %w", i, s.Cases[i].DisplayName(), err)
		}
	}
	return &s, nil
}

// LoadSuiteFile reads a YAML suite from path.
func LoadSuiteFile(path string) (*Suite, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadSuite(b)
}

// A Failure pairs a case with what went wrong with it.
type Failure struct {
	Case Case
	Err  error
}

// A Report sums up one suite run.
type Report struct {
	Total    int
	Failures []Failure
}

// OK reports whether every case passed.
func (r *Report) OK() bool {
	return len(r.Failures) == 0
}

// A Runner runs suites, a bounded number of cases at a time.
type Runner struct {
	logger   *slog.Logger
	parallel int
}

type RunnerOptionFunc func(r *Runner) error

// WithLogger sets the logger the runner narrates case outcomes to.
// nil selects the discarding logger.
func WithLogger(logger *slog.Logger) RunnerOptionFunc {
	return func(r *Runner) error {
		if logger == nil {
			logger = logging.Discard()
		}
		r.logger = logger
		return nil
	}
}

// WithParallelism bounds how many cases run at once.
func WithParallelism(n int) RunnerOptionFunc {
	return func(r *Runner) error {
		if n < 1 {
			return fmt.Errorf("parallelism must be positive, got %d", n)
		}
		r.parallel = n
		return nil
	}
}

func NewRunner(options ...RunnerOptionFunc) (*Runner, error) {
	r := &Runner{
		logger:   logging.Discard(),
		parallel: 1,
	}
	for _, option := range options {
		err := option(r)
		if err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Run runs every case in s and collects the failures, in suite order.
// Cases are independent, so a failing case never stops the run; only
// ctx does.
func (r *Runner) Run(ctx context.Context, s *Suite) (*Report, error) {
	results := make([]error, len(s.Cases))
	eg, innerCtx := errgroup.WithContext(ctx)
	eg.SetLimit(r.parallel)
	for i := range s.Cases {
		if innerCtx.Err() != nil {
			break
		}
		i := i // per-iteration copy; the module builds as go 1.21
		eg.Go(func() error {
			c := &s.Cases[i]
			err := c.run()
			results[i] = err
			if err != nil {
				r.logger.Warn("case failed", slog.String("case", c.DisplayName()), slog.Any("error", err))
			} else {
				r.logger.Debug("case passed", slog.String("case", c.DisplayName()))
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	report := &Report{Total: len(s.Cases)}
	for i, err := range results {
		if err != nil {
			report.Failures = append(report.Failures, Failure{Case: s.Cases[i], Err: err})
		}
	}
	r.logger.Info("suite finished", slog.Int("cases", report.Total), slog.Int("failures", len(report.Failures)))
	return report, nil
}
