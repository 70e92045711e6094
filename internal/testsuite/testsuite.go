// Package testsuite runs named collections of chess positions against the
// engine and checks the move it picks against a known-good answer, the way
// an EPD test suite's "bm" (best move) and "am" (avoid move) opcodes do.
// See: https://www.chessprogramming.org/Extended_Position_Description
//
// Suites here are authored as YAML rather than raw EPD text, matching this
// repo's preference for human-editable YAML fixtures (pkg/engine.Book uses
// the same convention for opening lines).
package testsuite

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"github.com/seekerror/stdlib/pkg/lang"

	"github.com/talonchess/talon/pkg/engine"
	"github.com/talonchess/talon/pkg/search/searchctl"
)

// Case is a single test position: FEN plus the accepted or forbidden moves
// in long algebraic notation. At least one of Best or Avoid must be set.
type Case struct {
	ID    string   `yaml:"id"`
	FEN   string   `yaml:"fen"`
	Best  []string `yaml:"bm,omitempty"`
	Avoid []string `yaml:"am,omitempty"`
}

// Suite is a named collection of Cases, the unit NewSuiteFromYAML loads.
type Suite struct {
	Name  string `yaml:"name"`
	Cases []Case `yaml:"cases"`
}

// LoadSuite reads and parses a YAML test suite file.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsuite: read %v: %w", path, err)
	}
	return NewSuiteFromYAML(data)
}

// NewSuiteFromYAML parses a YAML document of the form:
//
//	name: bratko-kopec
//	cases:
//	  - id: BK.01
//	    fen: 1k1r4/pp1b1R2/3q2pp/4p3/2B5/4Q3/PPP2B2/2K5 b - -
//	    bm: [d6d1]
func NewSuiteFromYAML(data []byte) (*Suite, error) {
	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("testsuite: invalid suite: %w", err)
	}
	for i, c := range s.Cases {
		if len(c.Best) == 0 && len(c.Avoid) == 0 {
			return nil, fmt.Errorf("testsuite: case %v (%v) has neither bm nor am", i, c.ID)
		}
	}
	return &s, nil
}

// Verdict is the outcome of running a single Case.
type Verdict int

const (
	NotTested Verdict = iota
	Failed
	Passed
)

func (v Verdict) String() string {
	switch v {
	case Passed:
		return "pass"
	case Failed:
		return "fail"
	default:
		return "not tested"
	}
}

// Result records one Case's actual move and verdict.
type Result struct {
	Case    Case
	Actual  string
	Score   string
	Verdict Verdict
}

// Summary tallies a full Suite run.
type Summary struct {
	Results []Result
	Passed  int
	Failed  int
}

// FailedIDs returns the case IDs that failed, sorted for a stable report.
func (s Summary) FailedIDs() []string {
	var ids []string
	for _, r := range s.Results {
		if r.Verdict == Failed {
			ids = append(ids, r.Case.ID)
		}
	}
	slices.Sort(ids)
	return ids
}

// Run searches every Case in s for up to budget per position and scores the
// engine's chosen move against its bm/am opcodes.
func Run(ctx context.Context, s *Suite, budget time.Duration) (Summary, error) {
	var sum Summary

	e := engine.New(ctx, "talon-testsuite", "talonchess")
	for _, c := range s.Cases {
		r, err := runCase(ctx, e, c, budget)
		if err != nil {
			return sum, fmt.Errorf("testsuite: case %v: %w", c.ID, err)
		}

		sum.Results = append(sum.Results, r)
		if r.Verdict == Passed {
			sum.Passed++
		} else if r.Verdict == Failed {
			sum.Failed++
		}
	}
	return sum, nil
}

func runCase(ctx context.Context, e *engine.Engine, c Case, budget time.Duration) (Result, error) {
	if err := e.Reset(ctx, c.FEN); err != nil {
		return Result{}, fmt.Errorf("invalid fen %q: %w", c.FEN, err)
	}

	opt := searchctl.Options{TimeControl: lang.Some(searchctl.TimeControl{
		MoveTime: lang.Some(budget),
	})}
	pv, err := e.Think(ctx, opt, make(chan struct{}))
	if err != nil {
		return Result{}, err
	}

	r := Result{Case: c, Score: pv.Score.String()}
	if len(pv.Moves) == 0 {
		r.Verdict = NotTested
		return r, nil
	}

	r.Actual = pv.Moves[0].String()
	r.Verdict = verdict(c, r.Actual)
	return r, nil
}

func verdict(c Case, actual string) Verdict {
	for _, m := range c.Best {
		if m == actual {
			return Passed
		}
	}
	if len(c.Best) > 0 {
		return Failed
	}
	for _, m := range c.Avoid {
		if m == actual {
			return Failed
		}
	}
	return Passed
}

