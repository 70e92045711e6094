package testsuite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSuite = `
name: mate-in-one
cases:
  - id: back-rank
    fen: "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1"
    bm: [a1a8]
  - id: dont-give-stalemate
    fen: "7k/5K2/6Q1/8/8/8/8/8 w - - 0 1"
    am: [f7f8]
`

func TestNewSuiteFromYAML(t *testing.T) {
	s, err := NewSuiteFromYAML([]byte(sampleSuite))
	require.NoError(t, err)
	assert.Equal(t, "mate-in-one", s.Name)
	assert.Len(t, s.Cases, 2)
	assert.Equal(t, []string{"a1a8"}, s.Cases[0].Best)
}

func TestNewSuiteFromYAMLRejectsEmptyCase(t *testing.T) {
	_, err := NewSuiteFromYAML([]byte(`
name: broken
cases:
  - id: no-target
    fen: "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1"
`))
	assert.Error(t, err)
}

func TestRunFindsMateInOne(t *testing.T) {
	s, err := NewSuiteFromYAML([]byte(sampleSuite))
	require.NoError(t, err)

	sum, err := Run(context.Background(), s, 200*time.Millisecond)
	require.NoError(t, err)
	require.Len(t, sum.Results, 2)

	assert.Equal(t, "back-rank", sum.Results[0].Case.ID)
	assert.Equal(t, Passed, sum.Results[0].Verdict)
}

func TestVerdict(t *testing.T) {
	bm := Case{Best: []string{"e2e4"}}
	assert.Equal(t, Passed, verdict(bm, "e2e4"))
	assert.Equal(t, Failed, verdict(bm, "d2d4"))

	am := Case{Avoid: []string{"g6g7"}}
	assert.Equal(t, Failed, verdict(am, "g6g7"))
	assert.Equal(t, Passed, verdict(am, "g6f6"))
}
