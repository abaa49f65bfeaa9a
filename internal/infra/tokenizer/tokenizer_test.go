package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEstimate(t *testing.T) {
	require.Equal(t, 0, Estimate(""))
	require.Equal(t, 1, Estimate("hi"))
	require.Equal(t, 2, Estimate("hello"))
}

func TestCounterWithoutEncodingEstimates(t *testing.T) {
	var c *Counter
	require.Equal(t, Estimate("hello world"), c.Count("hello world"))
	require.Equal(t, 3, (&Counter{}).Count("hello world"))
}
