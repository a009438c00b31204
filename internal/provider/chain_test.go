package provider

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name    string
	reading Reading
	err     error
	calls   int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Latest(context.Context) (Reading, error) {
	s.calls++
	return s.reading, s.err
}

func TestChain_FirstSuccessWins(t *testing.T) {
	first := &stubProvider{name: "first", err: &FetchError{Source: "first", Err: errors.New("down")}}
	second := &stubProvider{name: "second", reading: Reading{Value: 1.9, Date: time.Now(), Source: "second"}}
	third := &stubProvider{name: "third"}

	reading, err := NewChain(first, second, third).Latest(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1.9, reading.Value)
	require.Equal(t, "second", reading.Source)
	require.Equal(t, 1, first.calls)
	require.Equal(t, 1, second.calls)
	require.Zero(t, third.calls)
}

func TestChain_AllFailuresAggregated(t *testing.T) {
	first := &stubProvider{name: "first", err: errors.New("timeout")}
	second := &stubProvider{name: "second", err: errors.New("403")}

	_, err := NewChain(first, second).Latest(context.Background())
	require.Error(t, err)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	require.Contains(t, err.Error(), "first: timeout")
	require.Contains(t, err.Error(), "second: 403")
}

func TestChain_EmptyChainIsFetchError(t *testing.T) {
	_, err := NewChain().Latest(context.Background())
	require.Error(t, err)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
}

func TestChain_Name(t *testing.T) {
	chain := NewChain(&stubProvider{name: "a"}, &stubProvider{name: "b"})
	require.Equal(t, "chain(a,b)", chain.Name())
}
