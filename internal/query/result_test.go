package query

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/amzn/ion-go/ion"
	"github.com/stretchr/testify/require"

	"github.com/ledgerdb/qldb-go-sdk/internal/communicator"
	"github.com/ledgerdb/qldb-go-sdk/internal/xerrors"
)

func binaryValues(t testing.TB, values ...any) []any {
	t.Helper()

	out := make([]any, 0, len(values))
	for _, v := range values {
		b, err := ion.MarshalBinary(v)
		require.NoError(t, err)
		out = append(out, b)
	}

	return out
}

type fakePages struct {
	pages   map[string]*communicator.Page
	fetched []string
	err     error
}

func (f *fakePages) fetch(_ context.Context, pageToken string) (*communicator.Page, error) {
	f.fetched = append(f.fetched, pageToken)
	if f.err != nil {
		return nil, f.err
	}

	return f.pages[pageToken], nil
}

func token(s string) *string {
	return &s
}

func TestPager(t *testing.T) {
	ctx := context.Background()
	t.Run("SkipsEmptyPages", func(t *testing.T) {
		f := &fakePages{pages: map[string]*communicator.Page{
			"p2": {NextPageToken: token("p3"), ReadIOs: 1},
			"p3": {Values: binaryValues(t, 1, 2), ReadIOs: 2},
		}}
		r, err := newPager(&communicator.Page{NextPageToken: token("p2")}, f.fetch).collect(ctx)
		require.NoError(t, err)
		require.Len(t, r.Values(), 2)
		require.Equal(t, []string{"p2", "p3"}, f.fetched)
		require.EqualValues(t, 3, r.Stats().ReadIOs)

		var v int
		require.NoError(t, r.Values()[1].Unmarshal(&v))
		require.Equal(t, 2, v)
	})
	t.Run("SinglePage", func(t *testing.T) {
		f := &fakePages{}
		p := newPager(&communicator.Page{Values: binaryValues(t, "a")}, f.fetch)
		_, err := p.next(ctx)
		require.NoError(t, err)
		_, err = p.next(ctx)
		require.ErrorIs(t, err, io.EOF)
		_, err = p.next(ctx)
		require.ErrorIs(t, err, io.EOF)
		require.Empty(t, f.fetched)
	})
	t.Run("FetchError", func(t *testing.T) {
		errFetch := errors.New("connection reset")
		f := &fakePages{err: errFetch}
		_, err := newPager(&communicator.Page{
			Values:        binaryValues(t, 1),
			NextPageToken: token("p2"),
		}, f.fetch).collect(ctx)
		require.ErrorIs(t, err, errFetch)
	})
	t.Run("DecodeError", func(t *testing.T) {
		_, err := newPager(&communicator.Page{Values: []any{[]byte("{name:")}}, (&fakePages{}).fetch).collect(ctx)
		require.Error(t, err)
		require.True(t, xerrors.IsKind(err, xerrors.KindClient))
	})
}

func TestBufferedResultStream(t *testing.T) {
	ctx := context.Background()
	r, err := newPager(&communicator.Page{Values: binaryValues(t, 1, 2, 3)}, (&fakePages{}).fetch).collect(ctx)
	require.NoError(t, err)

	// every stream of a buffered result replays it from the start
	for range 2 {
		var got []int
		for v, err := range r.Stream().Range(ctx) {
			require.NoError(t, err)
			var i int
			require.NoError(t, v.Unmarshal(&i))
			got = append(got, i)
		}
		require.Equal(t, []int{1, 2, 3}, got)
	}
	require.Equal(t, r.Stats(), r.Stream().Stats())
}
