package query

import (
	"context"
	"io"
	"iter"

	"github.com/ledgerdb/qldb-go-sdk/internal/communicator"
	"github.com/ledgerdb/qldb-go-sdk/internal/value"
	"github.com/ledgerdb/qldb-go-sdk/internal/xerrors"
	"github.com/ledgerdb/qldb-go-sdk/query"
)

var (
	_ query.Result = (*bufferedResult)(nil)
	_ query.Stream = (*stream)(nil)
	_ query.Stream = (*replay)(nil)
)

type fetchFunc func(ctx context.Context, pageToken string) (*communicator.Page, error)

// pager walks the values of a statement result over the linked pages.
// Both the buffered result and the stream are built on it.
type pager struct {
	page  *communicator.Page
	index int
	fetch fetchFunc
	stats query.Stats
}

func newPager(first *communicator.Page, fetch fetchFunc) *pager {
	p := &pager{
		page:  first,
		fetch: fetch,
	}
	p.account(first)

	return p
}

func (p *pager) account(page *communicator.Page) {
	p.stats.ReadIOs += page.ReadIOs
	p.stats.WriteIOs += page.WriteIOs
	p.stats.ProcessingTime += page.ProcessingTime
}

// next returns io.EOF after the last value. A page is fetched only when
// the current one is exhausted; empty pages are skipped.
func (p *pager) next(ctx context.Context) (query.Value, error) {
	for p.index >= len(p.page.Values) {
		if p.page.Last() {
			return nil, io.EOF
		}
		page, err := p.fetch(ctx, *p.page.NextPageToken)
		if err != nil {
			return nil, xerrors.WithStackTrace(err)
		}
		p.account(page)
		p.page, p.index = page, 0
	}

	v, err := value.New(p.page.Values[p.index])
	if err != nil {
		return nil, xerrors.WithStackTrace(err)
	}
	p.index++

	return v, nil
}

// collect drains the pager. Any failure fails the whole result.
func (p *pager) collect(ctx context.Context) (*bufferedResult, error) {
	r := &bufferedResult{}
	for {
		v, err := p.next(ctx)
		if xerrors.Is(err, io.EOF) {
			r.stats = p.stats

			return r, nil
		}
		if err != nil {
			return nil, xerrors.WithStackTrace(err)
		}
		r.values = append(r.values, v)
	}
}

type bufferedResult struct {
	values []query.Value
	stats  query.Stats
}

func (r *bufferedResult) Values() []query.Value {
	return r.values
}

func (r *bufferedResult) Stream() query.Stream {
	return &replay{values: r.values, stats: r.stats}
}

func (r *bufferedResult) Stats() query.Stats {
	return r.stats
}

// stream is the lazy form of a statement result. It is bound to its
// transaction and is closed as soon as the transaction is over.
type stream struct {
	tx    *transaction
	pager *pager
	done  bool
}

func (s *stream) Next(ctx context.Context) (query.Value, error) {
	if s.tx.terminal() {
		return nil, xerrors.WithStackTrace(errStreamClosed)
	}
	if s.done {
		return nil, io.EOF
	}
	v, err := s.pager.next(ctx)
	if err != nil {
		if xerrors.Is(err, io.EOF) {
			s.done = true

			return nil, io.EOF
		}

		return nil, xerrors.WithStackTrace(err)
	}

	return v, nil
}

func (s *stream) Range(ctx context.Context) iter.Seq2[query.Value, error] {
	return rangeOver(ctx, s)
}

func (s *stream) Stats() query.Stats {
	return s.pager.stats
}

// replay streams a buffered result from memory.
type replay struct {
	values []query.Value
	index  int
	stats  query.Stats
}

func (r *replay) Next(context.Context) (query.Value, error) {
	if r.index >= len(r.values) {
		return nil, io.EOF
	}
	v := r.values[r.index]
	r.index++

	return v, nil
}

func (r *replay) Range(ctx context.Context) iter.Seq2[query.Value, error] {
	return rangeOver(ctx, r)
}

func (r *replay) Stats() query.Stats {
	return r.stats
}

func rangeOver(ctx context.Context, s query.Stream) iter.Seq2[query.Value, error] {
	return func(yield func(query.Value, error) bool) {
		for {
			v, err := s.Next(ctx)
			if xerrors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, err)

				return
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}
