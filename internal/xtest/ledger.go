package xtest

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/amzn/ion-go/ion"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/qldbsession"
	"github.com/aws/aws-sdk-go-v2/service/qldbsession/types"

	"github.com/ledgerdb/qldb-go-sdk/internal/digest"
)

// Ledger is an in-memory ledger session service. It keeps sessions and
// transactions, serves registered statement results page by page and
// computes commit digests the same way the service does.
type Ledger struct {
	name    string
	options ledgerOptions

	mu        sync.Mutex
	results   map[string][][]any
	sessions  map[string]*fakeSession
	txs       map[string]*fakeTx
	committed []string
	stats     LedgerStats
	seq       int
}

// LedgerStats counts the commands served by a Ledger.
type LedgerStats struct {
	SessionsStarted int
	SessionsEnded   int
	Transactions    int
	Executes        int
	Fetches         int
	Commits         int
	Aborts          int
}

type fakeSession struct {
	tx      *fakeTx
	ended   bool
	expired bool
}

type fakeTx struct {
	id      string
	session string
	digest  *digest.Accumulator
	cursors map[string]*cursor
	done    bool
}

type cursor struct {
	pages [][]types.ValueHolder
	next  int
}

type (
	ledgerOptions struct {
		textValues    bool
		omitDigest    bool
		corruptDigest bool

		onStartSession func(ctx context.Context) error
		onExecute      func(ctx context.Context, txID, statement string) error
		onFetchPage    func(ctx context.Context, txID string) error
		onCommit       func(ctx context.Context, txID string) error
		onAbort        func(ctx context.Context, txID string) error
	}
	LedgerOption func(o *ledgerOptions)
)

// WithTextValues makes the ledger return documents in the text encoding.
func WithTextValues() LedgerOption {
	return func(o *ledgerOptions) {
		o.textValues = true
	}
}

// WithoutCommitDigest makes the ledger acknowledge commits without a digest.
func WithoutCommitDigest() LedgerOption {
	return func(o *ledgerOptions) {
		o.omitDigest = true
	}
}

// WithCorruptCommitDigest makes the ledger acknowledge commits with a wrong digest.
func WithCorruptCommitDigest() LedgerOption {
	return func(o *ledgerOptions) {
		o.corruptDigest = true
	}
}

func WithOnStartSession(f func(ctx context.Context) error) LedgerOption {
	return func(o *ledgerOptions) {
		o.onStartSession = f
	}
}

// WithOnExecute is called before a statement is executed. A non-nil error
// is returned to the client instead of the result.
func WithOnExecute(f func(ctx context.Context, txID, statement string) error) LedgerOption {
	return func(o *ledgerOptions) {
		o.onExecute = f
	}
}

func WithOnFetchPage(f func(ctx context.Context, txID string) error) LedgerOption {
	return func(o *ledgerOptions) {
		o.onFetchPage = f
	}
}

func WithOnCommit(f func(ctx context.Context, txID string) error) LedgerOption {
	return func(o *ledgerOptions) {
		o.onCommit = f
	}
}

func WithOnAbort(f func(ctx context.Context, txID string) error) LedgerOption {
	return func(o *ledgerOptions) {
		o.onAbort = f
	}
}

func NewLedger(name string, opts ...LedgerOption) *Ledger {
	l := &Ledger{
		name:     name,
		results:  make(map[string][][]any),
		sessions: make(map[string]*fakeSession),
		txs:      make(map[string]*fakeTx),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&l.options)
		}
	}

	return l
}

// Result registers the pages returned for statement. Pages may be empty.
// Statements without a registered result return one empty page.
func (l *Ledger) Result(statement string, pages ...[]any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.results[statement] = pages
}

// ExpireSessions makes every open session invalid.
func (l *Ledger) ExpireSessions() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, s := range l.sessions {
		s.expired = true
	}
}

func (l *Ledger) Stats() LedgerStats {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.stats
}

// Committed returns ids of committed transactions in commit order.
func (l *Ledger) Committed() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return slices.Clone(l.committed)
}

// OpenSessions returns the number of sessions which are neither ended nor expired.
func (l *Ledger) OpenSessions() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	var n int
	for _, s := range l.sessions {
		if !s.ended && !s.expired {
			n++
		}
	}

	return n
}

func (l *Ledger) SendCommand(
	ctx context.Context, in *qldbsession.SendCommandInput, _ ...func(*qldbsession.Options),
) (*qldbsession.SendCommandOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch {
	case in.StartSession != nil:
		return l.startSession(ctx, in.StartSession)
	case in.StartTransaction != nil:
		return l.startTransaction(aws.ToString(in.SessionToken))
	case in.ExecuteStatement != nil:
		return l.executeStatement(ctx, aws.ToString(in.SessionToken), in.ExecuteStatement)
	case in.FetchPage != nil:
		return l.fetchPage(ctx, aws.ToString(in.SessionToken), in.FetchPage)
	case in.CommitTransaction != nil:
		return l.commitTransaction(ctx, aws.ToString(in.SessionToken), in.CommitTransaction)
	case in.AbortTransaction != nil:
		return l.abortTransaction(ctx, aws.ToString(in.SessionToken))
	case in.EndSession != nil:
		return l.endSession(aws.ToString(in.SessionToken))
	default:
		return nil, &types.BadRequestException{Message: aws.String("empty command")}
	}
}

func (l *Ledger) startSession(
	ctx context.Context, r *types.StartSessionRequest,
) (*qldbsession.SendCommandOutput, error) {
	if aws.ToString(r.LedgerName) != l.name {
		return nil, &types.BadRequestException{
			Message: aws.String(fmt.Sprintf("ledger %q not found", aws.ToString(r.LedgerName))),
		}
	}
	if f := l.options.onStartSession; f != nil {
		if err := f(ctx); err != nil {
			return nil, err
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	token := fmt.Sprintf("session-%d", l.seq)
	l.sessions[token] = &fakeSession{}
	l.stats.SessionsStarted++

	return &qldbsession.SendCommandOutput{
		StartSession: &types.StartSessionResult{SessionToken: aws.String(token)},
	}, nil
}

// l.mu must be locked
func (l *Ledger) session(token string) (*fakeSession, error) {
	s, ok := l.sessions[token]
	if !ok || s.ended || s.expired {
		return nil, &types.InvalidSessionException{
			Message: aws.String(fmt.Sprintf("session %q is not valid", token)),
		}
	}

	return s, nil
}

// l.mu must be locked
func (l *Ledger) openTx(token, txID string) (*fakeTx, error) {
	s, err := l.session(token)
	if err != nil {
		return nil, err
	}
	if s.tx == nil || s.tx.id != txID {
		return nil, &types.BadRequestException{
			Message: aws.String(fmt.Sprintf("transaction %q is not open on session %q", txID, token)),
		}
	}

	return s.tx, nil
}

func (l *Ledger) startTransaction(token string) (*qldbsession.SendCommandOutput, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, err := l.session(token)
	if err != nil {
		return nil, err
	}
	if s.tx != nil {
		return nil, &types.BadRequestException{Message: aws.String("transaction already open")}
	}

	l.seq++
	id := fmt.Sprintf("tx-%d", l.seq)
	acc, err := digest.NewAccumulator(id)
	if err != nil {
		return nil, err
	}
	s.tx = &fakeTx{
		id:      id,
		session: token,
		digest:  acc,
		cursors: make(map[string]*cursor),
	}
	l.txs[id] = s.tx
	l.stats.Transactions++

	return &qldbsession.SendCommandOutput{
		StartTransaction: &types.StartTransactionResult{TransactionId: aws.String(id)},
	}, nil
}

func (l *Ledger) executeStatement(
	ctx context.Context, token string, r *types.ExecuteStatementRequest,
) (*qldbsession.SendCommandOutput, error) {
	txID, statement := aws.ToString(r.TransactionId), aws.ToString(r.Statement)
	if f := l.options.onExecute; f != nil {
		if err := f(ctx, txID, statement); err != nil {
			return nil, err
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	tx, err := l.openTx(token, txID)
	if err != nil {
		return nil, err
	}
	params := make([][]byte, 0, len(r.Parameters))
	for _, p := range r.Parameters {
		params = append(params, p.IonBinary)
	}
	if err := tx.digest.Statement(statement, params...); err != nil {
		return nil, &types.BadRequestException{Message: aws.String(err.Error())}
	}
	l.stats.Executes++

	pages := l.results[statement]
	if len(pages) == 0 {
		pages = [][]any{nil}
	}
	c := &cursor{pages: make([][]types.ValueHolder, 0, len(pages))}
	for _, page := range pages {
		holders, err := l.encode(page)
		if err != nil {
			return nil, err
		}
		c.pages = append(c.pages, holders)
	}
	first := l.nextPage(tx, c)

	return &qldbsession.SendCommandOutput{
		ExecuteStatement: &types.ExecuteStatementResult{
			FirstPage:         first,
			ConsumedIOs:       &types.IOUsage{ReadIOs: int64(len(first.Values))},
			TimingInformation: &types.TimingInformation{ProcessingTimeMilliseconds: 1},
		},
	}, nil
}

// l.mu must be locked
func (l *Ledger) encode(values []any) ([]types.ValueHolder, error) {
	holders := make([]types.ValueHolder, 0, len(values))
	for _, v := range values {
		if l.options.textValues {
			b, err := ion.MarshalText(v)
			if err != nil {
				return nil, err
			}
			holders = append(holders, types.ValueHolder{IonText: aws.String(string(b))})
		} else {
			b, err := ion.MarshalBinary(v)
			if err != nil {
				return nil, err
			}
			holders = append(holders, types.ValueHolder{IonBinary: b})
		}
	}

	return holders, nil
}

// l.mu must be locked
func (l *Ledger) nextPage(tx *fakeTx, c *cursor) *types.Page {
	page := &types.Page{Values: c.pages[c.next]}
	c.next++
	if c.next < len(c.pages) {
		l.seq++
		token := fmt.Sprintf("%s/page-%d", tx.id, l.seq)
		tx.cursors[token] = c
		page.NextPageToken = aws.String(token)
	}

	return page
}

func (l *Ledger) fetchPage(
	ctx context.Context, token string, r *types.FetchPageRequest,
) (*qldbsession.SendCommandOutput, error) {
	txID := aws.ToString(r.TransactionId)
	if f := l.options.onFetchPage; f != nil {
		if err := f(ctx, txID); err != nil {
			return nil, err
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	tx, err := l.openTx(token, txID)
	if err != nil {
		return nil, err
	}
	pageToken := aws.ToString(r.NextPageToken)
	c, ok := tx.cursors[pageToken]
	if !ok {
		return nil, &types.BadRequestException{
			Message: aws.String(fmt.Sprintf("unknown page token %q", pageToken)),
		}
	}
	delete(tx.cursors, pageToken)
	l.stats.Fetches++
	page := l.nextPage(tx, c)

	return &qldbsession.SendCommandOutput{
		FetchPage: &types.FetchPageResult{
			Page:              page,
			ConsumedIOs:       &types.IOUsage{ReadIOs: int64(len(page.Values))},
			TimingInformation: &types.TimingInformation{ProcessingTimeMilliseconds: 1},
		},
	}, nil
}

func (l *Ledger) commitTransaction(
	ctx context.Context, token string, r *types.CommitTransactionRequest,
) (*qldbsession.SendCommandOutput, error) {
	txID := aws.ToString(r.TransactionId)
	if f := l.options.onCommit; f != nil {
		if err := f(ctx, txID); err != nil {
			return nil, err
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	tx, err := l.openTx(token, txID)
	if err != nil {
		return nil, err
	}
	sum := tx.digest.Sum()
	if !bytes.Equal(sum, r.CommitDigest) {
		return nil, &types.BadRequestException{
			Message: aws.String(fmt.Sprintf("digest of transaction %q does not match", txID)),
		}
	}
	tx.done = true
	l.sessions[token].tx = nil
	l.committed = append(l.committed, txID)
	l.stats.Commits++

	result := &types.CommitTransactionResult{TransactionId: aws.String(txID)}
	switch {
	case l.options.omitDigest:
	case l.options.corruptDigest:
		sum[0] ^= 0xff
		result.CommitDigest = sum
	default:
		result.CommitDigest = sum
	}

	return &qldbsession.SendCommandOutput{CommitTransaction: result}, nil
}

func (l *Ledger) abortTransaction(ctx context.Context, token string) (*qldbsession.SendCommandOutput, error) {
	l.mu.Lock()
	var txID string
	if s, ok := l.sessions[token]; ok && s.tx != nil {
		txID = s.tx.id
	}
	l.mu.Unlock()

	if f := l.options.onAbort; f != nil {
		if err := f(ctx, txID); err != nil {
			return nil, err
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	s, err := l.session(token)
	if err != nil {
		return nil, err
	}
	if s.tx != nil {
		s.tx.done = true
		s.tx = nil
	}
	l.stats.Aborts++

	return &qldbsession.SendCommandOutput{AbortTransaction: &types.AbortTransactionResult{}}, nil
}

func (l *Ledger) endSession(token string) (*qldbsession.SendCommandOutput, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, err := l.session(token)
	if err != nil {
		return nil, err
	}
	s.ended = true
	s.tx = nil
	l.stats.SessionsEnded++

	return &qldbsession.SendCommandOutput{EndSession: &types.EndSessionResult{}}, nil
}
