package communicator

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/qldbsession"
	"github.com/aws/aws-sdk-go-v2/service/qldbsession/types"

	"github.com/ledgerdb/qldb-go-sdk/internal/xerrors"
)

//go:generate mockgen -destination service_mock_test.go -package communicator -write_package_comment=false . Service

// Service is the part of the ledger session API client used by the driver.
// *qldbsession.Client implements it.
type Service interface {
	SendCommand(
		ctx context.Context, params *qldbsession.SendCommandInput, optFns ...func(*qldbsession.Options),
	) (*qldbsession.SendCommandOutput, error)
}

var _ Service = (*qldbsession.Client)(nil)

// Communicator issues exactly one SendCommand round trip per protocol operation.
type Communicator struct {
	service Service
	ledger  string
}

func New(service Service, ledgerName string) *Communicator {
	return &Communicator{
		service: service,
		ledger:  ledgerName,
	}
}

func (c *Communicator) Ledger() string {
	return c.ledger
}

func (c *Communicator) send(ctx context.Context, input *qldbsession.SendCommandInput) (*qldbsession.SendCommandOutput, error) {
	output, err := c.service.SendCommand(ctx, input)
	if err != nil {
		return nil, xerrors.FromService(err)
	}
	if output == nil {
		return nil, xerrors.Client("empty response")
	}

	return output, nil
}

func (c *Communicator) StartSession(ctx context.Context) (sessionToken string, _ error) {
	output, err := c.send(ctx, &qldbsession.SendCommandInput{
		StartSession: &types.StartSessionRequest{
			LedgerName: aws.String(c.ledger),
		},
	})
	if err != nil {
		return "", xerrors.WithStackTrace(err)
	}
	if output.StartSession == nil || output.StartSession.SessionToken == nil {
		return "", xerrors.WithStackTrace(xerrors.Client("start session: no session token in response"))
	}

	return *output.StartSession.SessionToken, nil
}

func (c *Communicator) StartTransaction(ctx context.Context, sessionToken string) (transactionID string, _ error) {
	output, err := c.send(ctx, &qldbsession.SendCommandInput{
		SessionToken:     aws.String(sessionToken),
		StartTransaction: &types.StartTransactionRequest{},
	})
	if err != nil {
		return "", xerrors.WithStackTrace(err)
	}
	if output.StartTransaction == nil || output.StartTransaction.TransactionId == nil {
		return "", xerrors.WithStackTrace(xerrors.Client("start transaction: no transaction id in response"))
	}

	return *output.StartTransaction.TransactionId, nil
}

func (c *Communicator) ExecuteStatement(
	ctx context.Context, sessionToken, transactionID, statement string, parameters [][]byte,
) (*Page, error) {
	request := &types.ExecuteStatementRequest{
		Statement:     aws.String(statement),
		TransactionId: aws.String(transactionID),
	}
	if len(parameters) > 0 {
		request.Parameters = make([]types.ValueHolder, 0, len(parameters))
		for _, p := range parameters {
			request.Parameters = append(request.Parameters, types.ValueHolder{IonBinary: p})
		}
	}
	output, err := c.send(ctx, &qldbsession.SendCommandInput{
		SessionToken:     aws.String(sessionToken),
		ExecuteStatement: request,
	})
	if err != nil {
		return nil, xerrors.WithStackTrace(err)
	}
	result := output.ExecuteStatement
	if result == nil || result.FirstPage == nil {
		return nil, xerrors.WithStackTrace(xerrors.Client("execute statement: no first page in response"))
	}

	return newPage(result.FirstPage, result.ConsumedIOs, result.TimingInformation), nil
}

func (c *Communicator) FetchPage(ctx context.Context, sessionToken, transactionID, pageToken string) (*Page, error) {
	output, err := c.send(ctx, &qldbsession.SendCommandInput{
		SessionToken: aws.String(sessionToken),
		FetchPage: &types.FetchPageRequest{
			NextPageToken: aws.String(pageToken),
			TransactionId: aws.String(transactionID),
		},
	})
	if err != nil {
		return nil, xerrors.WithStackTrace(err)
	}
	result := output.FetchPage
	if result == nil || result.Page == nil {
		return nil, xerrors.WithStackTrace(xerrors.Client("fetch page: no page in response"))
	}

	return newPage(result.Page, result.ConsumedIOs, result.TimingInformation), nil
}

// CommitTransaction returns the digest acknowledged by the service, nil if it sent none.
func (c *Communicator) CommitTransaction(
	ctx context.Context, sessionToken, transactionID string, commitDigest []byte,
) (ackDigest []byte, _ error) {
	output, err := c.send(ctx, &qldbsession.SendCommandInput{
		SessionToken: aws.String(sessionToken),
		CommitTransaction: &types.CommitTransactionRequest{
			CommitDigest:  commitDigest,
			TransactionId: aws.String(transactionID),
		},
	})
	if err != nil {
		return nil, xerrors.WithStackTrace(err)
	}
	if output.CommitTransaction == nil {
		return nil, xerrors.WithStackTrace(xerrors.Client("commit transaction: no result in response"))
	}

	return output.CommitTransaction.CommitDigest, nil
}

func (c *Communicator) AbortTransaction(ctx context.Context, sessionToken string) error {
	_, err := c.send(ctx, &qldbsession.SendCommandInput{
		SessionToken:     aws.String(sessionToken),
		AbortTransaction: &types.AbortTransactionRequest{},
	})
	if err != nil {
		return xerrors.WithStackTrace(err)
	}

	return nil
}

func (c *Communicator) EndSession(ctx context.Context, sessionToken string) error {
	_, err := c.send(ctx, &qldbsession.SendCommandInput{
		SessionToken: aws.String(sessionToken),
		EndSession:   &types.EndSessionRequest{},
	})
	if err != nil {
		return xerrors.WithStackTrace(err)
	}

	return nil
}
