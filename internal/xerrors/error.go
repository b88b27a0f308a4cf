package xerrors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strings"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/smithy-go"
)

var transactionExpiredPattern = regexp.MustCompile(`Transaction\s.*\shas\sexpired`)

// Error is a classified failure.
type Error struct {
	kind      Kind
	code      string
	message   string
	requestID string
	err       error
}

type errorOption func(e *Error)

func WithCode(code string) errorOption {
	return func(e *Error) {
		e.code = code
	}
}

func WithRequestID(requestID string) errorOption {
	return func(e *Error) {
		e.requestID = requestID
	}
}

func WithCause(err error) errorOption {
	return func(e *Error) {
		e.err = err
	}
}

// New makes a classified error.
func New(kind Kind, message string, opts ...errorOption) *Error {
	e := &Error{
		kind:    kind,
		message: message,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	return e
}

// Client makes a local client fault.
func Client(format string, args ...any) *Error {
	err := fmt.Errorf(format, args...)

	return &Error{
		kind:    KindClient,
		message: err.Error(),
		err:     errors.Unwrap(err),
	}
}

func (e *Error) Kind() Kind { return e.kind }

func (e *Error) Code() string { return e.code }

func (e *Error) Message() string { return e.message }

func (e *Error) RequestID() string { return e.requestID }

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.kind.String())
	if e.code != "" {
		b.WriteString("/")
		b.WriteString(e.code)
	}
	b.WriteString(": ")
	switch {
	case e.message != "":
		b.WriteString(e.message)
	case e.err != nil:
		b.WriteString(e.err.Error())
	}
	if e.requestID != "" {
		fmt.Fprintf(&b, " (requestID: %q)", e.requestID)
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.err
}

// FromService classifies a failure returned by the remote service call.
// Context errors and already classified errors are returned unchanged.
func FromService(err error) error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return err
	}

	if IsContextError(err) {
		return New(KindCanceled, "", WithCause(err))
	}

	var requestID string
	var re *awshttp.ResponseError
	if errors.As(err, &re) {
		requestID = re.ServiceRequestID()
	}

	var ae smithy.APIError
	if errors.As(err, &ae) {
		kind := kindFromCode(ae.ErrorCode(), ae.ErrorMessage())
		if kind == KindUnknown && re != nil && isTransientStatus(re.HTTPStatusCode()) {
			kind = KindTransient
		}

		return New(kind, ae.ErrorMessage(),
			WithCode(ae.ErrorCode()),
			WithRequestID(requestID),
			WithCause(err),
		)
	}

	if re != nil && isTransientStatus(re.HTTPStatusCode()) {
		return New(KindTransient, "", WithCode(http.StatusText(re.HTTPStatusCode())),
			WithRequestID(requestID),
			WithCause(err),
		)
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return New(KindTransient, "", WithCause(err))
	}

	return New(KindUnknown, "", WithCause(err))
}

func kindFromCode(code, message string) Kind {
	switch code {
	case "OccConflictException":
		return KindOccConflict
	case "InvalidSessionException":
		if transactionExpiredPattern.MatchString(message) {
			return KindTransactionExpired
		}

		return KindInvalidSession
	case "BadRequestException", "ValidationException", "InvalidParameterException":
		return KindInvalidParameter
	case "ResourceNotFoundException":
		return KindResourceNotFound
	case "ResourcePreconditionNotMetException":
		return KindPreconditionNotMet
	case "LimitExceededException", "RateExceededException", "CapacityExceededException",
		"ThrottlingException":
		return KindThrottled
	case "InternalFailure", "InternalServerError", "ServiceUnavailable", "ServiceUnavailableException":
		return KindTransient
	default:
		return KindUnknown
	}
}

func isTransientStatus(code int) bool {
	return code == http.StatusInternalServerError || code == http.StatusServiceUnavailable
}

func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
