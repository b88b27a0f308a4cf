package communicator

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/service/qldbsession/types"
)

// Page is one chunk of a statement result.
// A page without NextPageToken is the last one.
type Page struct {
	// Values holds the raw payload slots: []byte for binary documents and
	// *string for text documents.
	Values        []any
	NextPageToken *string

	ReadIOs        int64
	WriteIOs       int64
	ProcessingTime time.Duration
}

func (p *Page) Last() bool {
	return p.NextPageToken == nil
}

func newPage(page *types.Page, ios *types.IOUsage, timing *types.TimingInformation) *Page {
	p := &Page{
		Values:        make([]any, 0, len(page.Values)),
		NextPageToken: page.NextPageToken,
	}
	for _, v := range page.Values {
		if v.IonBinary != nil {
			p.Values = append(p.Values, v.IonBinary)
		} else {
			p.Values = append(p.Values, v.IonText)
		}
	}
	if ios != nil {
		p.ReadIOs = ios.ReadIOs
		p.WriteIOs = ios.WriteIOs
	}
	if timing != nil {
		p.ProcessingTime = time.Duration(timing.ProcessingTimeMilliseconds) * time.Millisecond
	}

	return p
}
