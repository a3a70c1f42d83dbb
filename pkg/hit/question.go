package hit

import (
	"encoding/xml"

	"github.com/pkg/errors"
)

// ExternalQuestion delegates the task UI to a page hosted elsewhere, shown to
// the worker in a frame of the given height.
type ExternalQuestion struct {
	URL         string
	FrameHeight int
}

type externalQuestionXML struct {
	XMLName     xml.Name `xml:"http://mechanicalturk.amazonaws.com/AWSMechanicalTurkDataSchemas/2006-07-14/ExternalQuestion.xsd ExternalQuestion"`
	ExternalURL string   `xml:"ExternalURL"`
	FrameHeight int      `xml:"FrameHeight"`
}

// XML renders the question document sent in the Question field.
func (q ExternalQuestion) XML() (string, error) {
	b, err := xml.Marshal(externalQuestionXML{
		ExternalURL: q.URL,
		FrameHeight: q.FrameHeight,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to encode external question")
	}
	return xml.Header + string(b), nil
}
