package script

import (
	"encoding/xml"
	"io"

	"github.com/ansel1/merry/v2"
	"github.com/bcc-code/bcc-media-clips/common"
)

// Element is one tag of a script. Top level elements build clips, their
// children are operations applied in order.
type Element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []Element  `xml:",any"`
}

func (e Element) Tag() string {
	return e.XMLName.Local
}

// Attr returns the value of the named attribute and whether it is present.
func (e Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// Document is a parsed script. The name of the root tag is not significant.
type Document struct {
	XMLName xml.Name
	Clips   []Element `xml:",any"`
}

func Parse(r io.Reader) (*Document, error) {
	var doc Document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, merry.Wrap(common.ErrConfiguration, merry.WithCause(err), merry.WithMessage("failed to decode script XML"))
	}
	return &doc, nil
}
