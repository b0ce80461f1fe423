package nfo

import (
	"encoding/xml"
	"strings"
)

// Fragment preserves an XML element the record model does not know about,
// including attributes and nested children, so it can be written back
// verbatim on save.
type Fragment struct {
	Name     string
	Attrs    []xml.Attr
	Text     string
	Children []Fragment
}

// UnmarshalXML captures an element subtree. Mixed content (text interleaved
// with child elements) is collapsed to text-then-children.
func (f *Fragment) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	f.Name = start.Name.Local
	f.Attrs = append([]xml.Attr(nil), start.Attr...)

	var text strings.Builder
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			var child Fragment
			if err := child.UnmarshalXML(d, t); err != nil {
				return err
			}
			f.Children = append(f.Children, child)
		case xml.EndElement:
			f.Text = strings.TrimSpace(text.String())
			return nil
		}
	}
}

// MarshalXML writes the captured subtree back out, text before children,
// mirroring the text-then-children collapse on unmarshal.
func (f Fragment) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{Name: xml.Name{Local: f.Name}, Attr: f.Attrs}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if f.Text != "" {
		if err := e.EncodeToken(xml.CharData(f.Text)); err != nil {
			return err
		}
	}
	for _, child := range f.Children {
		if err := child.MarshalXML(e, xml.StartElement{}); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}
