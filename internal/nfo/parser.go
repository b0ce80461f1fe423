package nfo

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Parse reads and parses one NFO file
func Parse(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	rec, err := ParseString(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return rec, nil
}

// ParseString parses NFO XML content
func ParseString(content string) (*Record, error) {
	dec := xml.NewDecoder(strings.NewReader(content))
	// NFO files in the wild declare all sorts of encodings; the bytes are
	// almost always UTF-8 or ASCII-compatible, so pass them through.
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	root, err := findRoot(dec)
	if err != nil {
		return nil, err
	}

	rec := &Record{Type: detectType(root.Name.Local)}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("unexpected end of document")
		}
		if err != nil {
			return nil, fmt.Errorf("invalid XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if err := rec.parseChild(dec, t); err != nil {
				return nil, fmt.Errorf("invalid XML: %w", err)
			}
		case xml.EndElement:
			if t.Name.Local == root.Name.Local {
				return rec, nil
			}
		}
	}
}

func findRoot(dec *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return xml.StartElement{}, fmt.Errorf("no root element")
		}
		if err != nil {
			return xml.StartElement{}, fmt.Errorf("invalid XML: %w", err)
		}
		if se, ok := tok.(xml.StartElement); ok {
			return se, nil
		}
	}
}

func detectType(tag string) Type {
	switch Type(strings.ToLower(tag)) {
	case TypeMovie, TypeTVShow, TypeEpisode:
		return Type(strings.ToLower(tag))
	}
	// Unknown root defaults to movie
	return TypeMovie
}

func (r *Record) parseChild(dec *xml.Decoder, se xml.StartElement) error {
	switch se.Name.Local {
	case "title":
		return decodeText(dec, &se, &r.Title)
	case "originaltitle":
		return decodeText(dec, &se, &r.OriginalTitle)
	case "year":
		return decodeText(dec, &se, &r.Year)
	case "plot":
		return decodeText(dec, &se, &r.Plot)
	case "runtime":
		return decodeText(dec, &se, &r.Runtime)
	case "studio":
		return decodeText(dec, &se, &r.Studio)
	case "rating":
		return decodeText(dec, &se, &r.Rating)
	case "poster":
		return decodeText(dec, &se, &r.Poster)
	case "fanart":
		return decodeText(dec, &se, &r.Fanart)
	case "season":
		return decodeText(dec, &se, &r.Season)
	case "episode":
		return decodeText(dec, &se, &r.Episode)
	case "aired":
		return decodeText(dec, &se, &r.Aired)
	case "genre":
		var s string
		if err := decodeText(dec, &se, &s); err != nil {
			return err
		}
		r.Genres = append(r.Genres, s)
		return nil
	case "director":
		var s string
		if err := decodeText(dec, &se, &s); err != nil {
			return err
		}
		r.Directors = append(r.Directors, s)
		return nil
	case "actor":
		actor, err := decodeActor(dec, &se)
		if err != nil {
			return err
		}
		r.Actors = append(r.Actors, actor)
		return nil
	}

	// Unknown tag: preserve the whole subtree
	var frag Fragment
	if err := dec.DecodeElement(&frag, &se); err != nil {
		return err
	}
	r.Extra = append(r.Extra, frag)
	return nil
}

func decodeText(dec *xml.Decoder, se *xml.StartElement, out *string) error {
	return dec.DecodeElement(out, se)
}

type actorXML struct {
	Name  string `xml:"name"`
	Role  string `xml:"role"`
	Thumb string `xml:"thumb"`
	Order string `xml:"order"`
}

func decodeActor(dec *xml.Decoder, se *xml.StartElement) (Actor, error) {
	var raw actorXML
	if err := dec.DecodeElement(&raw, se); err != nil {
		return Actor{}, err
	}
	order, _ := strconv.Atoi(strings.TrimSpace(raw.Order))
	return Actor{Name: raw.Name, Role: raw.Role, Thumb: raw.Thumb, Order: order}, nil
}

// Save writes a record back to disk as NFO XML
func Save(r *Record, path string) error {
	content, err := Format(r)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Format serializes a record as indented NFO XML
func Format(r *Record) (string, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")

	root := xml.StartElement{Name: xml.Name{Local: string(r.Type)}}
	if err := enc.EncodeToken(root); err != nil {
		return "", err
	}

	emit(enc, "title", r.Title)
	emit(enc, "originaltitle", r.OriginalTitle)
	emit(enc, "year", r.Year)
	emit(enc, "plot", r.Plot)
	emit(enc, "runtime", r.Runtime)
	emit(enc, "studio", r.Studio)
	emit(enc, "rating", r.Rating)

	for _, g := range r.Genres {
		emit(enc, "genre", g)
	}
	for _, d := range r.Directors {
		emit(enc, "director", d)
	}
	for _, a := range r.Actors {
		if err := encodeActor(enc, a); err != nil {
			return "", err
		}
	}

	emit(enc, "poster", r.Poster)
	emit(enc, "fanart", r.Fanart)

	if r.Type == TypeTVShow || r.Type == TypeEpisode {
		emit(enc, "season", r.Season)
		emit(enc, "episode", r.Episode)
		emit(enc, "aired", r.Aired)
	}

	for _, frag := range r.Extra {
		if err := enc.Encode(frag); err != nil {
			return "", err
		}
	}

	if err := enc.EncodeToken(root.End()); err != nil {
		return "", err
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}

	buf.WriteString("\n")
	return buf.String(), nil
}

func emit(enc *xml.Encoder, tag, text string) {
	if text == "" {
		return
	}
	// EncodeElement on a string cannot fail for a well-formed tag name
	_ = enc.EncodeElement(text, xml.StartElement{Name: xml.Name{Local: tag}})
}

func encodeActor(enc *xml.Encoder, a Actor) error {
	start := xml.StartElement{Name: xml.Name{Local: "actor"}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	emit(enc, "name", a.Name)
	emit(enc, "role", a.Role)
	emit(enc, "thumb", a.Thumb)
	emit(enc, "order", strconv.Itoa(a.Order))
	return enc.EncodeToken(start.End())
}
