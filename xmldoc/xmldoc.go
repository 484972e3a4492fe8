// Package xmldoc holds read-only query helpers over a parsed MusicXML tree.
// Every failure names the absolute path of the element it was looking at.
package xmldoc

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
	"golang.org/x/net/html/charset"
)

var (
	ErrMissing     = errors.New("missing")
	ErrInvalid     = errors.New("invalid value")
	ErrNotPartwise = errors.New("root element is not score-partwise")
)

type Document struct {
	Root *etree.Element
}

func newDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	return doc
}

func fromTree(doc *etree.Document) (*Document, error) {
	root := doc.Root()
	if root == nil || root.Tag != "score-partwise" {
		return nil, ErrNotPartwise
	}
	return &Document{Root: root}, nil
}

func Open(path string) (*Document, error) {
	doc := newDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, errors.Wrapf(err, "could not read %s", path)
	}
	return fromTree(doc)
}

func ReadFrom(r io.Reader) (*Document, error) {
	doc := newDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, errors.Wrap(err, "could not parse score")
	}
	return fromTree(doc)
}

func Parse(data []byte) (*Document, error) {
	return ReadFrom(bytes.NewReader(data))
}

func Path(e *etree.Element) string {
	return e.GetPath()
}

func missing(e *etree.Element, what string) error {
	return errors.Wrapf(ErrMissing, "%s/%s", Path(e), what)
}

func invalid(e *etree.Element, what string, value string) error {
	return errors.Wrapf(ErrInvalid, "%s/%s: %q", Path(e), what, value)
}

// One returns the first element matching path below e.
func One(e *etree.Element, path string) (*etree.Element, error) {
	found := e.FindElement(path)
	if found == nil {
		return nil, missing(e, path)
	}
	return found, nil
}

// Optional is One without the error, nil when absent.
func Optional(e *etree.Element, path string) *etree.Element {
	return e.FindElement(path)
}

func All(e *etree.Element, path string) []*etree.Element {
	return e.FindElements(path)
}

func Has(e *etree.Element, path string) bool {
	return e.FindElement(path) != nil
}

func Attr(e *etree.Element, name string) (string, error) {
	attr := e.SelectAttr(name)
	if attr == nil {
		return "", missing(e, "@"+name)
	}
	return attr.Value, nil
}

func OptionalAttr(e *etree.Element, name string) (string, bool) {
	attr := e.SelectAttr(name)
	if attr == nil {
		return "", false
	}
	return attr.Value, true
}

// OptionalAttrFloat returns dflt when the attribute is absent and an error
// only when it is present but not a number.
func OptionalAttrFloat(e *etree.Element, name string, dflt float64) (float64, error) {
	value, ok := OptionalAttr(e, name)
	if !ok {
		return dflt, nil
	}
	res, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, invalid(e, "@"+name, value)
	}
	return res, nil
}

func Text(e *etree.Element, path string) (string, error) {
	found, err := One(e, path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(found.Text()), nil
}

func Int(e *etree.Element, path string) (int, error) {
	value, err := Text(e, path)
	if err != nil {
		return 0, err
	}
	res, err := strconv.Atoi(value)
	if err != nil {
		return 0, invalid(e, path, value)
	}
	return res, nil
}

func Float(e *etree.Element, path string) (float64, error) {
	value, err := Text(e, path)
	if err != nil {
		return 0, err
	}
	res, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, invalid(e, path, value)
	}
	return res, nil
}

// OptionalInt reports ok=false when the element is absent. A present element
// with a non-integer body is still an error.
func OptionalInt(e *etree.Element, path string) (res int, ok bool, err error) {
	if !Has(e, path) {
		return 0, false, nil
	}
	res, err = Int(e, path)
	return res, err == nil, err
}

func OptionalFloat(e *etree.Element, path string) (res float64, ok bool, err error) {
	if !Has(e, path) {
		return 0, false, nil
	}
	res, err = Float(e, path)
	return res, err == nil, err
}
