// Package parser converts raw protocol HTML into structured records. The
// document body is first tokenized into typed blocks, then the blocks are
// folded into speaker sections with speech, annotation and citation
// paragraphs.
package parser

import (
	"bytes"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/xhad/plenum/internal/models"
	"github.com/xhad/plenum/pkg/manifest"
	"github.com/xhad/plenum/pkg/store"
)

// ParseError describes a document that could not be parsed at all.
// Individual malformed paragraphs never produce one; the whole document
// has to be unrecognizable.
type ParseError struct {
	Period int
	Index  int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse protocol %d-%d: %s", e.Period, e.Index, e.Reason)
}

// Result summarizes one parse run.
type Result struct {
	Parsed int
	Failed int
	Errors []*ParseError
}

type Parser struct {
	store      *store.Store
	OnProgress func(index int)
}

func New(st *store.Store) *Parser {
	return &Parser{store: st}
}

// Parse processes one raw document when index is positive, or every
// document the manifest records as fetched otherwise. Documents that
// cannot be parsed are counted and skipped; only store failures abort
// the run.
func (p *Parser) Parse(m *manifest.Manifest, index int) (Result, error) {
	var result Result

	indices := []int{index}
	if index <= 0 {
		indices = m.Fetched()
	}

	for _, i := range indices {
		err := p.parseOne(m.Period(), i)
		if p.OnProgress != nil {
			p.OnProgress(i)
		}
		if err == nil {
			result.Parsed++
			continue
		}
		perr, ok := err.(*ParseError)
		if !ok {
			return result, err
		}
		result.Failed++
		result.Errors = append(result.Errors, perr)
		slog.Warn("could not parse document", "period", m.Period(), "index", i, "reason", perr.Reason)
	}

	return result, nil
}

func (p *Parser) parseOne(period, index int) error {
	data, err := p.store.ReadRaw(period, index)
	if err != nil {
		return &ParseError{Period: period, Index: index,
			Reason: fmt.Sprintf("cannot read raw document: %v", err)}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return &ParseError{Period: period, Index: index,
			Reason: fmt.Sprintf("cannot build document tree: %v", err)}
	}

	protocol, err := ParseProtocol(doc, period, index)
	if err != nil {
		return err
	}

	return p.store.WriteRecord(protocol)
}

// Session header patterns, e.g. "15. Sitzung" and "09.09.2010".
var (
	sessionRE = regexp.MustCompile(`(\d+)\. Sitzung`)
	dateRE    = regexp.MustCompile(`\d{2}\.\d{2}\.\d{4}`)
)

// ParseProtocol extracts the structured record from a protocol document
// tree.
func ParseProtocol(doc *goquery.Document, period, index int) (models.Protocol, error) {
	protocol := models.Protocol{
		Period:  period,
		Index:   index,
		Content: []models.Paragraph{},
	}

	start := findStart(doc)
	if start == nil {
		return protocol, &ParseError{Period: period, Index: index,
			Reason: "could not find start of protocol"}
	}
	end := findEnd(doc)
	if end == nil {
		return protocol, &ParseError{Period: period, Index: index,
			Reason: "could not find end of protocol"}
	}

	// Session metadata sits in the header paragraphs before the begin
	// marker. Older documents may miss either field.
	header := cleanText(start.PrevAll().Text())
	if m := sessionRE.FindStringSubmatch(header); m != nil {
		protocol.Session, _ = strconv.Atoi(m[1])
	}
	if m := dateRE.FindString(header); m != "" {
		protocol.Date = m
	}

	var section *speakerIntro
	for _, b := range tokenize(start, end) {
		kind := b.kind

		if kind == kindSpeakerIntro {
			intro, err := parseSpeakerIntro(b.text)
			if err != nil {
				// False speaker change, handle as regular paragraph
				slog.Warn("speaker intro without speaker information",
					"period", period, "index", index, "text", b.text)
				if strings.HasPrefix(b.text, "(") {
					kind = kindAnnotation
				} else {
					kind = kindSpeech
				}
			} else {
				section = &intro
				continue
			}
		}

		// Everything before the first speaker belongs to the front
		// matter, not the session flow
		if section == nil {
			continue
		}

		paragraph := models.Paragraph{
			FlowIndex:        len(protocol.Content),
			SpeakerName:      section.Name,
			SpeakerParty:     section.Party,
			SpeakerMinistry:  section.Ministry,
			SpeakerRole:      section.Role,
			SpeakerRoleDescr: section.RoleDescr,
			HTMLClass:        strings.Join(b.classes, ", "),
		}

		switch kind {
		case kindSpeech:
			paragraph.Speech = b.text
		case kindAnnotation:
			paragraph.Annotation = cleanText(strings.Trim(b.text, "()"))
		case kindCitation:
			paragraph.Citation = cleanText(strings.TrimRight(strings.TrimLeft(b.text, "„\"'"), "“\"'"))
		default:
			slog.Warn("unrecognized paragraph class",
				"period", period, "index", index, "class", paragraph.HTMLClass)
			continue
		}

		protocol.Content = append(protocol.Content, paragraph)
	}

	return protocol, nil
}
