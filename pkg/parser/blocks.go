package parser

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// blockKind tags one paragraph of the protocol body after classification
// by its Word export style class. Extraction pattern-matches on the kind,
// never on raw class attributes.
type blockKind int

const (
	kindUnknown blockKind = iota
	kindSpeakerIntro
	kindSpeech
	kindAnnotation
	kindCitation
)

// block is one typed unit of the tokenized protocol body.
type block struct {
	kind    blockKind
	classes []string
	text    string
}

// Style classes of the Word-to-HTML export, grouped by meaning. The
// speech group is large because every layout variant of an agenda or
// question paragraph got its own class over the years.
var (
	speakerClasses = classSet("rRednerkopf", "fZwischenfrage")

	speechClasses = classSet(
		"aStandardabsatz", "t-N-ONummerierungohneSeitenzahl",
		"t-D-SAntragetcmitSeitenzahl", "t-D-OAntragetcohneSeitenzahl",
		"t-I-VInVerbindungmit", "t-O-NOhneNummerierungohneSeitenzahl",
		"t1AbsatznachTOP", "t-M-berschriftMndlicheAnfrage",
		"t-M-TTextMndlicheAnfrage", "t-N-SNummerierungmitSeitenzahl",
		"pPunktgliederung", "t-M-ETextMndlicheEinrckung",
		"MsoNormal", "aAbsatz", "1Tagesordnungsgliederung",
		"2Tagesordnungsgliederung",
		"3Tagesordnungsgliederung", "tEinrckTagesordnung",
		"mMndlicheAnfrage",
		"pZitatPunktgliederung", "dAntragDrucksache",
		"vVerfasserMndlichenAnfrage", "fberschriftMndlicheAnfrage",
		"kTextMndlicheAnfrage", "fberschriftMndlicheAnfragerage",
		"nNummerieringAufzhlung", "eTEingerueckterTOP",
		"vinVerbindung",
	)

	annotationClasses = classSet("kKlammer", "kKlammern", "wVorsitzwechsel")

	citationClasses = classSet("zZitat", "eZitat-Einrckung")
)

func classSet(classes ...string) map[string]bool {
	s := make(map[string]bool, len(classes))
	for _, c := range classes {
		s[c] = true
	}
	return s
}

func classify(classes []string) blockKind {
	for _, c := range classes {
		if speakerClasses[c] {
			return kindSpeakerIntro
		}
	}
	for _, c := range classes {
		if speechClasses[c] {
			return kindSpeech
		}
		if annotationClasses[c] {
			return kindAnnotation
		}
		if citationClasses[c] {
			return kindCitation
		}
	}
	return kindUnknown
}

// Anchor patterns for the body of the protocol. "Seite 3427" covers a
// protocol that opens without a begin marker.
var (
	beginRE = regexp.MustCompile(`Beginn:|Beginn \d\d[:.]\d\d|Seite 3427`)
	endRE   = regexp.MustCompile(`Schluss:|Ende:|__________`)
)

var cleanTextRE = regexp.MustCompile(`[\s\x{00AD}]+`)

// cleanText collapses runs of whitespace and soft hyphens into single
// spaces.
func cleanText(text string) string {
	return strings.TrimSpace(cleanTextRE.ReplaceAllString(text, " "))
}

// findStart locates the paragraph holding the begin marker. The styled
// class is tried first, then a text scan over all paragraphs. Older
// documents carry the marker without the class.
func findStart(doc *goquery.Document) *goquery.Selection {
	return findAnchor(doc, "p.bBeginn", beginRE)
}

// findEnd locates the paragraph holding the end marker.
func findEnd(doc *goquery.Document) *goquery.Selection {
	return findAnchor(doc, "p.sSchluss", endRE)
}

func findAnchor(doc *goquery.Document, selector string, re *regexp.Regexp) *goquery.Selection {
	var anchor *goquery.Selection

	doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if re.MatchString(sel.Text()) {
			anchor = sel
			return false
		}
		return true
	})
	if anchor != nil {
		return anchor
	}

	doc.Find("p").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if re.MatchString(sel.Text()) {
			anchor = sel
			return false
		}
		return true
	})
	return anchor
}

// tokenize converts the paragraph siblings between the start and end
// anchors into typed blocks.
func tokenize(start, end *goquery.Selection) []block {
	endNode := end.Get(0)

	var blocks []block
	start.NextAll().EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if sel.Get(0) == endNode {
			return false
		}
		if goquery.NodeName(sel) != "p" {
			return true
		}

		classes := strings.Fields(sel.AttrOr("class", ""))
		blocks = append(blocks, block{
			kind:    classify(classes),
			classes: classes,
			text:    cleanText(sel.Text()),
		})
		return true
	})
	return blocks
}
