package parser

import (
	"errors"
	"regexp"
	"strings"

	"github.com/xhad/plenum/internal/models"
)

// Speaker intro layouts as they appear in the source, all anchored at the
// start of the cleaned paragraph text. Later, more specific patterns
// override earlier matches.
var (
	// "Fritz Fischer:" with optional footnote star and qualifier
	speakerNameRE = regexp.MustCompile(`(?i)^([\p{L}\p{N}_.’' \-‑]+)(?:\*\))? ?(?:\([\p{L}\p{N}_]+ [\p{L}\p{N}_ ]+\))? ?:`)

	// "Fritz Fischer (SPD):", tolerating dropped or mismatched
	// parens/brackets as found in the documents
	speakerPartyRE = regexp.MustCompile(`(?i)^([\p{L}\p{N}_.’' \-‑]+)(?:\*\))? ?([(\[][\p{L}\p{N}_]+[)\]]|[\p{L}\p{N}_]+[)\]]|[(\[][\p{L}\p{N}_]+) ?:?`)

	// "Dr. N W-B, Finanzminister:"
	ministerNameRE = regexp.MustCompile(`(?i)^([\p{L}\p{N}_.’' \-‑]+)(?:\*\))? ?,(?:\*\))? ?([\p{L}\p{N}_]*minister[\p{L}\p{N}_.,() \-‑]*):`)

	// "Name, <free-form role wording>:"
	roleNameRE = regexp.MustCompile(`(?i)^([\p{L}\p{N}_.’' \-‑]+)(?:\*\))? ?,(?:\*\))? ?([\p{L}\p{N}_]+ [\p{L}\p{N}_.,() \-‑]*):`)
)

// Role prefixes inside the matched speaker name.
var (
	presidentRE     = regexp.MustCompile(`(?i)^((?:geschäftsführender? )?präsident(?:in)?) (.+)`)
	vicePresidentRE = regexp.MustCompile(`(?i)^((?:geschäftsführender? )?vizepräsident(?:in)?) (.+)`)
	ministerRE      = regexp.MustCompile(`(?i)^((?:geschäftsführender? )?minister(?:in)?) (.+)`)
)

var errNoSpeaker = errors.New("no speaker name in intro paragraph")

// speakerIntro is the parsed form of a speaker intro paragraph.
type speakerIntro struct {
	Name      string
	Party     string
	Ministry  string
	Role      string
	RoleDescr string
	Speech    string
}

// parseSpeakerIntro extracts the speaker attribution from the cleaned
// text of an intro paragraph. It returns errNoSpeaker when no layout
// matched, which callers treat as a false speaker change.
func parseSpeakerIntro(text string) (speakerIntro, error) {
	var intro speakerIntro

	if loc := speakerNameRE.FindStringSubmatchIndex(text); loc != nil {
		intro.Name = text[loc[2]:loc[3]]
		intro.Speech = text[loc[1]:]
	}
	if loc := speakerPartyRE.FindStringSubmatchIndex(text); loc != nil {
		intro.Name = text[loc[2]:loc[3]]
		intro.Party = strings.Trim(text[loc[4]:loc[5]], "()[]")
		intro.Speech = text[loc[1]:]
	}
	if loc := ministerNameRE.FindStringSubmatchIndex(text); loc != nil {
		intro.Name = text[loc[2]:loc[3]]
		intro.Ministry = text[loc[4]:loc[5]]
		intro.Speech = text[loc[1]:]
	}
	if loc := roleNameRE.FindStringSubmatchIndex(text); loc != nil {
		intro.Name = text[loc[2]:loc[3]]
		intro.RoleDescr = text[loc[4]:loc[5]]
		intro.Speech = text[loc[1]:]
	}

	if intro.Name == "" {
		return intro, errNoSpeaker
	}

	// Split a leading role off the name
	if m := presidentRE.FindStringSubmatch(intro.Name); m != nil {
		intro.Role = models.RolePresident
		intro.RoleDescr = m[1]
		intro.Name = m[2]
	}
	if m := vicePresidentRE.FindStringSubmatch(intro.Name); m != nil {
		intro.Role = models.RoleVicePresident
		intro.RoleDescr = m[1]
		intro.Name = m[2]
	}
	if m := ministerRE.FindStringSubmatch(intro.Name); m != nil {
		intro.Role = models.RoleMinister
		intro.RoleDescr = m[1]
		intro.Name = m[2]
	}
	if intro.Ministry != "" {
		intro.Role = models.RoleMinister
	}
	if intro.RoleDescr != "" && intro.Role == "" {
		intro.Role = models.RoleOther
	}

	intro.Name = cleanText(intro.Name)
	intro.Party = cleanText(intro.Party)
	intro.Ministry = cleanText(intro.Ministry)
	intro.RoleDescr = cleanText(intro.RoleDescr)
	intro.Speech = cleanText(intro.Speech)
	return intro, nil
}
