package models

import "time"

// Paragraph is one content unit of a parsed protocol. Exactly one of
// Speech, Annotation or Citation carries text, depending on how the
// source paragraph was classified.
type Paragraph struct {
	FlowIndex        int    `json:"flow_index"`
	SpeakerName      string `json:"speaker_name,omitempty"`
	SpeakerParty     string `json:"speaker_party,omitempty"`
	SpeakerMinistry  string `json:"speaker_ministry,omitempty"`
	SpeakerRole      string `json:"speaker_role,omitempty"`
	SpeakerRoleDescr string `json:"speaker_role_descr,omitempty"`
	Speech           string `json:"speech,omitempty"`
	Annotation       string `json:"annotation,omitempty"`
	Citation         string `json:"citation,omitempty"`
	HTMLClass        string `json:"html_class,omitempty"`
}

// Protocol is the parsed record of one session protocol document.
type Protocol struct {
	Period  int         `json:"protocol_period"`
	Index   int         `json:"protocol_index"`
	Date    string      `json:"protocol_date,omitempty"`
	Session int         `json:"protocol_session,omitempty"`
	Content []Paragraph `json:"content"`
}

// SpeakerRole values assigned by the parser.
const (
	RolePresident     = "president"
	RoleVicePresident = "vice-president"
	RoleMinister      = "minister"
	RoleOther         = "other"
)

// FetchStatus tracks the lifecycle of one document in the load manifest.
type FetchStatus string

const (
	StatusUnknown  FetchStatus = "unknown"
	StatusFetching FetchStatus = "fetching"
	StatusFetched  FetchStatus = "fetched"
	StatusFailed   FetchStatus = "failed"
)

// ManifestEntry records the fetch state of one (period, index) document.
type ManifestEntry struct {
	Status    FetchStatus `json:"status"`
	URL       string      `json:"url"`
	Timestamp time.Time   `json:"timestamp"`
}
