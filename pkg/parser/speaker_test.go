package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xhad/plenum/internal/models"
)

func TestParseSpeakerIntro(t *testing.T) {
	tests := []struct {
		name string
		text string
		want speakerIntro
	}{
		{
			name: "plain speaker with party",
			text: "Fritz Fischer (SPD): Guten Tag!",
			want: speakerIntro{
				Name:   "Fritz Fischer",
				Party:  "SPD",
				Speech: "Guten Tag!",
			},
		},
		{
			name: "party with dropped opening paren",
			text: "Fritz Fischer SPD): Guten Tag!",
			want: speakerIntro{
				Name:   "Fritz Fischer",
				Party:  "SPD",
				Speech: "Guten Tag!",
			},
		},
		{
			name: "president",
			text: "Präsidentin Regina van Dinther: Meine Damen und Herren!",
			want: speakerIntro{
				Name:      "Regina van Dinther",
				Role:      models.RolePresident,
				RoleDescr: "Präsidentin",
				Speech:    "Meine Damen und Herren!",
			},
		},
		{
			name: "vice president without speech",
			text: "Vizepräsident Oliver Keymis:",
			want: speakerIntro{
				Name:      "Oliver Keymis",
				Role:      models.RoleVicePresident,
				RoleDescr: "Vizepräsident",
			},
		},
		{
			name: "minister with ministry",
			text: "Dr. Norbert Walter-Borjans, Finanzminister: Meine Damen und Herren!",
			want: speakerIntro{
				Name:     "Dr. Norbert Walter-Borjans",
				Ministry: "Finanzminister",
				Role:     models.RoleMinister,
				Speech:   "Meine Damen und Herren!",
			},
		},
		{
			name: "minister by title",
			text: "Ministerin Sylvia Löhrmann: Vielen Dank.",
			want: speakerIntro{
				Name:      "Sylvia Löhrmann",
				Role:      models.RoleMinister,
				RoleDescr: "Ministerin",
				Speech:    "Vielen Dank.",
			},
		},
		{
			name: "free-form role",
			text: "Fritz Fischer, Vorsitzender des Hauptausschusses: Ich berichte.",
			want: speakerIntro{
				Name:      "Fritz Fischer",
				Role:      models.RoleOther,
				RoleDescr: "Vorsitzender des Hauptausschusses",
				Speech:    "Ich berichte.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSpeakerIntro(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSpeakerIntroNoSpeaker(t *testing.T) {
	for _, text := range []string{
		"(Beifall von der CDU)",
		"",
	} {
		_, err := parseSpeakerIntro(text)
		assert.ErrorIs(t, err, errNoSpeaker, "text: %q", text)
	}
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "a b c", cleanText("  a\n\tb­c  "))
	assert.Equal(t, "", cleanText("  \n "))
}
