package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestNew_English(t *testing.T) {
	tr, err := New("")
	require.NoError(t, err)
	assert.Equal(t, language.English, tr.Language())
	assert.Equal(t, "Cancel", tr.T(MsgConfirmCancel, nil))
	assert.Equal(t, `Run "Wi-Fi"?`, tr.T(MsgConfirmAction, map[string]any{"Label": "Wi-Fi"}))
}

func TestNew_French(t *testing.T) {
	tr, err := New("fr-FR")
	require.NoError(t, err)
	assert.Equal(t, "Annuler", tr.T(MsgConfirmCancel, nil))
	assert.Equal(t, "Le système va redémarrer.", tr.PowerPrompt("reboot"))
}

func TestNew_UnsupportedFallsBackToEnglish(t *testing.T) {
	tr, err := New("de")
	require.NoError(t, err)
	assert.Equal(t, "Confirm", tr.T(MsgConfirmAccept, nil))
}

func TestNew_InvalidLanguage(t *testing.T) {
	_, err := New("not a language!")
	assert.Error(t, err)
	assert.Equal(t, language.English, MustNew("not a language!").Language())
}

func TestPlural(t *testing.T) {
	tr := MustNew("en")
	assert.Equal(t, "Closing in 1 second", tr.Plural(MsgAutoClose, 1))
	assert.Equal(t, "Closing in 5 seconds", tr.Plural(MsgAutoClose, 5))
}

func TestUnknownMessage(t *testing.T) {
	tr := MustNew("")
	assert.Equal(t, "no_such_message", tr.T("no_such_message", nil))
}

func TestCatalogsCoverEnglish(t *testing.T) {
	tr := MustNew("")
	assert.Contains(t, tr.Languages(), language.English)
	assert.Contains(t, tr.Languages(), language.French)
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"empty", map[string]string{}, ""},
		{"lang", map[string]string{"LANG": "fr_FR.UTF-8"}, "fr-FR"},
		{"lc_all wins", map[string]string{"LANG": "en_US.UTF-8", "LC_ALL": "de_DE"}, "de-DE"},
		{"lc_messages", map[string]string{"LANG": "en_US", "LC_MESSAGES": "es_ES.UTF-8"}, "es-ES"},
		{"posix", map[string]string{"LANG": "C.UTF-8"}, ""},
		{"modifier", map[string]string{"LANG": "ca_ES@valencia"}, "ca-ES"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectLanguage(func(k string) string { return tt.env[k] })
			assert.Equal(t, tt.want, got)
		})
	}
}
