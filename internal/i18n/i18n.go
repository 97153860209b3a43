// Package i18n translates the strings the control center itself shows.
// Menu labels come from the XML document and are not translated.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var locales embed.FS

// Message IDs.
const (
	MsgConfirmTitle    = "confirm_title"
	MsgConfirmAction   = "confirm_action"
	MsgConfirmAccept   = "confirm_accept"
	MsgConfirmCancel   = "confirm_cancel"
	MsgAutoClose       = "auto_close"
	MsgActionFailed    = "action_failed"
	MsgActionDone      = "action_done"
	MsgActionRunning   = "action_running"
	MsgRanAgo          = "ran_ago"
	MsgToggleOn        = "toggle_on"
	MsgToggleOff       = "toggle_off"
	MsgBack            = "back"
	msgConfirmPowerFmt = "confirm_power_%s"
)

// Translator localizes messages for one language.
type Translator struct {
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
	lang      language.Tag
}

// New loads the bundled catalogs and selects lang, falling back to English.
// An empty lang selects English.
func New(lang string) (*Translator, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.Glob(locales, "locales/*.toml")
	if err != nil {
		return nil, err
	}
	for _, name := range files {
		data, err := locales.ReadFile(name)
		if err != nil {
			return nil, err
		}
		if _, err := bundle.ParseMessageFileBytes(data, name); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
	}

	tag := language.English
	if lang != "" {
		parsed, err := language.Parse(lang)
		if err != nil {
			return nil, fmt.Errorf("invalid language %q: %w", lang, err)
		}
		tag = parsed
	}

	return &Translator{
		bundle:    bundle,
		localizer: i18n.NewLocalizer(bundle, tag.String(), language.English.String()),
		lang:      tag,
	}, nil
}

// MustNew is New for callers that fall back to English on a bad language.
func MustNew(lang string) *Translator {
	t, err := New(lang)
	if err != nil {
		t, err = New("")
		if err != nil {
			panic(err)
		}
	}
	return t
}

// Language returns the requested language.
func (t *Translator) Language() language.Tag {
	return t.lang
}

// Languages returns the languages that have a catalog.
func (t *Translator) Languages() []language.Tag {
	return t.bundle.LanguageTags()
}

// T returns the message id with data applied. Unknown ids return the id.
func (t *Translator) T(id string, data map[string]any) string {
	msg, err := t.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		return id
	}
	return msg
}

// Plural returns the plural form of id for count. Count is also available
// to the template as .Count.
func (t *Translator) Plural(id string, count int) string {
	msg, err := t.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		PluralCount:  count,
		TemplateData: map[string]any{"Count": count},
	})
	if err != nil {
		return id
	}
	return msg
}

// PowerPrompt returns the confirmation text for a power verb.
func (t *Translator) PowerPrompt(verb string) string {
	return t.T(fmt.Sprintf(msgConfirmPowerFmt, verb), nil)
}

// DetectLanguage returns the language from the POSIX locale variables, in
// precedence order LC_ALL, LC_MESSAGES, LANG. "C" and "POSIX" yield "".
func DetectLanguage(getenv func(string) string) string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := getenv(key)
		if v == "" {
			continue
		}
		if i := strings.IndexAny(v, ".@"); i >= 0 {
			v = v[:i]
		}
		if v == "C" || v == "POSIX" || v == "" {
			return ""
		}
		return strings.ReplaceAll(v, "_", "-")
	}
	return ""
}
