// Package lang holds the language catalogs offered by each view and the
// helpers that compare tags by their base language.
package lang

import (
	"strings"

	"golang.org/x/text/language"
)

type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Voice is a synthesis voice together with the ISO 639-1 code of the
// language it speaks.
type Voice struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Voice   string `json:"voice"`
	ISOCode string `json:"isoCode"`
}

var recognitionLanguages = []Language{
	{"en-US", "English (United States)"},
	{"te-IN", "Telugu"},
	{"hi-IN", "Hindi"},
	{"es-ES", "Spanish"},
	{"fr-FR", "French"},
	{"de-DE", "German"},
	{"zh-CN", "Chinese (Simplified)"},
	{"ja-JP", "Japanese"},
	{"ar-SA", "Arabic"},
	{"ru-RU", "Russian"},
}

// spoken maps the names accepted by "change language to *".
var spoken = map[string]string{
	"english":  "en-US",
	"telugu":   "te-IN",
	"hindi":    "hi-IN",
	"spanish":  "es-ES",
	"french":   "fr-FR",
	"german":   "de-DE",
	"chinese":  "zh-CN",
	"japanese": "ja-JP",
	"arabic":   "ar-SA",
	"russian":  "ru-RU",
}

var translationSpeechLanguages = []Language{
	{"en-US", "English"},
	{"es-ES", "Spanish"},
	{"fr-FR", "French"},
	{"de-DE", "German"},
	{"it-IT", "Italian"},
	{"pt-PT", "Portuguese"},
	{"hi-IN", "Hindi"},
	{"zh-CN", "Chinese"},
	{"te-IN", "Telugu"},
}

var voices = []Voice{
	{"en-US", "English", "en-US-AriaNeural", "en"},
	{"es-ES", "Spanish", "es-ES-ElviraNeural", "es"},
	{"fr-FR", "French", "fr-FR-DeniseNeural", "fr"},
	{"de-DE", "German", "de-DE-KatjaNeural", "de"},
	{"zh-CN", "Chinese", "zh-CN-XiaoxiaoNeural", "zh"},
	{"ja-JP", "Japanese", "ja-JP-NanamiNeural", "ja"},
	{"hi-IN", "Hindi", "hi-IN-SwaraNeural", "hi"},
	{"te-IN", "Telugu", "te-IN-ShrutiNeural", "te"},
}

var textLanguages = []Language{
	{"en", "English"},
	{"fr", "French"},
	{"de", "German"},
	{"hi", "Hindi"},
	{"te", "Telugu"},
	{"zh", "Chinese"},
	{"ja", "Japanese"},
	{"ru", "Russian"},
	{"ar", "Arabic"},
	{"pt", "Portuguese"},
	{"es", "Spanish"},
	{"id", "Indonesian"},
}

// RecognitionLanguages lists the speech-to-text languages.
func RecognitionLanguages() []Language { return clone(recognitionLanguages) }

// SpeechTranslationLanguages lists the speech-to-speech languages.
func SpeechTranslationLanguages() []Language { return clone(translationSpeechLanguages) }

// TextLanguages lists the text-to-text translation codes.
func TextLanguages() []Language { return clone(textLanguages) }

func Voices() []Voice {
	out := make([]Voice, len(voices))
	copy(out, voices)
	return out
}

// VoiceFor returns the text-to-speech voice for a language code.
func VoiceFor(code string) (Voice, bool) {
	for _, v := range voices {
		if v.Code == code {
			return v, true
		}
	}
	return Voice{}, false
}

// SpokenName resolves a spoken language name to a recognition tag.
func SpokenName(name string) (string, bool) {
	tag, ok := spoken[strings.ToLower(strings.TrimSpace(name))]
	return tag, ok
}

// SynthesisVoice picks the voice used to read back a speech translation.
func SynthesisVoice(target string) string {
	switch target {
	case "te-IN":
		return "te-IN-ShrutiNeural"
	case "hi-IN":
		return "hi-IN-SwaraNeural"
	default:
		return "en-US-AriaNeural"
	}
}

func Supported(list []Language, code string) bool {
	for _, l := range list {
		if l.Code == code {
			return true
		}
	}
	return false
}

// Base returns the base language subtag of tag, lower-cased.
func Base(tag string) string {
	if t, err := language.Parse(tag); err == nil {
		b, _ := t.Base()
		return b.String()
	}
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(tag, "-_"); i >= 0 {
		return tag[:i]
	}
	return tag
}

// SameBase reports whether two tags share a base language, so "zh-Hans"
// matches "zh" and "en-GB" matches "en-US".
func SameBase(a, b string) bool {
	return Base(a) == Base(b)
}

func clone(in []Language) []Language {
	out := make([]Language, len(in))
	copy(out, in)
	return out
}
