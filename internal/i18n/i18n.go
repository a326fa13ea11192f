// Package i18n holds the user-facing messages in English and German.
//
// Message keys are the English texts; the German catalog translates them.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys
const (
	FileUnreadable    = "File could not be read"
	MissingDirectory  = "Please specify a directory"
	DirectoryNotFound = "Directory not found"
	NotADirectory     = "Argument must be a directory"
	PressAnyKey       = "Press any key to exit"
	ScanFailed        = "Scan failed: %v"
	WriteFailed       = "Could not write report: %v"
	ReportWritten     = "%d entries written to %s"
)

// Supported lists the available languages. The first entry is the fallback.
var Supported = []language.Tag{
	language.English,
	language.German,
}

var german = map[string]string{
	FileUnreadable:    "Datei konnte nicht gelesen werden",
	MissingDirectory:  "Bitte Verzeichnis angeben",
	DirectoryNotFound: "Verzeichnis nicht gefunden",
	NotADirectory:     "Argument muss ein Verzeichnis sein",
	PressAnyKey:       "Taste zum Beenden drücken",
	ScanFailed:        "Durchsuchen fehlgeschlagen: %v",
	WriteFailed:       "Bericht konnte nicht geschrieben werden: %v",
	ReportWritten:     "%d Einträge nach %s geschrieben",
}

var messages = newCatalog()

var matcher = language.NewMatcher(Supported)

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, text := range german {
		// Keys are constants, SetString only fails on malformed tags.
		_ = b.SetString(language.English, key, key)
		_ = b.SetString(language.German, key, text)
	}
	return b
}

// Match returns the supported language closest to lang. lang may be a BCP 47
// tag ("de", "de-AT") or a POSIX locale ("de_DE.UTF-8"). Unknown or empty
// values match English.
func Match(lang string) language.Tag {
	lang, _, _ = strings.Cut(lang, ".")
	lang = strings.ReplaceAll(lang, "_", "-")

	tag, err := language.Parse(lang)
	if err != nil {
		return Supported[0]
	}
	_, index, _ := matcher.Match(tag)
	return Supported[index]
}

// Detect returns the first non-empty value, for picking a language from an
// explicit flag followed by locale environment variables.
func Detect(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" && v != "C" && v != "POSIX" {
			return v
		}
	}
	return ""
}

// NewPrinter returns a printer that formats messages in the language matching lang.
func NewPrinter(lang string) *message.Printer {
	return message.NewPrinter(Match(lang), message.Catalog(messages))
}
