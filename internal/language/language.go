package language

import (
	"strings"

	xlang "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

type entry struct {
	code2   string   // ISO 639-1 (2-letter)
	code3   string   // ISO 639-2/T (3-letter)
	alt3    string   // ISO 639-2/B when it differs (e.g. "fre" vs "fra")
	display string   // Human-readable name
	words   []string // Full word forms (e.g. "english")
}

var languages = []entry{
	{"en", "eng", "", "English", []string{"english"}},
	{"es", "spa", "", "Spanish", []string{"spanish"}},
	{"fr", "fra", "fre", "French", []string{"french"}},
	{"de", "deu", "ger", "German", []string{"german"}},
	{"it", "ita", "", "Italian", []string{"italian"}},
	{"pt", "por", "", "Portuguese", []string{"portuguese"}},
	{"ja", "jpn", "", "Japanese", []string{"japanese"}},
	{"ko", "kor", "", "Korean", []string{"korean"}},
	{"zh", "zho", "chi", "Chinese", []string{"chinese"}},
	{"ru", "rus", "", "Russian", []string{"russian"}},
	{"ar", "ara", "", "Arabic", []string{"arabic"}},
	{"hi", "hin", "", "Hindi", []string{"hindi"}},
	{"nl", "nld", "dut", "Dutch", []string{"dutch"}},
	{"pl", "pol", "", "Polish", []string{"polish"}},
	{"sv", "swe", "", "Swedish", []string{"swedish"}},
	{"da", "dan", "", "Danish", []string{"danish"}},
	{"no", "nor", "", "Norwegian", []string{"norwegian"}},
	{"fi", "fin", "", "Finnish", []string{"finnish"}},
	{"cs", "ces", "cze", "Czech", []string{"czech"}},
	{"el", "ell", "gre", "Greek", []string{"greek"}},
	{"hu", "hun", "", "Hungarian", []string{"hungarian"}},
	{"tr", "tur", "", "Turkish", []string{"turkish"}},
	{"th", "tha", "", "Thai", []string{"thai"}},
	{"he", "heb", "", "Hebrew", []string{"hebrew"}},
}

var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
	byWord  map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

func lookup(code string) *entry {
	if code == "" {
		return nil
	}
	if e, ok := byCode2[code]; ok {
		return e
	}
	if e, ok := byCode3[code]; ok {
		return e
	}
	if e, ok := byWord[code]; ok {
		return e
	}
	return nil
}

// parseBase resolves a BCP 47 tag to its base language. ok is false when
// the tag is malformed or names no known language.
func parseBase(code string) (xlang.Base, bool) {
	tag, err := xlang.Parse(code)
	if err != nil {
		return xlang.Base{}, false
	}
	base, conf := tag.Base()
	if conf == xlang.No || base.String() == "und" {
		return xlang.Base{}, false
	}
	return base, true
}

func isTag(code string) bool {
	return strings.ContainsAny(code, "-_")
}

func clean(code string) string {
	code = strings.ReplaceAll(code, "\u0000", "")
	return strings.ToLower(strings.TrimSpace(code))
}

// resolve maps code to a table entry, following BCP 47 tags to their base
// language first.
func resolve(code string) (*entry, xlang.Base, bool) {
	if e := lookup(code); e != nil {
		return e, xlang.Base{}, true
	}
	if !isTag(code) && len(code) != 2 {
		return nil, xlang.Base{}, false
	}
	base, ok := parseBase(strings.ReplaceAll(code, "_", "-"))
	if !ok {
		return nil, xlang.Base{}, false
	}
	if e := lookup(base.String()); e != nil {
		return e, base, true
	}
	return nil, base, true
}

// ToISO2 converts any recognized language code, word, or tag to ISO 639-1.
// Returns empty string for unrecognized input. Unknown 2-letter codes pass
// through.
func ToISO2(code string) string {
	code = clean(code)
	if code == "" {
		return ""
	}
	e, base, ok := resolve(code)
	switch {
	case e != nil:
		return e.code2
	case ok && len(base.String()) == 2:
		return base.String()
	case len(code) == 2:
		return code
	}
	return ""
}

// ToISO3 converts any recognized language code to ISO 639-2/T. Returns "und"
// for unrecognized 2-letter codes and passes 3-letter codes through.
func ToISO3(code string) string {
	code = clean(code)
	if code == "" {
		return "und"
	}
	e, base, ok := resolve(code)
	switch {
	case e != nil:
		return e.code3
	case ok:
		return base.ISO3()
	case len(code) == 3:
		return code
	}
	return "und"
}

// ToDisc converts a language to the ISO 639-2/B form used in disc stream
// tables and player settings. Returns empty string when the input cannot
// be resolved.
func ToDisc(code string) string {
	code = clean(code)
	if code == "" {
		return ""
	}
	if e, _, _ := resolve(code); e != nil {
		if e.alt3 != "" {
			return e.alt3
		}
		return e.code3
	}
	iso3 := ToISO3(code)
	if iso3 == "und" {
		return ""
	}
	return iso3
}

// Match reports whether two codes name the same language. Undetermined
// languages never match.
func Match(a, b string) bool {
	ia, ib := ToISO3(a), ToISO3(b)
	return ia != "und" && ia == ib
}

// DisplayName returns a human-readable language name for any recognized code.
// Returns "Unknown" for empty input, or the uppercased code for unrecognized input.
func DisplayName(code string) string {
	trimmed := clean(code)
	if trimmed == "" {
		return "Unknown"
	}
	e, base, ok := resolve(trimmed)
	if e != nil {
		return e.display
	}
	if ok {
		if name := display.English.Languages().Name(base); name != "" {
			return name
		}
	}
	return strings.ToUpper(trimmed)
}
