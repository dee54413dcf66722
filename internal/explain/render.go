package explain

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/sells-group/relocate-cli/internal/model"
)

// Supported locales. Swedish is the default.
var (
	Swedish = language.Swedish
	English = language.English
)

var supported = []language.Tag{Swedish, English}

var matcher = language.NewMatcher(supported)

// Message keys for summary building blocks.
const (
	keySentence        = "summary.sentence"
	keyGeneric         = "summary.generic"
	keyGenericDefault  = "summary.generic_default"
	keyJoin            = "summary.join"
	keyClauseSavings   = "summary.savings"
	keyClauseParity    = "summary.parity"
	keyClauseSize      = "summary.size"
	keyClauseCommute   = "summary.commute"
	keyClauseHighlight = "summary.highlight"
)

type translation struct {
	key string
	en  string
	sv  string
}

var translations = []translation{
	{string(model.TagSavesOnHousing), "Save ~%d kr/month on housing", "Spara ~%d kr/mån på boendet"},
	{string(model.TagHousingCostsMore), "Housing costs ~%d kr/month more", "Boendet kostar ~%d kr/mån mer"},
	{string(model.TagShorterCommute), "%d min shorter commute", "%d min kortare pendling"},
	{string(model.TagLongerCommute), "%d min longer commute", "%d min längre pendling"},
	{string(model.TagHigherIncome), "Average income ~%d kr/year higher", "Medelinkomsten är ~%d kr/år högre"},
	{string(model.TagLowerIncome), "Average income ~%d kr/year lower", "Medelinkomsten är ~%d kr/år lägre"},
	{string(model.TagGreatNature), "Outstanding nature and outdoor life", "Fantastisk natur och friluftsliv"},
	{string(model.TagVerySafe), "Very safe municipality", "Mycket trygg kommun"},
	{string(model.TagRichCulture), "Rich cultural life", "Rikt kulturliv"},
	{string(model.TagFamilyFriendly), "Excellent for families with children", "Utmärkt för barnfamiljer"},
	{string(model.TagLimitedJobMarket), "Limited job market", "Begränsad arbetsmarknad"},
	{string(model.TagHigherTax), "Municipal tax %.1f percentage points higher", "Kommunalskatten är %.1f procentenheter högre"},
	{string(model.TagLowerTax), "Municipal tax %.1f percentage points lower", "Kommunalskatten är %.1f procentenheter lägre"},

	{keySentence, "In %s %s.", "I %s %s."},
	{keyGeneric, "%s: %s.", "%s: %s."},
	{keyGenericDefault, "%s could be worth a closer look.", "%s kan vara värt en närmare titt."},
	{keyJoin, "and", "och"},
	{keyClauseSavings, "you save ~%d kr/month", "sparar ni ~%d kr/mån"},
	{keyClauseParity, "housing costs stay about the same", "blir boendekostnaden ungefär densamma"},
	{keyClauseSize, "your budget buys ~%d m²", "räcker budgeten till ~%d m²"},
	{keyClauseCommute, "the commute takes about %d min", "tar pendlingen cirka %d min"},
	{keyClauseHighlight, "it offers %s", "erbjuder kommunen %s"},
}

var messages = newCatalog()

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(Swedish))
	for _, t := range translations {
		mustSet(b, English, t.key, t.en)
		mustSet(b, Swedish, t.key, t.sv)
	}
	return b
}

func mustSet(b *catalog.Builder, tag language.Tag, key, msg string) {
	if err := b.SetString(tag, key, msg); err != nil {
		panic("explain: register message " + key + ": " + err.Error())
	}
}

// Renderer turns structured highlights and summaries into localized text.
// A Renderer is safe for concurrent use.
type Renderer struct {
	tag     language.Tag
	printer *message.Printer
}

// NewRenderer returns a Renderer for the best supported match of locale
// ("sv", "en", "en-GB", ...). Unknown or empty locales fall back to Swedish.
func NewRenderer(locale string) *Renderer {
	tag := Swedish
	if locale != "" {
		if parsed, err := language.Parse(locale); err == nil {
			_, idx, conf := matcher.Match(parsed)
			if conf != language.No {
				tag = supported[idx]
			}
		}
	}
	return &Renderer{tag: tag, printer: message.NewPrinter(tag, message.Catalog(messages))}
}

// Locale returns the base language code the renderer writes ("sv" or "en").
func (r *Renderer) Locale() string {
	base, _ := r.tag.Base()
	return base.String()
}

// Highlight renders one highlight.
func (r *Renderer) Highlight(h model.Highlight) string {
	switch h.Tag {
	case model.TagHigherTax, model.TagLowerTax:
		return r.printer.Sprintf(string(h.Tag), h.Value)
	case model.TagSavesOnHousing, model.TagHousingCostsMore,
		model.TagShorterCommute, model.TagLongerCommute,
		model.TagHigherIncome, model.TagLowerIncome:
		return r.printer.Sprintf(string(h.Tag), round(h.Value))
	default:
		return r.printer.Sprintf(string(h.Tag))
	}
}

// Highlights renders a list of highlights in order.
func (r *Renderer) Highlights(hs []model.Highlight) []string {
	out := make([]string, 0, len(hs))
	for _, h := range hs {
		out = append(out, r.Highlight(h))
	}
	return out
}

// Summary renders the one-line narrative.
func (r *Renderer) Summary(s Summary) string {
	clauses := make([]string, 0, len(s.Clauses))
	onlyHighlight := true
	for _, c := range s.Clauses {
		clauses = append(clauses, r.clause(c))
		if c.Kind != ClauseHighlight {
			onlyHighlight = false
		}
	}

	switch {
	case len(clauses) == 0 || onlyHighlight:
		if s.Highlight == "" {
			return r.printer.Sprintf(keyGenericDefault, s.LocationName)
		}
		return r.printer.Sprintf(keyGeneric, s.LocationName, s.Highlight)
	default:
		joined := strings.Join(clauses, " "+r.printer.Sprintf(keyJoin)+" ")
		return r.printer.Sprintf(keySentence, s.LocationName, joined)
	}
}

func (r *Renderer) clause(c Clause) string {
	switch c.Kind {
	case ClauseSavings:
		return r.printer.Sprintf(keyClauseSavings, round(c.Value))
	case ClauseParity:
		return r.printer.Sprintf(keyClauseParity)
	case ClauseSize:
		return r.printer.Sprintf(keyClauseSize, round(c.Value))
	case ClauseCommute:
		return r.printer.Sprintf(keyClauseCommute, round(c.Value))
	default:
		return r.printer.Sprintf(keyClauseHighlight, lowerFirst(c.Text))
	}
}

func round(v float64) int {
	return int(math.Round(v))
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
