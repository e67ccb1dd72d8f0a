package movetree

import (
	"slices"
	"strconv"
	"strings"
)

// Frequently used annotation glyphs.
const (
	NAGNone             = 0
	NAGGoodMove         = 1
	NAGMistake          = 2
	NAGBrilliantMove    = 3
	NAGBlunder          = 4
	NAGInterestingMove  = 5
	NAGDubiousMove      = 6
	NAGForcedMove       = 7
	NAGDrawish          = 10
	NAGUnclear          = 13
	NAGWhiteSlightEdge  = 14
	NAGBlackSlightEdge  = 15
	NAGWhiteAdvantage   = 16
	NAGBlackAdvantage   = 17
	NAGWhiteDecisive    = 18
	NAGBlackDecisive    = 19
	NAGNovelty          = 146
	NAGDiagram          = 220
	NAGDiagramFromBlack = 221
)

// NAGInfo describes one numeric annotation glyph.
type NAGInfo struct {
	Code   int
	Symbol string // printable glyph, empty when there is none
	Name   string
}

var nagTable = map[int]NAGInfo{
	0:   {0, "", "null annotation"},
	1:   {1, "!", "good move"},
	2:   {2, "?", "mistake"},
	3:   {3, "!!", "brilliant move"},
	4:   {4, "??", "blunder"},
	5:   {5, "!?", "interesting move"},
	6:   {6, "?!", "dubious move"},
	7:   {7, "□", "forced move"},
	8:   {8, "", "singular move"},
	9:   {9, "", "worst move"},
	10:  {10, "=", "drawish position"},
	11:  {11, "", "equal chances, quiet position"},
	12:  {12, "", "equal chances, active position"},
	13:  {13, "∞", "unclear position"},
	14:  {14, "⩲", "White has a slight advantage"},
	15:  {15, "⩱", "Black has a slight advantage"},
	16:  {16, "±", "White has a moderate advantage"},
	17:  {17, "∓", "Black has a moderate advantage"},
	18:  {18, "+-", "White has a decisive advantage"},
	19:  {19, "-+", "Black has a decisive advantage"},
	20:  {20, "", "White has a crushing advantage"},
	21:  {21, "", "Black has a crushing advantage"},
	22:  {22, "⨀", "White is in zugzwang"},
	23:  {23, "⨀", "Black is in zugzwang"},
	24:  {24, "", "White has a slight space advantage"},
	25:  {25, "", "Black has a slight space advantage"},
	26:  {26, "", "White has a moderate space advantage"},
	27:  {27, "", "Black has a moderate space advantage"},
	28:  {28, "", "White has a decisive space advantage"},
	29:  {29, "", "Black has a decisive space advantage"},
	30:  {30, "", "White has a slight time advantage"},
	31:  {31, "", "Black has a slight time advantage"},
	32:  {32, "⟳", "White has a moderate time advantage"},
	33:  {33, "⟳", "Black has a moderate time advantage"},
	34:  {34, "", "White has a decisive time advantage"},
	35:  {35, "", "Black has a decisive time advantage"},
	36:  {36, "→", "White has the initiative"},
	37:  {37, "→", "Black has the initiative"},
	38:  {38, "", "White has a lasting initiative"},
	39:  {39, "", "Black has a lasting initiative"},
	40:  {40, "↑", "White has the attack"},
	41:  {41, "↑", "Black has the attack"},
	42:  {42, "", "White has insufficient compensation for material deficit"},
	43:  {43, "", "Black has insufficient compensation for material deficit"},
	44:  {44, "=∞", "White has sufficient compensation for material deficit"},
	45:  {45, "=∞", "Black has sufficient compensation for material deficit"},
	46:  {46, "", "White has more than adequate compensation for material deficit"},
	47:  {47, "", "Black has more than adequate compensation for material deficit"},
	132: {132, "⇆", "White has moderate counterplay"},
	133: {133, "⇆", "Black has moderate counterplay"},
	134: {134, "", "White has decisive counterplay"},
	135: {135, "", "Black has decisive counterplay"},
	136: {136, "⊕", "White has moderate time control pressure"},
	137: {137, "⊕", "Black has moderate time control pressure"},
	138: {138, "", "White has severe time control pressure"},
	139: {139, "", "Black has severe time control pressure"},
	140: {140, "∆", "with the idea"},
	141: {141, "", "aimed against"},
	142: {142, "⌓", "better is"},
	143: {143, "", "worse is"},
	144: {144, "", "equivalent is"},
	145: {145, "RR", "editorial comment"},
	146: {146, "N", "novelty"},
	220: {220, "", "diagram"},
	221: {221, "", "diagram from Black's perspective"},
}

// glyphCodes maps glyphs accepted in move text to their codes.
var glyphCodes = map[string]int{
	"!":   1,
	"?":   2,
	"!!":  3,
	"??":  4,
	"!?":  5,
	"?!":  6,
	"□":   7,
	"=":   10,
	"∞":   13,
	"~":   13,
	"⩲":   14,
	"+=":  14,
	"+/=": 14,
	"⩱":   15,
	"=+":  15,
	"=/+": 15,
	"±":   16,
	"+/-": 16,
	"∓":   17,
	"-/+": 17,
	"+-":  18,
	"-+":  19,
	"=∞":  44,
	"∆":   140,
}

// LookupNAG returns the description of code. Unknown codes get a name of
// the form "$n".
func LookupNAG(code int) NAGInfo {
	if info, ok := nagTable[code]; ok {
		return info
	}
	return NAGInfo{Code: code, Name: "$" + strconv.Itoa(code)}
}

// NAGFromGlyph returns the code of a glyph such as "!?" or "+-".
func NAGFromGlyph(glyph string) (int, bool) {
	code, ok := glyphCodes[glyph]
	return code, ok
}

// parseNAG reads "$n" text.
func parseNAG(s string) (int, bool) {
	if !strings.HasPrefix(s, "$") {
		return 0, false
	}
	n, err := strconv.Atoi(s[1:])
	if err != nil || n < 0 || n > 255 {
		return 0, false
	}
	return n, true
}

// splitSuffix separates move quality glyphs written directly behind a
// move, as in "Nf3!?", from the move itself.
func splitSuffix(word string) (move string, nags []int) {
	end := len(word)
	for end > 0 && (word[end-1] == '!' || word[end-1] == '?') {
		end--
	}
	move = word[:end]
	if suffix := word[end:]; suffix != "" {
		if code, ok := glyphCodes[suffix]; ok {
			nags = append(nags, code)
		}
	}
	return move, nags
}

// symbols renders NAGs for display, e.g. "!?" or "±". Codes without a
// glyph are written as "$n".
func symbols(nags []int) string {
	var sb strings.Builder
	for _, code := range nags {
		info := LookupNAG(code)
		switch {
		case code == NAGDiagram || code == NAGDiagramFromBlack:
		case info.Symbol == "":
			sb.WriteString(" $" + strconv.Itoa(code))
		case code <= NAGDubiousMove:
			sb.WriteString(info.Symbol)
		default:
			sb.WriteString(" " + info.Symbol)
		}
	}
	return sb.String()
}

// addNAG inserts code into the ascending set nags.
func addNAG(nags []int, code int) []int {
	i, found := slices.BinarySearch(nags, code)
	if found {
		return nags
	}
	return slices.Insert(nags, i, code)
}

// removeNAG deletes code from nags.
func removeNAG(nags []int, code int) []int {
	if i, found := slices.BinarySearch(nags, code); found {
		return slices.Delete(nags, i, i+1)
	}
	return nags
}
