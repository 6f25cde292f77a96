package sequence

// Kind names the rule that produced a match.
type Kind string

const (
	KindNumericPrefix Kind = "numeric_prefix"
	KindKeyword       Kind = "keyword"
	KindNumericInfix  Kind = "numeric_infix"
	KindRoman         Kind = "roman"
	KindLetter        Kind = "letter"
)

// Family groups rule kinds whose ranks are comparable with each other.
type Family string

const (
	FamilyNumeric Family = "numeric"
	FamilyKeyword Family = "keyword"
	FamilyInfix   Family = "infix"
	FamilyLetter  Family = "letter"
)

// Match is the sequence signal found in one filename.
type Match struct {
	Kind     Kind
	Raw      string
	Rank     int
	Priority int
	// Keyword is the canonical keyword for keyword matches.
	Keyword string
	// Start and End delimit the matched token within Base.
	Start int
	End   int
	// Base is the lower-cased filename without its extension.
	Base string
	// Stem is the normalized series text the token belongs to. For keyword
	// matches it ends with the canonical keyword.
	Stem string
}

// Family reports which rank family the match belongs to.
func (m Match) Family() Family {
	switch m.Kind {
	case KindNumericPrefix:
		return FamilyNumeric
	case KindKeyword:
		return FamilyKeyword
	case KindNumericInfix:
		return FamilyInfix
	default:
		return FamilyLetter
	}
}
