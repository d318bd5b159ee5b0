package student

// Belt is a graduation belt. Values are the names persisted in snapshots.
type Belt string

const (
	BeltWhite Belt = "Branca"

	// youth intermediate belts
	BeltGreyWhite   Belt = "Cinza e Branca"
	BeltGrey        Belt = "Cinza"
	BeltGreyBlack   Belt = "Cinza e Preta"
	BeltYellowWhite Belt = "Amarela e Branca"
	BeltYellow      Belt = "Amarela"
	BeltYellowBlack Belt = "Amarela e Preta"
	BeltOrangeWhite Belt = "Laranja e Branca"
	BeltOrange      Belt = "Laranja"
	BeltOrangeBlack Belt = "Laranja e Preta"
	BeltGreenWhite  Belt = "Verde e Branca"
	BeltGreen       Belt = "Verde"
	BeltGreenBlack  Belt = "Verde e Preta"

	// adult belts
	BeltBlue     Belt = "Azul"
	BeltPurple   Belt = "Roxa"
	BeltBrown    Belt = "Marrom"
	BeltBlack    Belt = "Preta"
	BeltRedBlack Belt = "Vermelha e Preta"
	BeltRedWhite Belt = "Vermelha e Branca"
	BeltRed      Belt = "Vermelha"
)

// Belt ladders per student category, strictly ordered.
var (
	AdultLadder = []Belt{
		BeltWhite, BeltBlue, BeltPurple, BeltBrown, BeltBlack,
		BeltRedBlack, BeltRedWhite, BeltRed,
	}

	YouthLadder = []Belt{
		BeltWhite,
		BeltGreyWhite, BeltGrey, BeltGreyBlack,
		BeltYellowWhite, BeltYellow, BeltYellowBlack,
		BeltOrangeWhite, BeltOrange, BeltOrangeBlack,
		BeltGreenWhite, BeltGreen, BeltGreenBlack,
	}
)

// LadderFor returns the ordered belt ladder for a category.
func LadderFor(cat Category) []Belt {
	if cat == CategoryYouth {
		return YouthLadder
	}
	return AdultLadder
}

// NextBelt returns the ladder successor of `current` in the category's
// ladder, or false at the terminal belt (or if `current` is off-ladder).
func NextBelt(cat Category, current Belt) (Belt, bool) {
	ladder := LadderFor(cat)
	for i, b := range ladder {
		if b == current {
			if i+1 < len(ladder) {
				return ladder[i+1], true
			}
			return "", false
		}
	}
	return "", false
}

// IsLadderBelt reports whether `b` is a valid belt on `cat`'s ladder.
func IsLadderBelt(cat Category, b Belt) bool {
	for _, lb := range LadderFor(cat) {
		if lb == b {
			return true
		}
	}
	return false
}

// IsKnownBelt reports whether `b` is a valid belt on at least one ladder.
func IsKnownBelt(b Belt) bool {
	return IsLadderBelt(CategoryAdult, b) || IsLadderBelt(CategoryYouth, b)
}
