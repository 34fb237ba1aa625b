// Package skin scores the skin type questionnaire.
package skin

// Type is a skin type a questionnaire can point to.
type Type string

const (
	Oily        Type = "Oily"
	Dry         Type = "Dry"
	Combination Type = "Combination"
	Sensitive   Type = "Sensitive"
)

// QuestionCount is the number of yes/no questions in the questionnaire.
const QuestionCount = 12

// groups maps consecutive blocks of three questions to the type they indicate.
var groups = [...]Type{Oily, Dry, Combination, Sensitive}

// Questions holds the questionnaire, three questions per group in the order of groups.
var Questions = [QuestionCount]string{
	"Do you notice that your skin tends to appear shiny or greasy, especially in the T-zone (forehead, nose, and chin)?",
	"Does your skin feel slick or oily to the touch, even shortly after washing your face?",
	"Have you experienced frequent breakouts, particularly in areas where your skin is oilier?",
	"Does your skin often feel tight or rough, especially after washing your face or showering?",
	"Do you experience flakiness or noticeable dry patches on your skin, particularly on your cheeks or forehead?",
	"Is your skin prone to sensitivity or irritation, and does it easily become red or inflamed?",
	"Do you experience oiliness in specific areas of your face, such as the T-zone, while other areas feel dry or normal?",
	"Does your skin break out or develop blackheads in the oilier areas, while the drier areas feel tight or flaky?",
	"Do certain skincare products work well on some parts of your face while making others oilier or drier?",
	"Do you frequently experience redness, itching, burning, or stinging when using certain skincare products or cosmetics?",
	"Does your skin become easily irritated by sun exposure, wind, or extreme temperatures?",
	"Have you noticed that your skin reacts negatively to certain fabrics, detergents, or fragrances?",
}

// Identify returns the type whose questions got strictly more "yes" answers
// than any other group. It returns false when no single group leads.
func Identify(answers [QuestionCount]bool) (Type, bool) {
	var counts [len(groups)]int
	for i, yes := range answers {
		if yes {
			counts[i/3]++
		}
	}

	best, tie := 0, false
	for g := 1; g < len(counts); g++ {
		switch {
		case counts[g] > counts[best]:
			best, tie = g, false
		case counts[g] == counts[best]:
			tie = true
		}
	}
	if tie {
		return "", false
	}
	return groups[best], true
}
