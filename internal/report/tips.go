package report

import "strings"

// homeTips maps growth-area skills to a concrete activity parents can
// run at home without materials or prep.
var homeTips = map[string]string{
	"spelling":              "Play quick word-family games (cat, bat, mat). 5 minutes a day builds confidence.",
	"pattern_recognition":   "Look for patterns in nature or blocks at home. Ask: 'What comes next?'",
	"storytelling":          "At dinner, take turns adding a sentence to a silly family story.",
	"reading_comprehension": "After reading, ask: 'Who was the main character? What changed?'",
	"addition":              "Cook together and add ingredient counts (2 cups + 1 cup).",
	"subtraction":           "Snack math: 'We had 6 grapes, you ate 2, how many left?'",
	"logic":                 "Play 'Odd One Out' with household items and explain the reason.",
	"vocabulary":            "Pick a 'word of the day' and use it three times before bedtime.",
}

const fallbackTip = "Keep sessions short and fun. Let your child explain their thinking out loud."

// tipsFor returns at most three home tips for the focus skills, with a
// general tip when none of the skills has a specific one.
func tipsFor(focus []string) []string {
	var tips []string
	for _, s := range focus {
		if tip, ok := homeTips[s]; ok {
			tips = append(tips, titleCase(s)+": "+tip)
		}
		if len(tips) == 3 {
			break
		}
	}
	if len(tips) == 0 {
		tips = append(tips, fallbackTip)
	}
	return tips
}

// titleCase turns a snake_case skill name into display form.
func titleCase(skill string) string {
	words := strings.Split(skill, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
