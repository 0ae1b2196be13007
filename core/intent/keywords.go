package intent

// KeywordSet is an immutable set of normalized trigger strings for one
// choice. Order is irrelevant; duplicates after normalization collapse.
type KeywordSet struct {
	choice   Choice
	keywords []string
}

// NewKeywordSet normalizes and de-duplicates keywords. Empty entries are
// dropped since they would match every input.
func NewKeywordSet(choice Choice, keywords ...string) KeywordSet {
	seen := make(map[string]struct{}, len(keywords))
	normalized := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = Normalize(kw)
		if kw == "" {
			continue
		}
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		normalized = append(normalized, kw)
	}

	return KeywordSet{choice: choice, keywords: normalized}
}

func (k KeywordSet) Choice() Choice { return k.choice }
func (k KeywordSet) Len() int       { return len(k.keywords) }

// Keywords returns a copy of the normalized keywords.
func (k KeywordSet) Keywords() []string {
	return append([]string(nil), k.keywords...)
}

// DefaultKnockKeywords are the knock triggers in English and Levantine
// Arabic, including the fragments recognizers commonly produce for "knock".
func DefaultKnockKeywords() KeywordSet {
	return NewKeywordSet(ChoiceKnock,
		"knock", "knocking", "knock knock", "hit", "bang", "tap", "punch",
		"hammer", "beat", "pound", "strike", "tock", "tok", "tuk", "tuk tuk",
		"not", "nock", "nok", "nak",

		"طرق", "اطرق", "طق", "دق", "ادق", "خبط", "اخبط", "اضرب", "ضرب",
		"دقيت", "طرقت", "خبطت", "بطرق", "بدق", "بخبط", "طقطق", "طق طق",
		"دق دق", "طقطقة", "خبطة", "طرقة", "دقة", "ضربة", "اطقطق", "اطرقي",
		"ادقي", "اخبطي", "بدي اطرق", "بدي ادق", "رح اطرق", "رح ادق",
		"اريد اطرق", "اريد ادق", "طق على", "دق على", "اضرب على", "نقر",
		"انقر", "نق", "نقنق",
	)
}

// DefaultScreamKeywords are the scream and call-for-help triggers.
func DefaultScreamKeywords() KeywordSet {
	return NewKeywordSet(ChoiceScream,
		"scream", "shout", "yell", "help", "cry", "calling", "call", "loud",
		"rescue", "save", "save me", "help me", "screaming", "shouting",

		"صراخ", "صرخ", "اصرخ", "صرخة", "بصرخ", "صرخت", "استغاثة", "استغيث",
		"بستغيث", "نادي", "نادى", "بنادي", "ناديت", "نداء", "ساعدني",
		"ساعدوني", "ساعدونا", "ساعدنا", "ساعده", "ساعدها", "النجدة", "نجدة",
		"يا نجدة", "هيلب", "الحقوني", "الحقني", "الحقونا", "يا ناس",
		"حد يساعدني", "حد يساعدنا", "انقذني", "انقذوني", "انقذونا", "انقذنا",
		"اغاثة", "اغيثوني", "اغيثونا", "اغيثني", "يا عالم", "وينكم", "ارجوكم",
		"ارجوك", "عاونوني", "عاونني", "عاونونا", "يلا", "تعالوا", "تعال",
		"احنا هون", "انا هون", "احنا هنا", "انا هنا", "بدي اصرخ", "رح اصرخ",
		"اريد اصرخ", "صوت", "صوتي", "اصوت", "اصيح", "صيحة", "بصيح",
	)
}
