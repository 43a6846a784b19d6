package sources

// chuciDynasties maps Chu Ci authors to their period; the anthology spans
// the Warring States through the Eastern Han.
var chuciDynasties = map[string]string{
	"屈原":   "战国",
	"宋玉":   "战国",
	"景差":   "战国",
	"贾谊":   "西汉",
	"东方朔":  "西汉",
	"庄忌":   "西汉",
	"淮南小山": "西汉",
	"王褒":   "西汉",
	"刘向":   "西汉",
	"王逸":   "东汉",
}

// yuanquDynasties normalizes the romanized labels used by the Yuan qu data.
var yuanquDynasties = map[string]string{
	"yuan": "元",
	"ming": "明",
	"song": "宋",
	"jin":  "金",
}

func lookupDynasty(table map[string]string, key, def string) string {
	if d, ok := table[key]; ok {
		return d
	}
	return def
}
