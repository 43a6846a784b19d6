package sources

import (
	"shicihub/pkg/models"
	"shicihub/pkg/utils"
)

// builtinPoems is a small bundled selection so the site has content with
// no data directory or store at all.
var builtinPoems = []models.Poem{
	{
		ID: "1", Title: "静夜思", Author: "李白", Dynasty: "唐",
		Content: []string{"床前明月光，疑是地上霜。", "举头望明月，低头思故乡。"},
		Tags:    []string{"思乡", "月", "五言绝句"},
	},
	{
		ID: "2", Title: "春晓", Author: "孟浩然", Dynasty: "唐",
		Content: []string{"春眠不觉晓，处处闻啼鸟。", "夜来风雨声，花落知多少。"},
		Tags:    []string{"春", "田园", "五言绝句"},
	},
	{
		ID: "3", Title: "登鹳雀楼", Author: "王之涣", Dynasty: "唐",
		Content: []string{"白日依山尽，黄河入海流。", "欲穷千里目，更上一层楼。"},
		Tags:    []string{"黄河", "山水", "五言绝句"},
	},
	{
		ID: "4", Title: "相思", Author: "王维", Dynasty: "唐",
		Content: []string{"红豆生南国，春来发几枝。", "愿君多采撷，此物最相思。"},
		Tags:    []string{"相思", "爱情", "五言绝句"},
	},
	{
		ID: "5", Title: "登高", Author: "杜甫", Dynasty: "唐",
		Content: []string{
			"风急天高猿啸哀，渚清沙白鸟飞回。",
			"无边落木萧萧下，不尽长江滚滚来。",
			"万里悲秋常作客，百年多病独登台。",
			"艰难苦恨繁霜鬓，潦倒新停浊酒杯。",
		},
		Tags: []string{"秋", "重阳", "七言律诗"},
	},
	{
		ID: "6", Title: "望庐山瀑布", Author: "李白", Dynasty: "唐",
		Content: []string{"日照香炉生紫烟，遥看瀑布挂前川。", "飞流直下三千尺，疑是银河落九天。"},
		Tags:    []string{"庐山", "山水", "七言绝句"},
	},
	{
		ID: "7", Title: "水调歌头·明月几时有", Author: "苏轼", Dynasty: "宋",
		Content: []string{
			"明月几时有？把酒问青天。",
			"不知天上宫阙，今夕是何年。",
			"我欲乘风归去，又恐琼楼玉宇，高处不胜寒。",
			"起舞弄清影，何似在人间。",
			"转朱阁，低绮户，照无眠。",
			"不应有恨，何事长向别时圆？",
			"人有悲欢离合，月有阴晴圆缺，此事古难全。",
			"但愿人长久，千里共婵娟。",
		},
		Tags: []string{"中秋", "月", "豪放"},
	},
	{
		ID: "8", Title: "声声慢·寻寻觅觅", Author: "李清照", Dynasty: "宋",
		Content: []string{
			"寻寻觅觅，冷冷清清，凄凄惨惨戚戚。",
			"乍暖还寒时候，最难将息。",
			"三杯两盏淡酒，怎敌他、晚来风急？",
			"雁过也，正伤心，却是旧时相识。",
		},
		Tags: []string{"秋", "婉约", "忧愁"},
	},
}

// NewBuiltin returns the bundled selection as an adapter.
func NewBuiltin() Adapter {
	load := func() ([]models.Poem, error) { return builtinPoems, nil }
	return newCollection("builtin", load, normalizeBuiltin)
}

// NewStatic wraps an already-canonical list; tests and tools use it to
// register ad hoc collections.
func NewStatic(name string, poems []models.Poem) Adapter {
	load := func() ([]models.Poem, error) { return poems, nil }
	return newCollection(name, load, func(in []models.Poem) []models.Poem {
		return normalizeCanonical(in, name, name)
	})
}

func normalizeBuiltin(in []models.Poem) []models.Poem {
	return normalizeCanonical(in, "builtin", "精选")
}

// normalizeCanonical applies the fallbacks to records that already have the
// canonical shape and stamps the source and its collection tag.
func normalizeCanonical(in []models.Poem, source, collectionTag string) []models.Poem {
	out := make([]models.Poem, 0, len(in))
	for _, p := range in {
		tags := append([]string{collectionTag}, p.Tags...)
		out = append(out, models.Poem{
			ID:       p.ID,
			Title:    utils.OrDefault(p.Title, untitled),
			Author:   utils.OrDefault(p.Author, anonymous),
			Dynasty:  utils.OrDefault(p.Dynasty, utils.UnknownDynasty),
			Content:  utils.CleanLines(p.Content),
			Tags:     utils.Dedupe(tags...),
			Source:   source,
			Metadata: p.Metadata,
		})
	}
	return out
}
