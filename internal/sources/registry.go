package sources

import (
	"database/sql"
	"fmt"
	"log"
	"path/filepath"

	"shicihub/pkg/utils"
)

// defaultPaths are relative to the data directory and follow the layout of
// the chinese-poetry dumps.
var defaultPaths = map[string]string{
	"lunyu":       filepath.Join("论语", "lunyu.json"),
	"chuci":       filepath.Join("楚辞", "chuci.json"),
	"shijing":     filepath.Join("诗经", "shijing.json"),
	"yuanqu":      filepath.Join("元曲", "yuanqu.json"),
	"caocao":      filepath.Join("曹操诗集", "caocao.json"),
	"nalanxingde": filepath.Join("纳兰性德", "纳兰性德诗集.json"),
	"sishuwujing": "四书五经",
}

// Build constructs the adapters named in cfg.Sources, in that order. The
// store adapter is skipped when db is nil. An unknown name is a
// configuration error and halts startup.
func Build(cfg utils.AppConfig, db *sql.DB) ([]Adapter, error) {
	var out []Adapter
	for _, sc := range cfg.Sources {
		if sc.Disabled {
			continue
		}

		path := sc.Path
		if path == "" {
			path = defaultPaths[sc.Name]
		}
		if path != "" && !filepath.IsAbs(path) {
			path = filepath.Join(cfg.DataDir, path)
		}

		switch sc.Name {
		case "builtin":
			out = append(out, NewBuiltin())
		case "store":
			if db == nil {
				log.Printf("[sources] store skipped: no database")
				continue
			}
			out = append(out, NewStore(db))
		case "lunyu":
			out = append(out, NewLunyu(path))
		case "chuci":
			out = append(out, NewChuci(path))
		case "shijing":
			out = append(out, NewShijing(path))
		case "yuanqu":
			out = append(out, NewYuanqu(path))
		case "caocao":
			out = append(out, NewCaocao(path))
		case "nalanxingde":
			out = append(out, NewNalan(path))
		case "sishuwujing":
			out = append(out, NewSishuwujing(path))
		default:
			return nil, fmt.Errorf("unknown source %q", sc.Name)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no sources enabled")
	}
	return out, nil
}
