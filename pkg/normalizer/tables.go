package normalizer

import "strings"

// Table names a local table without its file prefix.
type Table string

// Tables read by the normalizer.
const (
	TableART Table = "ART" // articles
	TableARC Table = "ARC" // article combinations
	TableSTO Table = "STO" // simple stock
	TableSTC Table = "STC" // combination stock
	TableLTA Table = "LTA" // simple price list
	TableLTC Table = "LTC" // combination price list
)

// AllTables lists every table the normalizer understands.
var AllTables = []Table{TableART, TableARC, TableSTO, TableSTC, TableLTA, TableLTC}

// Column names of the local database export.
const (
	ColArticleCode    = "CODART"
	ColArticleName    = "DESART"
	ColArticlePublish = "SUWART"
	ColArticleBarcode = "EANART"
	ColArticleCost    = "PCOART"

	ColCombArticle = "ARTARC"
	ColCombFirst   = "CE1ARC"
	ColCombSecond  = "CE2ARC"

	ColPriceArticle = "ARTLTA"
	ColPriceValue   = "PRELTA"

	ColCombPriceArticle = "ARTLTC"
	ColCombPriceFirst   = "CE1LTC"
	ColCombPriceSecond  = "CE2LTC"
	ColCombPriceValue   = "PRELTC"

	ColStockArticle = "ARTSTO"
	ColStockValue   = "DISSTO"

	ColCombStockArticle = "ARTSTC"
	ColCombStockFirst   = "CE1STC"
	ColCombStockSecond  = "CE2STC"
	ColCombStockValue   = "DISSTC"
)

// Row is one record keyed by column name.
type Row map[string]string

// Get returns the trimmed value of column.
func (r Row) Get(column string) string {
	return strings.TrimSpace(r[column])
}

// Tables holds every loaded table. A missing table is treated as empty.
type Tables map[Table][]Row

// ParseTable maps a file or table name ("F_ART.csv", "f_art", "ART") to a Table.
func ParseTable(name string) (Table, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	name = strings.TrimSuffix(name, ".CSV")
	name = strings.TrimPrefix(name, "F_")
	for _, t := range AllTables {
		if string(t) == name {
			return t, true
		}
	}
	return "", false
}

// rowIndex groups rows of one table by a key column, preserving row order.
type rowIndex map[string][]Row

func indexBy(rows []Row, column string) rowIndex {
	idx := make(rowIndex)
	for _, r := range rows {
		key := r.Get(column)
		idx[key] = append(idx[key], r)
	}
	return idx
}
