package marketModel

import "github.com/shopspring/decimal"

// RawHolderTable is the institutional-holder disclosure table exactly as the
// data provider returns it: a column name list plus rows of untyped cells.
// Neither the column set nor the cell types are stable across provider
// versions, so nothing beyond "ordered rows" may be assumed here.
type RawHolderTable struct {
	Columns []string `json:"columns"`
	Data    [][]any  `json:"data"`
}

type Quote struct {
	Ticker string          `json:"ticker"`
	Price  decimal.Decimal `json:"price"`
}

type NewsItem struct {
	Title     string `json:"title"`
	Publisher string `json:"publisher"`
}
