package model

import "github.com/shopspring/decimal"

// HolderRecord is one institutional holder's disclosed position after
// normalization. Tier is assigned once by the classifier and never mutated.
type HolderRecord struct {
	Name   string
	Shares decimal.Decimal
	Tier   Tier
}

// SavingsEstimate aggregates the located float and the estimated benefit of
// borrowing directly instead of through a prime broker.
// MarketValue = TotalShares * unit price, DailySavings = a pure function of
// MarketValue and the configured spread/day-count assumptions.
type SavingsEstimate struct {
	TotalShares  decimal.Decimal
	MarketValue  decimal.Decimal
	DailySavings decimal.Decimal
}

// Analysis is the full result of one ticker run, handed to the presentation
// layer as plain data.
type Analysis struct {
	Ticker string
	// CIK is the SEC registry identifier, zero-padded to 10 digits. Empty
	// when the registry lookup failed or had no match; purely informational.
	CIK   string
	Price decimal.Decimal
	// PriceIsFallback flags that the live quote was unavailable and Price is
	// the configured stand-in, so downstream numbers are rough.
	PriceIsFallback bool
	Holders         []HolderRecord
	Estimate        SavingsEstimate
}

type NewsItem struct {
	Title     string
	Publisher string
}
