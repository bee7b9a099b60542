package common

const (
	// Cache key templates.
	KeyQuotes = "schwab:quotes:%s"

	// MaxQuoteSymbols caps one batched quote request.
	MaxQuoteSymbols = 50
)
