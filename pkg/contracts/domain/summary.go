package domain

// ProductRevenue is one entry of the top-products ranking.
type ProductRevenue struct {
	Product string  `json:"product" csv:"Product"`
	Revenue float64 `json:"revenue" csv:"Revenue"`
}

// StockAlert is one entry of the low-stock ranking.
type StockAlert struct {
	Product string `json:"product" csv:"Product"`
	Stock   int    `json:"stock" csv:"Stock"`
}

// BusinessSummary is the compact analytical summary derived from the three
// validated datasets. It is recomputed from scratch on every aggregation call;
// no incremental update exists.
type BusinessSummary struct {
	TotalRevenue      float64          `json:"total_revenue" csv:"TotalRevenue"`
	TotalOrders       int              `json:"total_orders" csv:"TotalOrders"`
	AverageOrderValue float64          `json:"average_order_value" csv:"AverageOrderValue"`
	TopProducts       []ProductRevenue `json:"top_products"`
	LowStockItems     []StockAlert     `json:"low_stock_items"`
	AverageRating     float64          `json:"average_rating" csv:"AverageRating"`
	// SentimentScore is a lexicon heuristic in [-1, 1], not NLP sentiment.
	SentimentScore float64 `json:"sentiment_score" csv:"SentimentScore"`
}
