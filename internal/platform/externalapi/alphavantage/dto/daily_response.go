// Package dto defines data transfer objects for the Alpha Vantage API responses.
package dto

// DailyBar is one entry of the TIME_SERIES_DAILY response. Alpha Vantage
// returns all numbers as strings.
type DailyBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// DailyResponse represents the TIME_SERIES_DAILY response, keyed by date.
// ErrorMessage/Note/Information are the three shapes Alpha Vantage uses to
// report failures and rate limits inside a 200 response.
type DailyResponse struct {
	TimeSeries   map[string]DailyBar `json:"Time Series (Daily)"`
	ErrorMessage string              `json:"Error Message"`
	Note         string              `json:"Note"`
	Information  string              `json:"Information"`
}

// OverviewResponse represents the company OVERVIEW response.
type OverviewResponse struct {
	Symbol   string `json:"Symbol"`
	Name     string `json:"Name"`
	Exchange string `json:"Exchange"`
	Sector   string `json:"Sector"`
	Industry string `json:"Industry"`
}
