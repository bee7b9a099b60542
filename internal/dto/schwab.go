package dto

// Typed value objects for the Schwab API boundary. Field names follow the
// vendor's wire format; optional fields are pointers.

// Token is the persisted OAuth token artifact.
type Token struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope,omitempty"`
	ExpiresIn    int64  `json:"expires_in"`
	IssuedAt     int64  `json:"issued_at"`
}

// Quote is a point-in-time price/volume snapshot for one symbol.
type Quote struct {
	Symbol           string   `json:"symbol"`
	LastPrice        float64  `json:"lastPrice"`
	OpenPrice        float64  `json:"openPrice"`
	HighPrice        float64  `json:"highPrice"`
	LowPrice         float64  `json:"lowPrice"`
	ClosePrice       float64  `json:"closePrice"`
	NetChange        float64  `json:"netChange"`
	NetPercentChange float64  `json:"netPercentChange"`
	TotalVolume      int64    `json:"totalVolume"`
	BidPrice         *float64 `json:"bidPrice,omitempty"`
	AskPrice         *float64 `json:"askPrice,omitempty"`
	QuoteTime        int64    `json:"quoteTime,omitempty"`
}

// QuoteEnvelope is one entry of the vendor quote response, which nests the
// quote fields under a "quote" key per symbol.
type QuoteEnvelope struct {
	AssetMainType string `json:"assetMainType,omitempty"`
	Symbol        string `json:"symbol"`
	Quote         Quote  `json:"quote"`
}

// Candle is one OHLCV bucket of a price history response.
type Candle struct {
	Open     float64 `json:"open"`
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Close    float64 `json:"close"`
	Volume   int64   `json:"volume"`
	Datetime int64   `json:"datetime"`
}

// PriceHistory is the vendor's historical OHLCV payload.
type PriceHistory struct {
	Symbol  string   `json:"symbol"`
	Empty   bool     `json:"empty"`
	Candles []Candle `json:"candles"`
}

// Account is one linked brokerage account.
type Account struct {
	AccountNumber string `json:"accountNumber"`
	HashValue     string `json:"hashValue,omitempty"`
}

// StreamerInfo carries the websocket endpoint and login identifiers returned
// by the user-preference call.
type StreamerInfo struct {
	StreamerSocketURL      string `json:"streamerSocketUrl"`
	SchwabClientCustomerID string `json:"schwabClientCustomerId"`
	SchwabClientCorrelID   string `json:"schwabClientCorrelId"`
	SchwabClientChannel    string `json:"schwabClientChannel"`
	SchwabClientFunctionID string `json:"schwabClientFunctionId"`
}

// UserPreference is the subset of the preference payload the streamer needs.
type UserPreference struct {
	StreamerInfo []StreamerInfo `json:"streamerInfo"`
}

// StreamEquity is one level-one equity update. The vendor keys fields by
// numeric code; the codes below are the subset the save path consumes.
type StreamEquity struct {
	Key         string   `json:"key"`
	BidPrice    *float64 `json:"1,omitempty"`
	AskPrice    *float64 `json:"2,omitempty"`
	LastPrice   *float64 `json:"3,omitempty"`
	TotalVolume *float64 `json:"8,omitempty"`
	HighPrice   *float64 `json:"10,omitempty"`
	LowPrice    *float64 `json:"11,omitempty"`
	NetChange   *float64 `json:"18,omitempty"`
}

// StreamData is one service block within a stream message.
type StreamData struct {
	Service   string         `json:"service"`
	Command   string         `json:"command"`
	Timestamp int64          `json:"timestamp"`
	Content   []StreamEquity `json:"content"`
}

// StreamMessage is one inbound websocket frame. Data frames carry updates;
// response frames acknowledge commands.
type StreamMessage struct {
	Data     []StreamData     `json:"data,omitempty"`
	Response []StreamResponse `json:"response,omitempty"`
	Notify   []StreamNotify   `json:"notify,omitempty"`
}

type StreamResponse struct {
	Service string `json:"service"`
	Command string `json:"command"`
	Content struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
	} `json:"content"`
}

type StreamNotify struct {
	Heartbeat string `json:"heartbeat,omitempty"`
}
