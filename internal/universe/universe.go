// Package universe holds the built-in catalog of scannable symbols grouped
// by category. The catalog is static: the scanner takes any symbol list, so
// this is a convenience surface for category-driven scans, not a registry.
package universe

import (
	"sort"
	"strings"
)

// Asset is one catalog entry
type Asset struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Category identifiers
const (
	USAMega       = "usa_mega"
	USATech       = "usa_tech"
	USAFinance    = "usa_finance"
	USAEnergy     = "usa_energy"
	USAHealthcare = "usa_healthcare"
	BrazilStocks  = "brazil_stocks"
	BrazilREITs   = "brazil_reits"
	EuropeStocks  = "europe_stocks"
	AsiaStocks    = "asia_stocks"
	Crypto        = "crypto"
	ETFs          = "etfs"
	Commodities   = "commodities"
	Indices       = "indices"
)

var catalog = map[string]map[string]string{
	USAMega: {
		"AAPL": "Apple Inc.", "MSFT": "Microsoft Corp.", "GOOGL": "Alphabet Inc.",
		"AMZN": "Amazon.com Inc.", "NVDA": "NVIDIA Corp.", "TSLA": "Tesla Inc.",
		"META": "Meta Platforms", "BRK-B": "Berkshire Hathaway", "UNH": "UnitedHealth Group",
		"JNJ": "Johnson & Johnson", "V": "Visa Inc.", "PG": "Procter & Gamble",
		"JPM": "JPMorgan Chase", "XOM": "Exxon Mobil", "HD": "Home Depot",
		"CVX": "Chevron Corp.", "MA": "Mastercard Inc.", "ABBV": "AbbVie Inc.",
		"PFE": "Pfizer Inc.", "KO": "Coca-Cola Co.", "AVGO": "Broadcom Inc.",
		"COST": "Costco Wholesale", "WMT": "Walmart Inc.", "BAC": "Bank of America",
		"DIS": "Walt Disney Co.", "PEP": "PepsiCo Inc.", "LLY": "Eli Lilly and Co.",
		"CRM": "Salesforce Inc.",
	},
	USATech: {
		"NFLX": "Netflix Inc.", "ADBE": "Adobe Inc.", "ORCL": "Oracle Corp.",
		"INTC": "Intel Corp.", "CSCO": "Cisco Systems", "AMD": "Advanced Micro Devices",
		"QCOM": "Qualcomm Inc.", "TXN": "Texas Instruments", "IBM": "IBM Corp.",
		"MU": "Micron Technology", "AMAT": "Applied Materials", "LRCX": "Lam Research",
		"SHOP": "Shopify Inc.", "UBER": "Uber Technologies", "SNAP": "Snap Inc.",
		"PINS": "Pinterest Inc.",
	},
	USAFinance: {
		"JPM": "JPMorgan Chase", "BAC": "Bank of America", "WFC": "Wells Fargo",
		"GS": "Goldman Sachs", "MS": "Morgan Stanley", "V": "Visa Inc.",
		"MA": "Mastercard Inc.", "PYPL": "PayPal Holdings", "COIN": "Coinbase Global",
	},
	USAEnergy: {
		"XOM": "Exxon Mobil", "CVX": "Chevron Corp.", "COP": "ConocoPhillips",
		"SLB": "Schlumberger", "HAL": "Halliburton",
	},
	USAHealthcare: {
		"JNJ": "Johnson & Johnson", "PFE": "Pfizer Inc.", "MRK": "Merck & Co.",
		"ABBV": "AbbVie Inc.", "LLY": "Eli Lilly and Co.",
	},
	BrazilStocks: {
		"PETR4.SA": "Petrobras", "VALE3.SA": "Vale", "ITUB4.SA": "Itau Unibanco",
		"BBDC4.SA": "Bradesco", "ABEV3.SA": "Ambev", "B3SA3.SA": "B3",
		"WEGE3.SA": "WEG", "SUZB3.SA": "Suzano", "RENT3.SA": "Localiza",
		"LREN3.SA": "Lojas Renner", "MGLU3.SA": "Magazine Luiza", "RADL3.SA": "Raia Drogasil",
		"RAIL3.SA": "Rumo", "HAPV3.SA": "Hapvida", "CSNA3.SA": "CSN",
		"AZUL4.SA": "Azul",
	},
	BrazilREITs: {
		"HGLG11.SA": "CSHG Logistica", "XPML11.SA": "XP Malls", "BTLG11.SA": "BTG Logistica",
		"KNCR11.SA": "Kinea Rendimento", "MXRF11.SA": "Maxi Renda", "VISC11.SA": "Vinci Shopping Centers",
	},
	EuropeStocks: {
		"ASML.AS": "ASML Holding", "SAP.DE": "SAP SE", "MC.PA": "LVMH",
		"NVO": "Novo Nordisk", "NESN.SW": "Nestle", "NOVN.SW": "Novartis",
		"SIE.DE": "Siemens", "OR.PA": "L'Oreal", "SAN.PA": "Sanofi",
		"TTE.PA": "TotalEnergies", "SHEL.L": "Shell", "BP.L": "BP",
	},
	AsiaStocks: {
		"TSM": "Taiwan Semiconductor", "BABA": "Alibaba Group", "TCEHY": "Tencent Holdings",
		"TM": "Toyota Motor", "SONY": "Sony Group", "7203.T": "Toyota (Tokyo)",
		"9984.T": "SoftBank Group", "005930.KS": "Samsung Electronics", "000660.KS": "SK Hynix",
		"9988.HK": "Alibaba (Hong Kong)", "0700.HK": "Tencent (Hong Kong)",
	},
	Crypto: {
		"BTC-USD": "Bitcoin", "ETH-USD": "Ethereum", "BNB-USD": "Binance Coin",
		"ADA-USD": "Cardano", "XRP-USD": "Ripple", "SOL-USD": "Solana",
		"DOT-USD": "Polkadot", "DOGE-USD": "Dogecoin", "AVAX-USD": "Avalanche",
		"LTC-USD": "Litecoin", "LINK-USD": "Chainlink",
	},
	ETFs: {
		"SPY": "SPDR S&P 500 ETF", "QQQ": "Invesco QQQ Trust", "IWM": "iShares Russell 2000",
		"EFA": "iShares MSCI EAFE", "EEM": "iShares MSCI Emerging Markets",
		"VTI": "Vanguard Total Stock Market", "GLD": "SPDR Gold Shares",
		"SLV": "iShares Silver Trust", "XLE": "Energy Select Sector SPDR",
		"XLF": "Financial Select Sector SPDR", "XLK": "Technology Select Sector SPDR",
	},
	Commodities: {
		"GC=F": "Gold Futures", "SI=F": "Silver Futures", "CL=F": "WTI Crude",
		"BZ=F": "Brent Crude", "NG=F": "Natural Gas", "ZC=F": "Corn",
		"ZS=F": "Soybeans", "ZW=F": "Wheat", "KC=F": "Coffee",
	},
	Indices: {
		"^GSPC": "S&P 500", "^DJI": "Dow Jones", "^IXIC": "NASDAQ",
		"^RUT": "Russell 2000", "^BVSP": "Ibovespa", "^GDAXI": "DAX",
		"^FTSE": "FTSE 100", "^N225": "Nikkei 225", "^HSI": "Hang Seng",
	},
}

// Categories returns all category identifiers, sorted
func Categories() []string {
	out := make([]string, 0, len(catalog))
	for c := range catalog {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Symbols returns the deduplicated, sorted symbols of the given categories.
// Unknown categories are ignored.
func Symbols(categories ...string) []string {
	seen := make(map[string]struct{})
	for _, c := range categories {
		for symbol := range catalog[c] {
			seen[symbol] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for symbol := range seen {
		out = append(out, symbol)
	}
	sort.Strings(out)
	return out
}

// All returns every symbol in the catalog
func All() []string {
	return Symbols(Categories()...)
}

// Search finds assets whose symbol or name contains the query,
// case-insensitive, sorted by symbol
func Search(query string) []Asset {
	query = strings.ToUpper(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	var out []Asset
	for category, assets := range catalog {
		for symbol, name := range assets {
			if strings.Contains(strings.ToUpper(symbol), query) ||
				strings.Contains(strings.ToUpper(name), query) {
				out = append(out, Asset{Symbol: symbol, Name: name, Category: category})
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Symbol != out[j].Symbol {
			return out[i].Symbol < out[j].Symbol
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// Lookup returns the display name for a symbol and whether it is known
func Lookup(symbol string) (string, bool) {
	for _, assets := range catalog {
		if name, ok := assets[symbol]; ok {
			return name, true
		}
	}
	return "", false
}
