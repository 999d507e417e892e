package universe

// Index names used as classification tags on stored records.
const (
	IndexSP500     = "S&P 500"
	IndexNasdaq100 = "NASDAQ 100"
	IndexDowJones  = "Dow Jones"
)

// sp500 lists S&P 500 constituents, largest weights first.
var sp500 = []string{
	"AAPL", "MSFT", "NVDA", "AMZN", "META", "GOOGL", "GOOG", "BRK.B", "AVGO", "TSLA",
	"LLY", "JPM", "UNH", "V", "XOM", "MA", "COST", "HD", "PG", "JNJ",
	"WMT", "NFLX", "ABBV", "BAC", "CRM", "ORCL", "MRK", "CVX", "KO", "AMD",
	"PEP", "ADBE", "TMO", "LIN", "ACN", "MCD", "CSCO", "WFC", "ABT", "PM",
	"GE", "IBM", "TXN", "INTU", "QCOM", "DHR", "VZ", "AMGN", "ISRG", "CAT",
	"NOW", "PFE", "NEE", "DIS", "AMAT", "GS", "SPGI", "RTX", "CMCSA", "UBER",
	"T", "LOW", "UNP", "PGR", "AXP", "BKNG", "HON", "BLK", "TJX", "ELV",
	"SYK", "COP", "MS", "VRTX", "LMT", "C", "BSX", "PLD", "MDT", "ADI",
	"REGN", "CB", "ETN", "SCHW", "PANW", "MMC", "ADP", "KLAC", "LRCX", "SBUX",
	"BX", "DE", "MU", "BMY", "FI", "CI", "GILD", "AMT", "ANET", "MDLZ",
	"SO", "TMUS", "SHW", "INTC", "ICE", "DUK", "MO", "ZTS", "CME", "CL",
	"KKR", "APH", "WM", "SNPS", "CDNS", "PH", "EQIX", "TT", "MCK", "CMG",
	"ITW", "TDG", "PYPL", "CEG", "AON", "MSI", "USB", "NOC", "PNC", "EOG",
	"WELL", "CVS", "CTAS", "GD", "BDX", "ORLY", "MMM", "CSX", "FDX", "APD",
	"MCO", "EMR", "TGT", "ECL", "MAR", "ABNB", "CARR", "FCX", "AJG", "NXPI",
	"SLB", "ROP", "NSC", "HCA", "PSX", "TFC", "ADSK", "COF", "AFL", "HLT",
	"WMB", "MPC", "GM", "DHI", "OKE", "SRE", "TRV", "AZO", "PCAR", "SPG",
	"O", "AEP", "ROST", "FTNT", "BK", "CPRT", "MET", "NEM", "PSA", "KMB",
	"ALL", "DLR", "JCI", "AIG", "GWW", "LEN", "PAYX", "MSCI", "FIS", "TEL",
	"D", "CCI", "URI", "KMI", "AMP", "HUM", "PRU", "CMI", "MNST", "LHX",
	"F", "FICO", "PCG", "IQV", "KVUE", "VLO", "A", "FAST", "STZ", "ODFL",
	"AME", "CTVA", "EW", "OTIS", "PWR", "GIS", "IDXX", "RSG", "HWM", "KR",
	"ACGL", "SYY", "CTSH", "EXC", "COR", "IT", "EA", "VRSK", "YUM", "KDP",
	"GEHC", "XEL", "NUE", "DOW", "HES", "MCHP", "LULU", "RMD", "BKR", "ED",
	"HPQ", "ON", "EXR", "DD", "EFX", "IRM", "MLM", "VMC", "CBRE", "HIG",
	"GLW", "VICI", "XYL", "FANG", "ROK", "CNC", "TRGP", "AVB", "WAB", "EIX",
	"CSGP", "PPG", "EBAY", "MTD", "DAL", "WEC", "KHC", "DXCM", "TSCO", "ANSS",
	"HSY", "FITB", "CDW", "BIIB", "NDAQ", "WTW", "CAH", "AWK", "EQR", "GPN",
	"ADM", "GRMN", "DVN", "TTWO", "KEYS", "ETR", "PHM", "FTV", "IFF", "DTE",
	"NVR", "BR", "HPE", "STT", "MTB", "VLTO", "BRO", "SBAC", "CHD", "LYB",
	"DECK", "TYL", "RJF", "HAL", "WY", "INVH", "STE", "PPL", "FE", "ES",
	"AXON", "HUBB", "WST", "ZBH", "CPAY", "TROW", "SMCI", "CCL", "WDC", "AEE",
	"BLDR", "SW", "K", "STX", "PTC", "HBAN", "LDOS", "WAT", "CINF", "TER",
	"CBOE", "MKC", "CMS", "RF", "ATO", "COO", "SYF", "OMC", "BBY", "ESS",
	"GDDY", "NTAP", "CNP", "PFG", "CFG", "MOH", "BAX", "HOLX", "NTRS", "LH",
}

// nasdaq100 lists NASDAQ-100 constituents.
var nasdaq100 = []string{
	"AAPL", "MSFT", "NVDA", "AMZN", "META", "AVGO", "GOOGL", "GOOG", "TSLA", "COST",
	"NFLX", "ASML", "TMUS", "CSCO", "AMD", "PEP", "ADBE", "LIN", "AZN", "ISRG",
	"INTU", "TXN", "QCOM", "BKNG", "AMGN", "PDD", "CMCSA", "ARM", "HON", "AMAT",
	"PANW", "ADP", "VRTX", "GILD", "SBUX", "MU", "ADI", "MELI", "LRCX", "INTC",
	"KLAC", "CTAS", "CRWD", "MDLZ", "SNPS", "CDNS", "PYPL", "ABNB", "MAR", "REGN",
	"ORLY", "MRVL", "CEG", "FTNT", "DASH", "CSX", "WDAY", "ADSK", "ROP", "NXPI",
	"PCAR", "TTD", "CHTR", "CPRT", "MNST", "AEP", "PAYX", "ODFL", "ROST", "FAST",
	"KDP", "EA", "BKR", "VRSK", "LULU", "FANG", "CTSH", "XEL", "DDOG", "EXC",
	"GEHC", "KHC", "IDXX", "CCEP", "TEAM", "ZS", "ANSS", "MCHP", "CSGP", "TTWO",
	"ON", "DXCM", "CDW", "WBD", "GFS", "BIIB", "ILMN", "MDB", "MRNA", "SMCI",
}

// dowJones lists Dow Jones Industrial Average constituents.
var dowJones = []string{
	"AAPL", "AMGN", "AMZN", "AXP", "BA", "CAT", "CRM", "CSCO", "CVX", "DIS",
	"GS", "HD", "HON", "IBM", "JNJ", "JPM", "KO", "MCD", "MMM", "MRK",
	"MSFT", "NKE", "NVDA", "PG", "SHW", "TRV", "UNH", "V", "VZ", "WMT",
}
