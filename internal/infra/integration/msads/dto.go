package msads

type offlineConversion struct {
	ConversionCurrencyCode string  `json:"ConversionCurrencyCode"`
	ConversionName         string  `json:"ConversionName"`
	ConversionTime         string  `json:"ConversionTime"`
	ConversionValue        float64 `json:"ConversionValue"`
	MicrosoftClickId       string  `json:"MicrosoftClickId"`
}

type applyOfflineConversionsRequest struct {
	OfflineConversions []offlineConversion `json:"OfflineConversions"`
}

type batchError struct {
	Code      int    `json:"Code"`
	ErrorCode string `json:"ErrorCode"`
	Index     int    `json:"Index"`
	Message   string `json:"Message"`
}

type applyOfflineConversionsResponse struct {
	PartialErrors []batchError `json:"PartialErrors"`
}

type reportDate struct {
	Day   int `json:"Day"`
	Month int `json:"Month"`
	Year  int `json:"Year"`
}

type reportTime struct {
	CustomDateRangeStart reportDate `json:"CustomDateRangeStart"`
	CustomDateRangeEnd   reportDate `json:"CustomDateRangeEnd"`
}

type reportScope struct {
	AccountIds []string `json:"AccountIds"`
}

type reportRequest struct {
	Type        string      `json:"Type"`
	Format      string      `json:"Format"`
	ReportName  string      `json:"ReportName"`
	Aggregation string      `json:"Aggregation"`
	Columns     []string    `json:"Columns"`
	Scope       reportScope `json:"Scope"`
	Time        reportTime  `json:"Time"`
}

type submitReportRequest struct {
	ReportRequest reportRequest `json:"ReportRequest"`
}

type submitReportResponse struct {
	ReportRequestId string `json:"ReportRequestId"`
}

type pollReportRequest struct {
	ReportRequestId string `json:"ReportRequestId"`
}

type pollReportResponse struct {
	ReportRequestStatus ReportStatus `json:"ReportRequestStatus"`
}

// ReportStatus is the state of a submitted report. DownloadURL is set once Status is Success.
type ReportStatus struct {
	Status      string `json:"Status"`
	DownloadURL string `json:"ReportDownloadUrl"`
}

const (
	ReportPending = "Pending"
	ReportSuccess = "Success"
	ReportError   = "Error"
)
