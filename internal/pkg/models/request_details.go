package models

type RequestDetails struct {
	RequestID    string `json:"request_id"`
	IP           string `json:"ip"`
	UserAgent    string `json:"user_agent"`
	HTTPMethod   string `json:"http_method"`
	Path         string `json:"path"`
	RequestTime  string `json:"request_time"`
	Status       int    `json:"status"`
	ResponseTime string `json:"response_time"`
	LatencyMs    int64  `json:"latency_ms"`
}
