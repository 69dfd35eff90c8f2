package domain

type AnalysisDataRequest struct {
	From Year `query:"from" validate:"omitempty,gte=1900,lte=2100"`
	To   Year `query:"to" validate:"omitempty,gte=1900,lte=2100"`
}

type TravelStatsRequest struct {
	Limit int `query:"limit" validate:"omitempty,gte=1,lte=1000"`
}

type StatusResponse struct {
	Status string `json:"status"`
	Result any    `json:"result,omitempty"`
}

type ConfigCheckResponse struct {
	ServiceKeySet bool   `json:"service_key_set"`
	CyberBaseURL  string `json:"cyber_base_url"`
	VoiceBaseURL  string `json:"voice_base_url"`
	Regions       int    `json:"regions"`
	DBDriver      string `json:"db_driver"`
}
