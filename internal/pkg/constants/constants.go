package constants

const (
	EnvPrefix = "CRIMESTAT"

	LogFieldRunID  = "run_id"
	LogFieldFeed   = "feed"
	LogFieldRegion = "region"

	FeedCyberScam     = "cyber_scam"
	FeedVoicePhishing = "voice_phishing"
	FeedTravel        = "travel"
)
