package errorsx

// ReasonCode is a short machine-readable error reason.
type ReasonCode string

const (
	ReasonUnknown ReasonCode = "unknown"

	// Scoring pipeline.
	ReasonInputInvalid       ReasonCode = "input_invalid"
	ReasonScoringUnavailable ReasonCode = "scoring_unavailable"
	ReasonScorerMalformed    ReasonCode = "scorer_malformed"
	ReasonLLMRateLimit       ReasonCode = "llm_rate_limit"

	// Speech collaborators.
	ReasonSTTTranscribe ReasonCode = "stt_transcribe"
	ReasonTTSSynthesize ReasonCode = "tts_synthesize"

	// Access control and persistence.
	ReasonUnauthenticated ReasonCode = "unauthenticated"
	ReasonStoreQuery      ReasonCode = "store_query"
)
