package core

// EstimateTranscriptionCost approximates the speech-to-text price from the audio file size
func EstimateTranscriptionCost(sizeBytes int64, pricing Pricing) float64 {
	if sizeBytes <= 0 || pricing.BytesPerMinute <= 0 {
		return 0
	}
	minutes := float64(sizeBytes) / pricing.BytesPerMinute
	return minutes * pricing.WhisperPerMinute
}

// EstimateChatCost prices a chat completion by its total token count
func EstimateChatCost(totalTokens int, pricing Pricing) float64 {
	if totalTokens <= 0 {
		return 0
	}
	return float64(totalTokens) / 1000 * pricing.ChatPer1KTokens
}

// NewCostEstimate sums the per-step costs
func NewCostEstimate(whisper, translation, summary float64) CostEstimate {
	return CostEstimate{
		Whisper:     whisper,
		Translation: translation,
		Summary:     summary,
		Total:       whisper + translation + summary,
	}
}
