package segmentation

import "fmt"

// Weights tunes the segmenter's beam search.
type Weights struct {
	BeamSize                int     `json:"beam_size" toml:"beam_size"`
	IdealTokenLen           int     `json:"ideal_token_len" toml:"ideal_token_len"`
	LenRewardFactor         float64 `json:"len_reward_factor" toml:"len_reward_factor"`
	SentenceEndRewardFactor float64 `json:"sentence_end_reward_factor" toml:"sentence_end_reward_factor"`
	CommaEndRewardFactor    float64 `json:"comma_end_reward_factor" toml:"comma_end_reward_factor"`
}

// DefaultWeights returns the weights used when none are configured.
func DefaultWeights() Weights {
	return Weights{
		BeamSize:                10,
		IdealTokenLen:           10,
		LenRewardFactor:         2.3,
		SentenceEndRewardFactor: 0.9,
		CommaEndRewardFactor:    0.5,
	}
}

// Validate checks that the weights describe a usable search.
func (w Weights) Validate() error {
	if w.BeamSize <= 0 {
		return fmt.Errorf("beam_size must be positive")
	}
	if w.IdealTokenLen <= 0 {
		return fmt.Errorf("ideal_token_len must be positive")
	}
	if w.LenRewardFactor < 0 || w.SentenceEndRewardFactor < 0 || w.CommaEndRewardFactor < 0 {
		return fmt.Errorf("reward factors must not be negative")
	}
	return nil
}
