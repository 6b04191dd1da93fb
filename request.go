package textgen

import (
	"encoding/json"
)

// GenerationRequest contains the full parameter set for one chat turn.
//
// Every field is always sent: the service treats a missing key as "use my own
// default", so the JSON tags below are the wire contract and must not change.
// Values are passed through untouched; the service is the authority on ranges.
type GenerationRequest struct {
	// UserInput is the new user message
	UserInput string `json:"user_input"`

	// MaxNewTokens caps the generated reply length
	MaxNewTokens uint32 `json:"max_new_tokens"`

	// History is the conversation so far, as returned by the previous call
	History History `json:"history"`

	// Mode is one of chat, chat-instruct, instruct
	Mode Mode `json:"mode"`

	Character           string `json:"character"`
	InstructionTemplate string `json:"instruction_template"`
	YourName            string `json:"your_name"`

	// Regenerate replaces the last reply instead of answering UserInput
	Regenerate bool `json:"regenerate"`

	// ContinueGeneration extends the last reply (wire key "continue")
	ContinueGeneration bool `json:"continue"`

	StopAtNewline bool `json:"stop_at_newline"`

	// ChatGenerationAttempts is a hint for the service; not enforced here
	ChatGenerationAttempts uint32 `json:"chat_generation_attempts"`

	// ChatInstructCommand is the template used in chat-instruct mode
	ChatInstructCommand string `json:"chat-instruct_command"`

	// Preset names a server-side generation preset ("None" for none)
	Preset string `json:"preset"`

	// ===== Sampling =====

	DoSample bool `json:"do_sample"`

	// Temperature controls randomness. 0 = deterministic, higher = more random
	Temperature float64 `json:"temperature"`

	// TopP keeps tokens whose cumulative probability stays below this value
	TopP float64 `json:"top_p"`

	// TypicalP keeps tokens at least this much more likely than random, given the prior text
	TypicalP float64 `json:"typical_p"`

	// EpsilonCutoff is a probability floor in units of 1e-4
	EpsilonCutoff float64 `json:"epsilon_cutoff"`

	// EtaCutoff is in units of 1e-4
	EtaCutoff float64 `json:"eta_cutoff"`

	TFS uint64 `json:"tfs"`

	// RepetitionPenalty: 1 means no penalty, higher means less repetition
	RepetitionPenalty float64 `json:"repetition_penalty"`

	// RepetitionPenaltyRange is how many recent tokens the penalty looks at. 0 = all
	RepetitionPenaltyRange float64 `json:"repetition_penalty_range"`

	// EncoderRepetitionPenalty penalizes tokens absent from the prior text
	EncoderRepetitionPenalty float64 `json:"encoder_repetition_penalty"`

	TopK uint32 `json:"top_k"`

	// ===== Decoding =====

	MinLength uint32 `json:"min_length"`

	// NoRepeatNgramSize blocks repeated token sets of this length. 0 = off
	NoRepeatNgramSize uint32 `json:"no_repeat_ngram_size"`

	NumBeams uint32 `json:"num_beams"`

	// PenaltyAlpha > 0 with DoSample=false enables contrastive search
	PenaltyAlpha float64 `json:"penalty_alpha"`

	LengthPenalty float64 `json:"length_penalty"`
	EarlyStopping bool    `json:"early_stopping"`

	MirostatMode uint64  `json:"mirostat_mode"`
	MirostatTau  float64 `json:"mirostat_tau"`
	MirostatEta  float64 `json:"mirostat_eta"`

	// Seed for sampling. -1 = random
	Seed int64 `json:"seed"`

	AddBOSToken       bool   `json:"add_bos_token"`
	TruncationLength  uint32 `json:"truncation_length"`
	BanEOSToken       bool   `json:"ban_eos_token"`
	SkipSpecialTokens bool   `json:"skip_special_tokens"`

	// StoppingStrings halts generation when any of them is produced
	StoppingStrings []string `json:"stopping_strings"`
}

// DefaultRequest returns the baseline request.
// Callers usually only set UserInput, Mode and History on top of it.
func DefaultRequest() *GenerationRequest {
	return &GenerationRequest{
		UserInput:                "",
		MaxNewTokens:             2048,
		History:                  NewHistory(),
		Mode:                     ModeChat,
		Character:                "Example",
		InstructionTemplate:      "Vicuna-v1.1",
		YourName:                 "You",
		Regenerate:               false,
		ContinueGeneration:       true,
		StopAtNewline:            false,
		ChatGenerationAttempts:   1,
		ChatInstructCommand:      "",
		Preset:                   "None",
		DoSample:                 true,
		Temperature:              0.7,
		TopP:                     0.9,
		TypicalP:                 1.0,
		EpsilonCutoff:            0,
		EtaCutoff:                0,
		TFS:                      1,
		RepetitionPenalty:        1.18,
		RepetitionPenaltyRange:   0,
		EncoderRepetitionPenalty: 1.0,
		TopK:                     20,
		MinLength:                0,
		NoRepeatNgramSize:        0,
		NumBeams:                 1,
		PenaltyAlpha:             0,
		LengthPenalty:            1.0,
		EarlyStopping:            false,
		MirostatMode:             0,
		MirostatTau:              5,
		MirostatEta:              0.1,
		Seed:                     -1,
		AddBOSToken:              true,
		TruncationLength:         2048,
		BanEOSToken:              false,
		SkipSpecialTokens:        true,
		StoppingStrings:          []string{},
	}
}

// Serialize encodes the request as the JSON body sent to the service.
func (r *GenerationRequest) Serialize() (string, error) {
	body, err := r.marshal()
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (r *GenerationRequest) marshal() ([]byte, error) {
	out := *r
	// nil slices would go out as null; the service expects arrays
	if out.StoppingStrings == nil {
		out.StoppingStrings = []string{}
	}
	if out.History.Internal == nil || out.History.Visible == nil {
		out.History = out.History.Clone()
	}

	body, err := json.Marshal(&out)
	if err != nil {
		return nil, &EncodeError{Err: err}
	}
	return body, nil
}

// Clone returns a deep copy, so one base request can be reused across goroutines.
func (r *GenerationRequest) Clone() *GenerationRequest {
	out := *r
	out.History = r.History.Clone()
	out.StoppingStrings = append([]string{}, r.StoppingStrings...)
	return &out
}
