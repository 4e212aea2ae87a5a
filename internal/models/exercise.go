package models

type QuestionType string

const (
	MultipleChoice     QuestionType = "multiple_choice"
	WordMatching       QuestionType = "word_matching"
	SynonymsMatching   QuestionType = "synonyms_matching"
	ChooseWords        QuestionType = "choose_words"
	ErrorCorrection    QuestionType = "error_correction"
	GrammarStructure   QuestionType = "grammar_structure"
	DialogueCompletion QuestionType = "dialogue_completion"
	RolePlay           QuestionType = "role_play"
)

// AllQuestionTypes lists every supported variant. Grading and content
// validation both dispatch over this set; a new variant has to be added here
// and in both switches.
var AllQuestionTypes = []QuestionType{
	MultipleChoice,
	WordMatching,
	SynonymsMatching,
	ChooseWords,
	ErrorCorrection,
	GrammarStructure,
	DialogueCompletion,
	RolePlay,
}

type ChooseWordsKind string

const (
	FillInBlanks     ChooseWordsKind = "fill_in_blanks"
	Translation      ChooseWordsKind = "translation"
	SentenceScramble ChooseWordsKind = "sentence_scramble"
)

type ExerciseLevel string

const (
	LevelBeginner     ExerciseLevel = "beginner"
	LevelIntermediate ExerciseLevel = "intermediate"
	LevelAdvanced     ExerciseLevel = "advanced"
)

// Exercise is the read-only content unit a session runs against. It is
// supplied by the content layer and never mutated by the engine.
type Exercise struct {
	ID          string        `json:"id" validate:"required"`
	Title       string        `json:"title" validate:"required,min=1,max=200"`
	Description string        `json:"description" validate:"omitempty,max=1000"`
	Level       ExerciseLevel `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Locale      string        `json:"locale"` // BCP 47 tag of the target language, e.g. "vi"
	Questions   []Question    `json:"questions" validate:"required,min=1,dive"`

	// Reward metadata and pass threshold are reported back to the caller
	// untouched; the engine never applies them itself.
	Reward        Reward `json:"reward"`
	PassThreshold *int   `json:"pass_threshold" validate:"omitempty,min=0,max=100"`
}

type Reward struct {
	XP    int `json:"xp"`
	Coins int `json:"coins"`
}

// Question is a closed tagged union: Type selects which content pointer is
// populated. Exactly one content field is non-nil for a well-formed question
// (grammar-structure and dialogue-completion reuse the choice content shape).
type Question struct {
	ID     string       `json:"id" validate:"required"`
	Type   QuestionType `json:"type" validate:"required,questiontype"`
	Prompt string       `json:"prompt"`

	Choice          *ChoiceContent          `json:"choice,omitempty"`
	Matching        *MatchingContent        `json:"matching,omitempty"`
	ChooseWords     *ChooseWordsContent     `json:"choose_words,omitempty"`
	ErrorCorrection *ErrorCorrectionContent `json:"error_correction,omitempty"`
	RolePlay        *RolePlayContent        `json:"role_play,omitempty"`
}

type ChoiceContent struct {
	Options   []ChoiceOption `json:"options" validate:"required,min=2,dive"`
	CorrectID string         `json:"correct_id" validate:"required"`
}

type ChoiceOption struct {
	ID   string `json:"id" validate:"required"`
	Text string `json:"text"`
}

type MatchingContent struct {
	Pairs []MatchPair `json:"pairs" validate:"required,min=1,dive"`
}

// MatchPair is one canonical left/right pairing. ID identifies the pairing
// itself; submissions reference pair IDs or, in the legacy shape, map the
// left value to a right value directly.
type MatchPair struct {
	ID    string `json:"id" validate:"required"`
	Left  string `json:"left" validate:"required"`
	Right string `json:"right" validate:"required"`
}

type ChooseWordsContent struct {
	Kind ChooseWordsKind `json:"kind" validate:"required,oneof=fill_in_blanks translation sentence_scramble"`

	// Tokens is the canonical ordered token sequence: blank fills for
	// fill-in-blanks, the full word order otherwise.
	Tokens []string `json:"tokens" validate:"required,min=1"`

	// Sentence is the canonical full sentence; translation grading requires
	// the reconstructed submission to equal it after normalization.
	Sentence string `json:"sentence,omitempty"`

	// Distractors are extra words offered alongside the correct tokens.
	Distractors []string `json:"distractors,omitempty"`
}

type ErrorCorrectionContent struct {
	Faulty    string `json:"faulty"`
	Corrected string `json:"corrected" validate:"required"`
}

type RolePlayContent struct {
	Steps []RolePlayStep `json:"steps" validate:"required,min=1,dive"`
}

type RolePlayStep struct {
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options" validate:"required,min=2"`
	ExpectedIndex int      `json:"expected_index" validate:"min=0"`
}

// QuestionByID returns the question with the given id, or nil if the
// exercise does not contain it.
func (e *Exercise) QuestionByID(id string) *Question {
	for i := range e.Questions {
		if e.Questions[i].ID == id {
			return &e.Questions[i]
		}
	}
	return nil
}
