// Package survey holds the domain types of the survey API and a thin
// resource client mapping operations onto HTTP verbs and paths.
package survey

// State is the survey lifecycle state. Publish moves DRAFT to ACTIVE,
// restore moves ACTIVE back to DRAFT; no other states exist.
type State string

const (
	StateDraft  State = "DRAFT"
	StateActive State = "ACTIVE"
)

// QuestionState reflects edit/delete provenance of a question or option,
// independent of the survey state.
type QuestionState string

const (
	QuestionStateActual  QuestionState = "ACTUAL"
	QuestionStateNew     QuestionState = "NEW"
	QuestionStateChanged QuestionState = "CHANGED"
	QuestionStateDeleted QuestionState = "DELETED"
)

// QuestionType is the closed set of question kinds.
type QuestionType string

const (
	TypeSingleChoice QuestionType = "single_choice"
	TypeMultiChoice  QuestionType = "multi_choice"
	TypeConsent      QuestionType = "consent"
	TypeEmail        QuestionType = "email"
	TypeRating       QuestionType = "rating"
	TypeDate         QuestionType = "date"
	TypeShortText    QuestionType = "short_text"
	TypeLongText     QuestionType = "long_text"
	TypeNumber       QuestionType = "number"
)

// QuestionTypes lists every valid question type in display order.
var QuestionTypes = []QuestionType{
	TypeSingleChoice,
	TypeMultiChoice,
	TypeConsent,
	TypeEmail,
	TypeRating,
	TypeDate,
	TypeShortText,
	TypeLongText,
	TypeNumber,
}

// Valid reports whether t is a member of the closed type set.
func (t QuestionType) Valid() bool {
	for _, known := range QuestionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// HasOptions reports whether the type carries answer options.
func (t QuestionType) HasOptions() bool {
	return t == TypeSingleChoice || t == TypeMultiChoice
}

// DefaultStars is the rating star count used when starsCount is unset.
const DefaultStars = 5

// ExtraParams carries the per-type validation constraints of a question.
// Pointer fields distinguish "absent" from zero.
type ExtraParams struct {
	Required        bool     `json:"required,omitempty"`
	MaxLength       *int     `json:"maxLength,omitempty"`
	MinNumber       *float64 `json:"minNumber,omitempty"`
	MaxNumber       *float64 `json:"maxNumber,omitempty"`
	MinAnswersCount *int     `json:"minAnswersCount,omitempty"`
	MaxAnswersCount *int     `json:"maxAnswersCount,omitempty"`
	StarsCount      *int     `json:"starsCount,omitempty"`
	MinDate         string   `json:"minDate,omitempty"`
	MaxDate         string   `json:"maxDate,omitempty"`
}

// Stars returns the configured star count, falling back to the default.
func (p ExtraParams) Stars() int {
	if p.StarsCount != nil && *p.StarsCount > 0 {
		return *p.StarsCount
	}
	return DefaultStars
}

// Normalized returns a copy with every field not meaningful for the given
// question type zeroed out, so a bound for the wrong type can never leak
// into requests or validation.
func (p ExtraParams) Normalized(t QuestionType) ExtraParams {
	out := ExtraParams{Required: p.Required}
	switch t {
	case TypeMultiChoice:
		out.MinAnswersCount = p.MinAnswersCount
		out.MaxAnswersCount = p.MaxAnswersCount
	case TypeShortText, TypeLongText:
		out.MaxLength = p.MaxLength
	case TypeNumber:
		out.MinNumber = p.MinNumber
		out.MaxNumber = p.MaxNumber
	case TypeRating:
		out.StarsCount = p.StarsCount
	case TypeDate:
		out.MinDate = p.MinDate
		out.MaxDate = p.MaxDate
	}
	return out
}

// Option is an answer option of a choice question.
type Option struct {
	ID         int           `json:"id"`
	QuestionID int           `json:"question_id,omitempty"`
	Label      string        `json:"label"`
	Order      int           `json:"order"`
	State      QuestionState `json:"option_state,omitempty"`
	CreatedAt  string        `json:"created_at,omitempty"`
	UpdatedAt  string        `json:"updated_at,omitempty"`
}

// Question is a single survey question with its options.
type Question struct {
	ID          int           `json:"id"`
	SurveyID    int           `json:"survey_id,omitempty"`
	Label       string        `json:"label"`
	Type        QuestionType  `json:"type"`
	Order       int           `json:"order"`
	ExtraParams ExtraParams   `json:"extra_params"`
	Options     []Option      `json:"options,omitempty"`
	State       QuestionState `json:"question_state,omitempty"`
	CreatedAt   string        `json:"created_at,omitempty"`
	UpdatedAt   string        `json:"updated_at,omitempty"`
}

// Survey is the full survey document. The opaque hash identifies it
// publicly; internal numeric ids never leave the API.
type Survey struct {
	Hash      string     `json:"hash"`
	Title     string     `json:"title"`
	Creator   string     `json:"creator"`
	State     State      `json:"state"`
	CreatedAt string     `json:"created_at"`
	UpdatedAt string     `json:"updated_at"`
	Questions []Question `json:"questions"`
}

// QuestionByID returns a pointer into Questions, or nil.
func (s *Survey) QuestionByID(id int) *Question {
	for i := range s.Questions {
		if s.Questions[i].ID == id {
			return &s.Questions[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the survey document. The cache hands out
// clones so callers can never mutate the cached value in place.
func (s *Survey) Clone() *Survey {
	if s == nil {
		return nil
	}
	out := *s
	out.Questions = make([]Question, len(s.Questions))
	for i, q := range s.Questions {
		qc := q
		qc.Options = append([]Option(nil), q.Options...)
		out.Questions[i] = qc
	}
	return &out
}

// Summary is the list-view shape of a survey.
type Summary struct {
	Hash                string `json:"hash"`
	Title               string `json:"title"`
	State               State  `json:"state"`
	CreatedAt           string `json:"created_at"`
	UpdatedAt           string `json:"updated_at"`
	CompletedInterviews int    `json:"completed_interviews"`
}

// QuestionWithAnswer is the respondent view of a question: the question
// plus the raw answer string entered so far. Answers are raw strings on
// the wire: numbers and dates as text, multi-choice as a JSON array of
// option ids, consent as "true"/"false".
type QuestionWithAnswer struct {
	Question
	Answer string `json:"answer,omitempty"`
}

// InterviewDocument is the cached document of one respondent session.
type InterviewDocument struct {
	Questions []QuestionWithAnswer `json:"questions"`
}

// QuestionByID returns a pointer into Questions, or nil.
func (d *InterviewDocument) QuestionByID(id int) *QuestionWithAnswer {
	for i := range d.Questions {
		if d.Questions[i].ID == id {
			return &d.Questions[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the interview document.
func (d *InterviewDocument) Clone() *InterviewDocument {
	if d == nil {
		return nil
	}
	out := &InterviewDocument{Questions: make([]QuestionWithAnswer, len(d.Questions))}
	for i, q := range d.Questions {
		qc := q
		qc.Options = append([]Option(nil), q.Options...)
		out.Questions[i] = qc
	}
	return out
}

// OptionStats is the option metadata attached to a statistics snapshot.
type OptionStats struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

// QuestionStats carries the raw answers of one question plus the metadata
// needed to interpret them.
type QuestionStats struct {
	ID          int           `json:"id"`
	Label       string        `json:"label"`
	Type        QuestionType  `json:"type"`
	Options     []OptionStats `json:"options,omitempty"`
	Answers     []string      `json:"answers"`
	ExtraParams ExtraParams   `json:"extra_params,omitempty"`
}

// Stats is the derived, read-only aggregate over all interviews of a survey.
type Stats struct {
	StartedInterviews     int             `json:"started_interviews"`
	CompletedInterviews   int             `json:"completed_interviews"`
	AverageCompletionTime float64         `json:"average_completion_time"`
	Questions             []QuestionStats `json:"questions"`
}

// Profile is the authenticated user's profile.
type Profile struct {
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	BirthDate   string `json:"birth_date,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Lang        string `json:"lang,omitempty"`
}
