package domain

import "strings"

// Card count bounds for a reading. A fresh form starts at DefaultCardCount.
const (
	MinCardCount     = 1
	MaxCardCount     = 10
	DefaultCardCount = 3
)

// FormState is the complete state of one reading form: what the querent has
// entered, plus the outcome of the last submit. Reading and Err are mutually
// exclusive; Loading is true only while a generation request is outstanding.
type FormState struct {
	Question  string
	CardCount int
	CardNames []string
	Reading   string
	Err       string
	Loading   bool
}

// NewFormState returns the mount-time state: empty question, DefaultCardCount
// empty card slots, no result.
func NewFormState() FormState {
	return FormState{
		CardCount: DefaultCardCount,
		CardNames: make([]string, DefaultCardCount),
	}
}

// Event is a state transition applied by Apply.
type Event interface{ isEvent() }

// SetQuestion replaces the question text.
type SetQuestion struct{ Text string }

// SetCardCount resizes the card-name sequence to Count, preserving existing
// entries by index. Count must be within [1, 10].
type SetCardCount struct{ Count int }

// SetCardName sets the card name at Index, which must be a valid index into
// the current sequence.
type SetCardName struct {
	Index int
	Name  string
}

// SetCardNames replaces the whole sequence (a draw filling every slot).
// The slice length must equal the current card count.
type SetCardNames struct{ Names []string }

// SubmitStarted marks the generation request as outstanding and clears any
// prior error.
type SubmitStarted struct{}

// SubmitSucceeded stores the generated reading and ends the outstanding
// request.
type SubmitSucceeded struct{ Reading string }

// SubmitFailed stores a user-visible error message and ends the outstanding
// request. Any prior reading is discarded.
type SubmitFailed struct{ Message string }

func (SetQuestion) isEvent()     {}
func (SetCardCount) isEvent()    {}
func (SetCardName) isEvent()     {}
func (SetCardNames) isEvent()    {}
func (SubmitStarted) isEvent()   {}
func (SubmitSucceeded) isEvent() {}
func (SubmitFailed) isEvent()    {}

// Apply is a pure reducer: it returns the state after ev without mutating s.
// Invalid events (count out of range, bad index) return the input state
// unchanged together with a domain error.
func Apply(s FormState, ev Event) (FormState, error) {
	switch e := ev.(type) {
	case SetQuestion:
		s.Question = e.Text
		return s, nil

	case SetCardCount:
		if e.Count < MinCardCount || e.Count > MaxCardCount {
			return s, ErrInvalidCardCount
		}
		names := make([]string, e.Count)
		copy(names, s.CardNames)
		s.CardCount = e.Count
		s.CardNames = names
		return s, nil

	case SetCardName:
		if e.Index < 0 || e.Index >= len(s.CardNames) {
			return s, ErrCardIndex
		}
		names := make([]string, len(s.CardNames))
		copy(names, s.CardNames)
		names[e.Index] = e.Name
		s.CardNames = names
		return s, nil

	case SetCardNames:
		if len(e.Names) != s.CardCount {
			return s, ErrCardIndex
		}
		names := make([]string, len(e.Names))
		copy(names, e.Names)
		s.CardNames = names
		return s, nil

	case SubmitStarted:
		s.Err = ""
		s.Loading = true
		return s, nil

	case SubmitSucceeded:
		s.Reading = e.Reading
		s.Err = ""
		s.Loading = false
		return s, nil

	case SubmitFailed:
		s.Err = e.Message
		s.Reading = ""
		s.Loading = false
		return s, nil

	default:
		return s, nil
	}
}

// Validate checks the submit preconditions: a non-empty trimmed question and
// at least one non-empty trimmed card name.
func (s FormState) Validate() error {
	if strings.TrimSpace(s.Question) == "" {
		return ErrEmptyQuestion
	}
	if len(s.NonEmptyCards()) == 0 {
		return ErrNoCards
	}
	return nil
}

// NonEmptyCards returns the trimmed card names with blank entries removed,
// preserving their original order.
func (s FormState) NonEmptyCards() []string {
	cards := make([]string, 0, len(s.CardNames))
	for _, name := range s.CardNames {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			cards = append(cards, trimmed)
		}
	}
	return cards
}
