package domain_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/randomtoy/arcana-web/internal/domain"
)

func mustApply(t *testing.T, s domain.FormState, ev domain.Event) domain.FormState {
	t.Helper()
	next, err := domain.Apply(s, ev)
	if err != nil {
		t.Fatalf("unexpected error applying %T: %v", ev, err)
	}
	return next
}

func TestNewFormState_Defaults(t *testing.T) {
	s := domain.NewFormState()

	if s.CardCount != domain.DefaultCardCount {
		t.Errorf("expected card count %d, got %d", domain.DefaultCardCount, s.CardCount)
	}
	if len(s.CardNames) != s.CardCount {
		t.Errorf("expected %d card slots, got %d", s.CardCount, len(s.CardNames))
	}
	if s.Question != "" || s.Reading != "" || s.Err != "" || s.Loading {
		t.Errorf("expected empty initial state, got %+v", s)
	}
}

func TestSetCardCount_LengthMatchesCount(t *testing.T) {
	for n := 1; n <= 10; n++ {
		s := mustApply(t, domain.NewFormState(), domain.SetCardCount{Count: n})
		if s.CardCount != n {
			t.Errorf("n=%d: card count %d", n, s.CardCount)
		}
		if len(s.CardNames) != n {
			t.Errorf("n=%d: expected %d slots, got %d", n, n, len(s.CardNames))
		}
	}
}

func TestSetCardCount_GrowPreservesAndAppendsEmpty(t *testing.T) {
	s := mustApply(t, domain.NewFormState(), domain.SetCardName{Index: 0, Name: "The Fool"})
	s = mustApply(t, s, domain.SetCardName{Index: 1, Name: "The Star"})
	s = mustApply(t, s, domain.SetCardName{Index: 2, Name: "The Moon"})

	s = mustApply(t, s, domain.SetCardCount{Count: 5})

	want := []string{"The Fool", "The Star", "The Moon", "", ""}
	if !reflect.DeepEqual(s.CardNames, want) {
		t.Errorf("expected %v, got %v", want, s.CardNames)
	}
}

func TestSetCardCount_ShrinkTruncates(t *testing.T) {
	s := mustApply(t, domain.NewFormState(), domain.SetCardCount{Count: 5})
	for i, name := range []string{"a", "b", "c", "d", "e"} {
		s = mustApply(t, s, domain.SetCardName{Index: i, Name: name})
	}

	s = mustApply(t, s, domain.SetCardCount{Count: 2})

	want := []string{"a", "b"}
	if !reflect.DeepEqual(s.CardNames, want) {
		t.Errorf("expected %v, got %v", want, s.CardNames)
	}
}

func TestSetCardCount_OutOfRange(t *testing.T) {
	s := domain.NewFormState()
	for _, n := range []int{0, -1, 11} {
		next, err := domain.Apply(s, domain.SetCardCount{Count: n})
		if !errors.Is(err, domain.ErrInvalidCardCount) {
			t.Errorf("n=%d: expected ErrInvalidCardCount, got %v", n, err)
		}
		if !reflect.DeepEqual(next, s) {
			t.Errorf("n=%d: state changed on rejected event", n)
		}
	}
}

func TestSetCardName_BadIndex(t *testing.T) {
	s := domain.NewFormState()
	for _, i := range []int{-1, 3, 10} {
		next, err := domain.Apply(s, domain.SetCardName{Index: i, Name: "x"})
		if !errors.Is(err, domain.ErrCardIndex) {
			t.Errorf("i=%d: expected ErrCardIndex, got %v", i, err)
		}
		if !reflect.DeepEqual(next, s) {
			t.Errorf("i=%d: state changed on rejected event", i)
		}
	}
}

func TestSetCardNames_ReplacesAll(t *testing.T) {
	s := mustApply(t, domain.NewFormState(), domain.SetCardNames{Names: []string{"x", "y", "z"}})
	want := []string{"x", "y", "z"}
	if !reflect.DeepEqual(s.CardNames, want) {
		t.Errorf("expected %v, got %v", want, s.CardNames)
	}

	if _, err := domain.Apply(s, domain.SetCardNames{Names: []string{"only one"}}); !errors.Is(err, domain.ErrCardIndex) {
		t.Errorf("expected ErrCardIndex for length mismatch, got %v", err)
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	s := mustApply(t, domain.NewFormState(), domain.SetCardName{Index: 0, Name: "The Fool"})
	before := make([]string, len(s.CardNames))
	copy(before, s.CardNames)

	mustApply(t, s, domain.SetCardName{Index: 0, Name: "The Tower"})
	mustApply(t, s, domain.SetCardCount{Count: 1})

	if !reflect.DeepEqual(s.CardNames, before) {
		t.Errorf("input state mutated: %v", s.CardNames)
	}
}

func TestSubmitLifecycle(t *testing.T) {
	s := mustApply(t, domain.NewFormState(), domain.SubmitFailed{Message: "old error"})

	s = mustApply(t, s, domain.SubmitStarted{})
	if !s.Loading {
		t.Error("expected loading after SubmitStarted")
	}
	if s.Err != "" {
		t.Errorf("expected prior error cleared, got %q", s.Err)
	}

	s = mustApply(t, s, domain.SubmitSucceeded{Reading: "The cards speak."})
	if s.Loading {
		t.Error("expected loading cleared after success")
	}
	if s.Reading != "The cards speak." {
		t.Errorf("unexpected reading: %q", s.Reading)
	}
	if s.Err != "" {
		t.Errorf("reading and error must be exclusive, got err %q", s.Err)
	}
}

func TestSubmitFailed_ClearsReading(t *testing.T) {
	s := mustApply(t, domain.NewFormState(), domain.SubmitSucceeded{Reading: "old reading"})

	s = mustApply(t, s, domain.SubmitStarted{})
	s = mustApply(t, s, domain.SubmitFailed{Message: "generation failed"})

	if s.Reading != "" {
		t.Errorf("expected reading cleared on failure, got %q", s.Reading)
	}
	if s.Err != "generation failed" {
		t.Errorf("unexpected error message: %q", s.Err)
	}
	if s.Loading {
		t.Error("expected loading cleared after failure")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		question string
		cards    []string
		want     error
	}{
		{"empty question", "", []string{"The Fool", "", ""}, domain.ErrEmptyQuestion},
		{"whitespace question", "   ", []string{"The Fool", "", ""}, domain.ErrEmptyQuestion},
		{"all cards empty", "Will it rain?", []string{"", "  ", ""}, domain.ErrNoCards},
		{"valid", "Will it rain?", []string{"", "The Star", ""}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := domain.FormState{
				Question:  tt.question,
				CardCount: len(tt.cards),
				CardNames: tt.cards,
			}
			if err := s.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestNonEmptyCards_PreservesOrder(t *testing.T) {
	s := domain.FormState{
		CardCount: 5,
		CardNames: []string{"", " The Fool ", "", "The Star", "  "},
	}

	want := []string{"The Fool", "The Star"}
	if got := s.NonEmptyCards(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
