package controls

import (
	"context"
	"errors"
	"slices"
	"testing"
)

type fakeBinding[V any] struct {
	value   V
	commits []V
	err     error
}

func (b *fakeBinding[V]) Value() V { return b.value }

func (b *fakeBinding[V]) Commit(_ context.Context, value V) error {
	if b.err != nil {
		return b.err
	}
	b.commits = append(b.commits, value)
	b.value = value
	return nil
}

func TestMultiSelectConfirmCommitsDraft(t *testing.T) {
	binding := &fakeBinding[[]string]{value: []string{}}
	ms := NewMultiSelect("Themes", binding, StaticItems("Magic", "Space"), 0)

	if err := ms.Open(); err != nil {
		t.Fatalf("open: %v", err)
	}
	if !ms.Toggle("Magic") {
		t.Fatalf("expected toggle to add Magic")
	}
	if len(binding.commits) != 0 {
		t.Fatalf("expected no commit before confirm, got %v", binding.commits)
	}
	if err := ms.Confirm(context.Background()); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if !slices.Equal(binding.value, []string{"Magic"}) {
		t.Fatalf("expected [Magic] committed, got %v", binding.value)
	}
	if ms.Phase() != PhaseIdle {
		t.Fatalf("expected idle after confirm, got %s", ms.Phase())
	}
}

func TestMultiSelectCancelDiscardsDraft(t *testing.T) {
	binding := &fakeBinding[[]string]{value: []string{}}
	ms := NewMultiSelect("Themes", binding, StaticItems("Magic"), 0)

	_ = ms.Open()
	ms.Toggle("Magic")
	ms.Cancel()

	if len(binding.commits) != 0 || len(binding.value) != 0 {
		t.Fatalf("expected committed selection untouched, got %v", binding.value)
	}
	if ms.Phase() != PhaseIdle || ms.Draft() != nil {
		t.Fatalf("expected idle control without draft, got %s %v", ms.Phase(), ms.Draft())
	}
}

func TestMultiSelectCapRejectsAdditionsButAllowsRemovals(t *testing.T) {
	binding := &fakeBinding[[]string]{value: []string{"Magic", "Space"}}
	ms := NewMultiSelect("Themes", binding, StaticItems("Magic", "Space", "Robots"), 2)
	_ = ms.Open()

	if ms.CanSelect("Robots") {
		t.Fatalf("expected Robots to be blocked by the cap")
	}
	if ms.Toggle("Robots") {
		t.Fatalf("expected toggle of third item to be rejected")
	}
	if !slices.Equal(ms.Draft(), []string{"Magic", "Space"}) {
		t.Fatalf("expected draft unchanged, got %v", ms.Draft())
	}
	if ms.Title() != "Select Themes (2/2)" {
		t.Fatalf("unexpected title %q", ms.Title())
	}

	if !ms.Toggle("Space") {
		t.Fatalf("expected removal to succeed at the cap")
	}
	if !slices.Equal(ms.Draft(), []string{"Magic"}) {
		t.Fatalf("expected Space removed, got %v", ms.Draft())
	}
	if !ms.Toggle("Robots") {
		t.Fatalf("expected addition once below the cap")
	}
}

func TestMultiSelectRejectsUnavailableAdditions(t *testing.T) {
	binding := &fakeBinding[[]string]{value: []string{"Gardening"}}
	ms := NewMultiSelect("Themes", binding, StaticItems("Magic"), 0)
	_ = ms.Open()

	if ms.Toggle("Trucks") {
		t.Fatalf("expected unavailable item to be rejected")
	}
	// A selected value that is no longer offered can still be removed.
	if !ms.Toggle("Gardening") {
		t.Fatalf("expected removal of unavailable selected item")
	}
	if len(ms.Draft()) != 0 {
		t.Fatalf("expected empty draft, got %v", ms.Draft())
	}
}

func TestMultiSelectFailedConfirmStaysEditing(t *testing.T) {
	boom := errors.New("disk full")
	binding := &fakeBinding[[]string]{value: []string{}, err: boom}
	ms := NewMultiSelect("Themes", binding, StaticItems("Magic"), 0)
	_ = ms.Open()
	ms.Toggle("Magic")

	if err := ms.Confirm(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected commit error, got %v", err)
	}
	if ms.Phase() != PhaseEditing || !slices.Equal(ms.Draft(), []string{"Magic"}) {
		t.Fatalf("expected draft kept for retry, got %s %v", ms.Phase(), ms.Draft())
	}
}

func TestMultiSelectRequiresOpen(t *testing.T) {
	ms := NewMultiSelect("Themes", &fakeBinding[[]string]{}, StaticItems("Magic"), 0)
	if ms.Toggle("Magic") {
		t.Fatalf("expected toggle on closed control to be ignored")
	}
	if err := ms.Confirm(context.Background()); !errors.Is(err, ErrNotEditing) {
		t.Fatalf("expected ErrNotEditing, got %v", err)
	}
}

func TestMultiSelectOpenPropagatesSourceError(t *testing.T) {
	boom := errors.New("rule failed")
	ms := NewMultiSelect("Themes", &fakeBinding[[]string]{}, func() ([]string, error) { return nil, boom }, 0)
	if err := ms.Open(); !errors.Is(err, boom) {
		t.Fatalf("expected source error, got %v", err)
	}
	if ms.Phase() != PhaseIdle {
		t.Fatalf("expected control to stay idle")
	}
}

func TestSummarizeSelection(t *testing.T) {
	cases := []struct {
		items []string
		want  string
	}{
		{nil, "None selected"},
		{[]string{"Magic"}, "Magic"},
		{[]string{"Magic", "Space"}, "Magic, Space"},
		{[]string{"Magic", "Space", "Robots"}, "Magic, Space, Robots"},
		{[]string{"Magic", "Space", "Robots", "Pirates"}, "4 selected"},
	}
	for _, tc := range cases {
		if got := SummarizeSelection(tc.items); got != tc.want {
			t.Fatalf("SummarizeSelection(%v): expected %q, got %q", tc.items, tc.want, got)
		}
	}
}

func TestTextInputSaveTrims(t *testing.T) {
	binding := &fakeBinding[string]{}
	input := NewTextInput("Child's Name", binding, 30)

	input.Open()
	if err := input.SetDraft("  Liam  "); err != nil {
		t.Fatalf("set draft: %v", err)
	}
	if err := input.Save(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if binding.value != "Liam" {
		t.Fatalf("expected trimmed value, got %q", binding.value)
	}
	if input.Display() != "Liam" {
		t.Fatalf("unexpected display %q", input.Display())
	}
}

func TestTextInputEmptySaveClears(t *testing.T) {
	binding := &fakeBinding[string]{value: "Liam"}
	input := NewTextInput("Child's Name", binding, 30)

	input.Open()
	if err := input.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if binding.value != "Liam" {
		t.Fatalf("expected clear not to commit, got %q", binding.value)
	}
	if err := input.Save(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(binding.commits) != 1 || binding.commits[0] != "" {
		t.Fatalf("expected empty commit, got %v", binding.commits)
	}
	if input.Display() != "Not set" {
		t.Fatalf("expected Not set, got %q", input.Display())
	}
}

func TestTextInputCancelReverts(t *testing.T) {
	binding := &fakeBinding[string]{value: "Dragons"}
	input := NewTextInput("Custom Topic", binding, 0)

	input.Open()
	if input.Draft() != "Dragons" {
		t.Fatalf("expected draft seeded from value, got %q", input.Draft())
	}
	_ = input.SetDraft("Trucks")
	input.Cancel()
	if binding.value != "Dragons" || len(binding.commits) != 0 {
		t.Fatalf("expected committed value untouched, got %q", binding.value)
	}
	if err := input.SetDraft("x"); !errors.Is(err, ErrNotEditing) {
		t.Fatalf("expected ErrNotEditing after cancel, got %v", err)
	}
}

func TestTextInputTruncatesToMaxRunes(t *testing.T) {
	input := NewTextInput("Custom Theme", &fakeBinding[string]{}, 0)
	if input.MaxLength() != DefaultMaxLength {
		t.Fatalf("expected default max length, got %d", input.MaxLength())
	}
	input.Open()
	_ = input.SetDraft("ééééééééééééééééééééééééééééééééééééééééééééééééééééé")
	if input.Counter() != "50/50" {
		t.Fatalf("expected draft truncated to 50 runes, got %s", input.Counter())
	}
}

func TestSummarizeText(t *testing.T) {
	long := "abcdefghijklmnopqrstuvwxyz0123456789"
	cases := map[string]string{
		"":        "Not set",
		"   ":     "Not set",
		"Mia":     "Mia",
		long[:30]: long[:30],
		long:      long[:30] + "...",
	}
	for in, want := range cases {
		if got := SummarizeText(in); got != want {
			t.Fatalf("SummarizeText(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestPickerPickCommitsAndCloses(t *testing.T) {
	binding := &fakeBinding[string]{value: "English"}
	picker := NewPicker("Language", binding, []string{"English", "Spanish"})

	if picker.Title() != "Select Language" {
		t.Fatalf("unexpected title %q", picker.Title())
	}
	if err := picker.Pick(context.Background(), "Spanish"); !errors.Is(err, ErrNotEditing) {
		t.Fatalf("expected ErrNotEditing on closed picker, got %v", err)
	}

	picker.Open()
	choices := picker.Choices()
	if len(choices) != 2 || !choices[0].Selected || choices[1].Selected {
		t.Fatalf("unexpected choices %+v", choices)
	}
	if err := picker.Pick(context.Background(), "Klingon"); !errors.Is(err, ErrUnknownOption) {
		t.Fatalf("expected ErrUnknownOption, got %v", err)
	}
	if err := picker.Pick(context.Background(), "Spanish"); err != nil {
		t.Fatalf("pick: %v", err)
	}
	if binding.value != "Spanish" || picker.Phase() != PhaseIdle {
		t.Fatalf("expected committed and closed, got %q %s", binding.value, picker.Phase())
	}
}

func TestPickerFailedCommitStaysOpen(t *testing.T) {
	boom := errors.New("offline")
	binding := &fakeBinding[string]{value: "English", err: boom}
	picker := NewPicker("Language", binding, []string{"English", "Spanish"})
	picker.Open()

	if err := picker.Pick(context.Background(), "Spanish"); !errors.Is(err, boom) {
		t.Fatalf("expected commit error, got %v", err)
	}
	if picker.Phase() != PhaseEditing {
		t.Fatalf("expected picker to stay open after failed commit")
	}
	picker.Close()
	if picker.Phase() != PhaseIdle {
		t.Fatalf("expected picker closed")
	}
}
