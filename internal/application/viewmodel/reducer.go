// Package viewmodel keeps the transaction form, its edit mode and the listed
// transactions in step with the remote ledger.
//
// State changes happen only in Update, a pure function from a state and an
// event to the next state and the remote call to issue. ViewModel runs those
// calls and feeds their results back in as events.
package viewmodel

import (
	"errors"
	"fmt"

	"github.com/damon-houk/ledger-form/internal/domain/entity"
)

// ErrMissingID is returned for row events that carry no transaction id
var ErrMissingID = errors.New("transaction id is empty")

// Mode tells whether a submit creates a record or updates one
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// State is everything the form and the table render from
type State struct {
	// Transactions is the snapshot from the last successful list call
	Transactions []entity.Transaction
	// Draft holds the unsaved form values
	Draft entity.Draft
	// EditingID is empty in create mode
	EditingID entity.ID
	// Mounted is set by the first Mount event
	Mounted bool
}

// Mode reports the form mode derived from EditingID
func (s State) Mode() Mode {
	if s.EditingID != "" {
		return ModeEdit
	}
	return ModeCreate
}

// Clone returns a copy that shares no slice with s
func (s State) Clone() State {
	s.Transactions = append([]entity.Transaction(nil), s.Transactions...)
	return s
}

func (s State) has(id entity.ID) bool {
	for _, t := range s.Transactions {
		if t.ID == id {
			return true
		}
	}
	return false
}

// resetForm returns to create mode with an empty draft
func (s State) resetForm() State {
	s.Draft = entity.Draft{}
	s.EditingID = ""
	return s
}

// Event is an input to Update. User actions and remote results are both events.
type Event interface {
	isEvent()
}

// Mount is sent once when the form is shown
type Mount struct{}

// Input is one change from a form control. Checked carries the checkbox
// signal and Value the raw text of every other control.
type Input struct {
	Name    string
	Value   string
	Checked bool
}

// TextInput builds the input event of a text, number or date control
func TextInput(name, value string) Input {
	return Input{Name: name, Value: value}
}

// CheckboxInput builds the input event of a checkbox
func CheckboxInput(name string, checked bool) Input {
	return Input{Name: name, Checked: checked}
}

// FieldChanged carries one form control change
type FieldChanged struct {
	Input Input
}

// Submit asks to save the draft
type Submit struct{}

// BeginEdit loads a listed transaction into the form
type BeginEdit struct {
	Transaction entity.Transaction
}

// DeleteRow asks to delete a listed transaction
type DeleteRow struct {
	ID entity.ID
}

// Refresh asks for a fresh list
type Refresh struct{}

// Listed reports a successful list call
type Listed struct {
	Transactions []entity.Transaction
}

// Saved reports a successful create or update
type Saved struct {
	Transaction entity.Transaction
}

// Deleted reports a successful delete
type Deleted struct {
	ID entity.ID
}

func (Mount) isEvent()        {}
func (FieldChanged) isEvent() {}
func (Submit) isEvent()       {}
func (BeginEdit) isEvent()    {}
func (DeleteRow) isEvent()    {}
func (Refresh) isEvent()      {}
func (Listed) isEvent()       {}
func (Saved) isEvent()        {}
func (Deleted) isEvent()      {}

// EffectKind names the remote call an effect stands for
type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectList
	EffectCreate
	EffectUpdate
	EffectDelete
)

func (k EffectKind) String() string {
	switch k {
	case EffectList:
		return "list"
	case EffectCreate:
		return "create"
	case EffectUpdate:
		return "update"
	case EffectDelete:
		return "delete"
	default:
		return "none"
	}
}

// Effect describes the remote call to issue after a transition
type Effect struct {
	Kind  EffectKind
	ID    entity.ID
	Draft entity.Draft
}

var noEffect = Effect{Kind: EffectNone}

// Update applies one event. On error the returned state is s unchanged.
func Update(s State, ev Event) (State, Effect, error) {
	switch ev := ev.(type) {
	case Mount:
		if s.Mounted {
			return s, noEffect, nil
		}
		s.Mounted = true
		s.Transactions = []entity.Transaction{}
		return s, Effect{Kind: EffectList}, nil

	case FieldChanged:
		field, err := entity.ParseField(ev.Input.Name)
		if err != nil {
			return s, noEffect, err
		}
		next := s
		if err := next.Draft.Set(field, ev.Input.Value, ev.Input.Checked); err != nil {
			return s, noEffect, err
		}
		return next, noEffect, nil

	case Submit:
		if s.Mode() == ModeEdit {
			return s, Effect{Kind: EffectUpdate, ID: s.EditingID, Draft: s.Draft}, nil
		}
		return s, Effect{Kind: EffectCreate, Draft: s.Draft}, nil

	case BeginEdit:
		if ev.Transaction.ID == "" {
			return s, noEffect, ErrMissingID
		}
		s.EditingID = ev.Transaction.ID
		s.Draft = entity.DraftFrom(ev.Transaction)
		return s, noEffect, nil

	case DeleteRow:
		if ev.ID == "" {
			return s, noEffect, ErrMissingID
		}
		return s, Effect{Kind: EffectDelete, ID: ev.ID}, nil

	case Refresh:
		return s, Effect{Kind: EffectList}, nil

	case Listed:
		s.Transactions = append([]entity.Transaction{}, ev.Transactions...)
		// A record deleted elsewhere cannot stay in edit mode
		if s.Mode() == ModeEdit && !s.has(s.EditingID) {
			s = s.resetForm()
		}
		return s, noEffect, nil

	case Saved:
		return s.resetForm(), Effect{Kind: EffectList}, nil

	case Deleted:
		if s.EditingID == ev.ID {
			s = s.resetForm()
		}
		return s, Effect{Kind: EffectList}, nil

	default:
		return s, noEffect, fmt.Errorf("unsupported event %T", ev)
	}
}
