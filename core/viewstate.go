package core

import "strings"

const errorMarker = "Erro"

// Message is the single operator-facing string of a view-state area (creation, editing, assignment...).
// Messages starting with "Erro" are rendered as errors, anything else as success.
type Message string

func ErrorMessage(text string) Message { return Message(errorMarker + ": " + text) }

func (m Message) IsError() bool { return strings.HasPrefix(string(m), errorMarker) }
func (m Message) IsEmpty() bool { return m == "" }
func (m Message) String() string { return string(m) }

// ConfirmKind identifies the destructive operation waiting for the operator's answer.
type ConfirmKind string

const (
	ConfirmDelete   ConfirmKind = "delete"
	ConfirmUnassign ConfirmKind = "unassign"
)

// Confirmation is a pending destructive operation. Nothing is sent to the API until it is answered.
type Confirmation struct {
	Kind      ConfirmKind
	TargetID  string
	SubjectID string // only for ConfirmUnassign
	Prompt    string
}

func (c Confirmation) IsPending() bool { return c.Kind != "" }
