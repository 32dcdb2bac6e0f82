package transform

import (
	"fmt"

	"github.com/iw2rmb/tessera/model"
)

// Step is one atomic document change.
type Step interface {
	// Apply applies the step to doc.
	Apply(doc *model.Node) (*model.Node, error)
	// GetMap describes how the step moves positions.
	GetMap() *StepMap
}

// StepError reports a step that could not be applied.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("transform: %T: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// ReplaceStep replaces [From, To) with Slice.
type ReplaceStep struct {
	From, To int
	Slice    model.Slice
}

func (s *ReplaceStep) Apply(doc *model.Node) (*model.Node, error) {
	return doc.Replace(s.From, s.To, s.Slice)
}

func (s *ReplaceStep) GetMap() *StepMap {
	return NewStepMap(s.From, s.To-s.From, s.Slice.Size())
}

// SetNodeMarkupStep changes the type and attributes of the node at Pos,
// keeping its content. Positions do not move.
type SetNodeMarkupStep struct {
	Pos   int
	Type  *model.NodeType
	Attrs model.Attrs
}

func (s *SetNodeMarkupStep) Apply(doc *model.Node) (*model.Node, error) {
	node := doc.NodeAt(s.Pos)
	if node == nil {
		return nil, fmt.Errorf("no node at position %d", s.Pos)
	}
	if node.IsText() {
		return nil, fmt.Errorf("cannot change markup of text at %d", s.Pos)
	}
	updated := node.WithMarkup(s.Type, s.Attrs)
	if updated.NodeSize() != node.NodeSize() {
		return nil, fmt.Errorf("markup change at %d alters node size", s.Pos)
	}
	return doc.Replace(s.Pos, s.Pos+node.NodeSize(), model.NewSlice(model.FragmentFrom(updated), 0, 0))
}

func (s *SetNodeMarkupStep) GetMap() *StepMap { return EmptyStepMap }
