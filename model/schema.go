package model

import "fmt"

// Role tags the part a node type plays in a table. Table code dispatches on
// the role instead of on concrete type names.
type Role uint8

const (
	RoleNone Role = iota
	RoleTable
	RoleRow
	RoleCell
	RoleHeaderCell
)

func (r Role) String() string {
	switch r {
	case RoleTable:
		return "table"
	case RoleRow:
		return "row"
	case RoleCell:
		return "cell"
	case RoleHeaderCell:
		return "header_cell"
	default:
		return "none"
	}
}

// IsCell reports whether r is RoleCell or RoleHeaderCell.
func (r Role) IsCell() bool { return r == RoleCell || r == RoleHeaderCell }

// NodeSpec describes one node type when building a Schema.
type NodeSpec struct {
	Name string
	Role Role

	Text      bool // text leaf
	Inline    bool
	Textblock bool // block whose content is inline
	Atom      bool // leaf block, selectable as a node

	// Attrs holds the attributes and their default values.
	Attrs Attrs

	// Fill names the child types CreateAndFill produces when no content is
	// given, in order.
	Fill []string
}

// NodeType is a node type in a Schema.
type NodeType struct {
	Name string
	Role Role

	text      bool
	inline    bool
	textblock bool
	atom      bool
	attrs     Attrs
	fill      []string
	schema    *Schema
}

func (t *NodeType) Schema() *Schema { return t.schema }

func (t *NodeType) IsText() bool      { return t.text }
func (t *NodeType) IsInline() bool    { return t.inline || t.text }
func (t *NodeType) IsBlock() bool     { return !t.IsInline() }
func (t *NodeType) IsTextblock() bool { return t.textblock }
func (t *NodeType) IsLeaf() bool      { return t.atom || t.text }
func (t *NodeType) IsAtom() bool      { return t.atom }

// CompatibleContent reports whether nodes of type t and other may be joined.
func (t *NodeType) CompatibleContent(other *NodeType) bool {
	if t == other {
		return true
	}
	if t.textblock && other.textblock {
		return true
	}
	return t.Role.IsCell() && other.Role.IsCell()
}

// Create builds a node of this type. Attributes missing from attrs take their
// default values.
func (t *NodeType) Create(attrs Attrs, content Fragment) *Node {
	if t.text {
		panic(fmt.Errorf("model: use Schema.Text to create text nodes"))
	}
	return newNode(t, t.computeAttrs(attrs), content, "")
}

// CreateAndFill builds a node like Create, and when content is empty fills
// it with the type's default children.
func (t *NodeType) CreateAndFill(attrs Attrs, content ...*Node) *Node {
	if len(content) > 0 {
		return t.Create(attrs, FragmentFrom(content...))
	}
	children := make([]*Node, 0, len(t.fill))
	for _, name := range t.fill {
		child := t.schema.nodes[name]
		if child == nil {
			continue
		}
		children = append(children, child.CreateAndFill(nil))
	}
	return t.Create(attrs, FragmentFrom(children...))
}

func (t *NodeType) computeAttrs(given Attrs) Attrs {
	if len(t.attrs) == 0 && len(given) == 0 {
		return nil
	}
	out := make(Attrs, len(t.attrs))
	for k, v := range t.attrs {
		out[k] = v
	}
	for k, v := range given {
		if _, ok := t.attrs[k]; !ok {
			continue
		}
		out[k] = v
	}
	return out
}

// TableTypes groups the node types that carry table roles.
type TableTypes struct {
	Table      *NodeType
	Row        *NodeType
	Cell       *NodeType
	HeaderCell *NodeType
}

// ForRole returns the type with the given role, or nil.
func (tt TableTypes) ForRole(r Role) *NodeType {
	switch r {
	case RoleTable:
		return tt.Table
	case RoleRow:
		return tt.Row
	case RoleCell:
		return tt.Cell
	case RoleHeaderCell:
		return tt.HeaderCell
	default:
		return nil
	}
}

// Schema is a closed set of node types.
type Schema struct {
	nodes    map[string]*NodeType
	order    []string
	top      string
	textType *NodeType
	tables   TableTypes
}

// NewSchema builds a schema from specs. The first spec is the top node type.
func NewSchema(specs ...NodeSpec) *Schema {
	s := &Schema{nodes: make(map[string]*NodeType, len(specs))}
	for i, spec := range specs {
		t := &NodeType{
			Name:      spec.Name,
			Role:      spec.Role,
			text:      spec.Text,
			inline:    spec.Inline,
			textblock: spec.Textblock,
			atom:      spec.Atom,
			attrs:     spec.Attrs.clone(),
			fill:      append([]string(nil), spec.Fill...),
			schema:    s,
		}
		if i == 0 {
			s.top = spec.Name
		}
		if spec.Text {
			s.textType = t
		}
		switch spec.Role {
		case RoleTable:
			s.tables.Table = t
		case RoleRow:
			s.tables.Row = t
		case RoleCell:
			s.tables.Cell = t
		case RoleHeaderCell:
			s.tables.HeaderCell = t
		}
		s.nodes[spec.Name] = t
		s.order = append(s.order, spec.Name)
	}
	return s
}

func cellAttrDefaults() Attrs {
	return Attrs{"colspan": 1, "rowspan": 1, "colwidth": nil}
}

// DefaultSchema returns a schema with paragraphs, horizontal rules and
// tables.
func DefaultSchema() *Schema {
	return NewSchema(
		NodeSpec{Name: "doc", Fill: []string{"paragraph"}},
		NodeSpec{Name: "paragraph", Textblock: true},
		NodeSpec{Name: "text", Text: true, Inline: true},
		NodeSpec{Name: "horizontal_rule", Atom: true},
		NodeSpec{Name: "table", Role: RoleTable, Fill: []string{"table_row"}},
		NodeSpec{Name: "table_row", Role: RoleRow, Fill: []string{"table_cell"}},
		NodeSpec{Name: "table_cell", Role: RoleCell, Attrs: cellAttrDefaults(), Fill: []string{"paragraph"}},
		NodeSpec{Name: "table_header", Role: RoleHeaderCell, Attrs: cellAttrDefaults(), Fill: []string{"paragraph"}},
	)
}

// Node returns the type with the given name, or nil.
func (s *Schema) Node(name string) *NodeType { return s.nodes[name] }

// TopNodeType returns the type of document roots.
func (s *Schema) TopNodeType() *NodeType { return s.nodes[s.top] }

// TableTypes returns the types carrying table roles.
func (s *Schema) TableTypes() TableTypes { return s.tables }

// Text creates a text node. Empty text is not allowed.
func (s *Schema) Text(text string) *Node {
	if text == "" {
		panic(fmt.Errorf("model: empty text nodes are not allowed"))
	}
	if s.textType == nil {
		panic(fmt.Errorf("model: schema has no text type"))
	}
	return newNode(s.textType, nil, Fragment{}, text)
}

// DefaultTextblock returns the first textblock type of the schema.
func (s *Schema) DefaultTextblock() *NodeType {
	for _, name := range s.order {
		if t := s.nodes[name]; t.textblock {
			return t
		}
	}
	return nil
}
