package parser

type NodeKind int

const (
	KindDocument NodeKind = iota
	KindObjectDeclaration

	// Sections
	KindPropertySection
	KindFieldSection
	KindKeySection
	KindFieldGroupSection
	KindActionSection
	KindControlSection
	KindElementSection
	KindCodeSection

	// Declarations
	KindProperty
	KindTrigger
	KindField
	KindKey
	KindFieldGroup
	KindAction
	KindControl
	KindElement
	KindVariable
	KindParameter
	KindProcedure
	KindAttribute
	KindTypeReference
	KindCalcFormula
	KindTableRelation

	// Statements
	KindCompoundStatement
	KindIfStatement
	KindWhileStatement
	KindRepeatStatement
	KindForStatement
	KindCaseStatement
	KindCaseBranch
	KindWithStatement
	KindExitStatement
	KindBreakStatement
	KindAssignmentStatement
	KindExpressionStatement

	// Expressions
	KindBinaryExpression
	KindUnaryExpression
	KindCallExpression
	KindMemberAccess
	KindScopeAccess
	KindIndexExpression
	KindRangeExpression
	KindSetExpression
	KindParenExpression
	KindIdentifier
	KindLiteral
)

var nodeKindNames = map[NodeKind]string{
	KindDocument:            "Document",
	KindObjectDeclaration:   "ObjectDeclaration",
	KindPropertySection:     "PropertySection",
	KindFieldSection:        "FieldSection",
	KindKeySection:          "KeySection",
	KindFieldGroupSection:   "FieldGroupSection",
	KindActionSection:       "ActionSection",
	KindControlSection:      "ControlSection",
	KindElementSection:      "ElementSection",
	KindCodeSection:         "CodeSection",
	KindProperty:            "Property",
	KindTrigger:             "Trigger",
	KindField:               "Field",
	KindKey:                 "Key",
	KindFieldGroup:          "FieldGroup",
	KindAction:              "Action",
	KindControl:             "Control",
	KindElement:             "Element",
	KindVariable:            "Variable",
	KindParameter:           "Parameter",
	KindProcedure:           "Procedure",
	KindAttribute:           "Attribute",
	KindTypeReference:       "TypeReference",
	KindCalcFormula:         "CalcFormula",
	KindTableRelation:       "TableRelation",
	KindCompoundStatement:   "CompoundStatement",
	KindIfStatement:         "IfStatement",
	KindWhileStatement:      "WhileStatement",
	KindRepeatStatement:     "RepeatStatement",
	KindForStatement:        "ForStatement",
	KindCaseStatement:       "CaseStatement",
	KindCaseBranch:          "CaseBranch",
	KindWithStatement:       "WithStatement",
	KindExitStatement:       "ExitStatement",
	KindBreakStatement:      "BreakStatement",
	KindAssignmentStatement: "AssignmentStatement",
	KindExpressionStatement: "ExpressionStatement",
	KindBinaryExpression:    "BinaryExpression",
	KindUnaryExpression:     "UnaryExpression",
	KindCallExpression:      "CallExpression",
	KindMemberAccess:        "MemberAccess",
	KindScopeAccess:         "ScopeAccess",
	KindIndexExpression:     "IndexExpression",
	KindRangeExpression:     "RangeExpression",
	KindSetExpression:       "SetExpression",
	KindParenExpression:     "ParenExpression",
	KindIdentifier:          "Identifier",
	KindLiteral:             "Literal",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Node is implemented by every AST variant. All variants embed baseNode so
// the start/end token pair lives in one place.
type Node interface {
	Kind() NodeKind
	StartToken() *Token
	EndToken() *Token
	Span() Span
}

type Statement interface {
	Node
	statementNode()
}

type Expression interface {
	Node
	expressionNode()
}

type baseNode struct {
	Start Token
	End   Token
}

func (n *baseNode) StartToken() *Token { return &n.Start }
func (n *baseNode) EndToken() *Token   { return &n.End }

func (n *baseNode) Span() Span {
	return Span{Start: n.Start.Span.Start, End: n.End.Span.End}
}

func (n *baseNode) setSpan(start, end Token) {
	n.Start = start
	n.End = end
}

// Document is the parse root. Object is nil when the input contains no
// object header at all.
type Document struct {
	baseNode
	Object *ObjectDeclaration
}

func (*Document) Kind() NodeKind { return KindDocument }

type ObjectKind int

const (
	ObjectUnknown ObjectKind = iota
	ObjectTable
	ObjectForm
	ObjectPage
	ObjectReport
	ObjectCodeunit
	ObjectXMLport
	ObjectDataport
	ObjectQuery
	ObjectMenuSuite
)

var objectKindNames = map[ObjectKind]string{
	ObjectUnknown:   "Unknown",
	ObjectTable:     "Table",
	ObjectForm:      "Form",
	ObjectPage:      "Page",
	ObjectReport:    "Report",
	ObjectCodeunit:  "Codeunit",
	ObjectXMLport:   "XMLport",
	ObjectDataport:  "Dataport",
	ObjectQuery:     "Query",
	ObjectMenuSuite: "MenuSuite",
}

func (k ObjectKind) String() string {
	if name, ok := objectKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

func objectKindOf(tok TokenKind) ObjectKind {
	switch tok {
	case TokenTable:
		return ObjectTable
	case TokenForm:
		return ObjectForm
	case TokenPage:
		return ObjectPage
	case TokenReport:
		return ObjectReport
	case TokenCodeunit:
		return ObjectCodeunit
	case TokenXMLport:
		return ObjectXMLport
	case TokenDataport:
		return ObjectDataport
	case TokenQuery:
		return ObjectQuery
	case TokenMenuSuite:
		return ObjectMenuSuite
	}
	return ObjectUnknown
}

// ObjectDeclaration owns zero-or-one of each known section. Unsupported
// sections (dataset, labels, request page, menu nodes) are skipped during
// parsing and never appear here.
type ObjectDeclaration struct {
	baseNode
	ObjectKind ObjectKind
	ID         int
	Name       string
	NameToken  Token

	Properties  *PropertySection
	Fields      *FieldSection
	Keys        *KeySection
	FieldGroups *FieldGroupSection
	Actions     *ActionSection
	Controls    *ControlSection
	Elements    *ElementSection
	Code        *CodeSection
}

func (*ObjectDeclaration) Kind() NodeKind { return KindObjectDeclaration }

type PropertySection struct {
	baseNode
	Properties []*Property
}

func (*PropertySection) Kind() NodeKind { return KindPropertySection }

// Property is one Name=Value pair. Exactly one of ValueTokens, Trigger,
// CalcFormula, or TableRelation carries the value: trigger bodies are parsed
// as statement blocks, CalcFormula/TableRelation go through their dedicated
// sub-grammars, and everything else keeps its raw token run.
type Property struct {
	baseNode
	Name        string
	NameToken   Token
	ValueTokens []Token
	Trigger     *Trigger
	CalcFormula *CalcFormula
	Relation    *TableRelation
}

func (*Property) Kind() NodeKind { return KindProperty }

// Trigger is a named statement block attached to an object, field, or
// control event, e.g. OnValidate=BEGIN ... END.
type Trigger struct {
	baseNode
	Name   string
	Locals []*Variable
	Body   *CompoundStatement
}

func (*Trigger) Kind() NodeKind { return KindTrigger }

type FieldSection struct {
	baseNode
	Fields []*Field
}

func (*FieldSection) Kind() NodeKind { return KindFieldSection }

type Field struct {
	baseNode
	No         int
	Enabled    string
	FieldName  string
	NameToken  Token
	DataType   *TypeReference
	Properties []*Property
}

func (*Field) Kind() NodeKind { return KindField }

type KeySection struct {
	baseNode
	Keys []*Key
}

func (*KeySection) Kind() NodeKind { return KindKeySection }

type Key struct {
	baseNode
	Enabled    string
	Fields     []string
	Properties []*Property
}

func (*Key) Kind() NodeKind { return KindKey }

type FieldGroupSection struct {
	baseNode
	Groups []*FieldGroup
}

func (*FieldGroupSection) Kind() NodeKind { return KindFieldGroupSection }

type FieldGroup struct {
	baseNode
	ID     int
	Name   string
	Fields []string
}

func (*FieldGroup) Kind() NodeKind { return KindFieldGroup }

// ActionSection holds both the flat item list in input order and the forest
// reconstructed from indent levels. Children are populated only by the
// hierarchy builder, never during flat parsing.
type ActionSection struct {
	baseNode
	Items []*Action
	Roots []*Action
}

func (*ActionSection) Kind() NodeKind { return KindActionSection }

type Action struct {
	baseNode
	ID          int
	IndentLevel int
	ActionKind  string
	Properties  []*Property
	Children    []*Action
}

func (*Action) Kind() NodeKind { return KindAction }

type ControlSection struct {
	baseNode
	Items []*Control
	Roots []*Control
}

func (*ControlSection) Kind() NodeKind { return KindControlSection }

type Control struct {
	baseNode
	ID          int
	IndentLevel int
	ControlKind string
	Properties  []*Property
	Children    []*Control
}

func (*Control) Kind() NodeKind { return KindControl }

type ElementSection struct {
	baseNode
	Items []*Element
	Roots []*Element
}

func (*ElementSection) Kind() NodeKind { return KindElementSection }

type Element struct {
	baseNode
	ID          string
	IndentLevel int
	Name        string
	NameToken   Token
	ElementKind string
	SourceType  string
	Properties  []*Property
	Children    []*Element
}

func (*Element) Kind() NodeKind { return KindElement }

// CodeSection is the CODE block: global variables, procedures, and the
// object's trailing documentation trigger body.
type CodeSection struct {
	baseNode
	Variables     []*Variable
	Procedures    []*Procedure
	Documentation *CompoundStatement
}

func (*CodeSection) Kind() NodeKind { return KindCodeSection }

type Variable struct {
	baseNode
	Name      string
	NameToken Token
	ID        int
	DataType  *TypeReference
}

func (*Variable) Kind() NodeKind { return KindVariable }

type Parameter struct {
	baseNode
	ByRef     bool
	Name      string
	NameToken Token
	ID        int
	DataType  *TypeReference
}

func (*Parameter) Kind() NodeKind { return KindParameter }

type ProcedureKind int

const (
	ProcedureKindProcedure ProcedureKind = iota
	ProcedureKindFunction
	ProcedureKindTrigger
	ProcedureKindEvent
)

func (k ProcedureKind) String() string {
	switch k {
	case ProcedureKindFunction:
		return "function"
	case ProcedureKindTrigger:
		return "trigger"
	case ProcedureKindEvent:
		return "event"
	default:
		return "procedure"
	}
}

type Procedure struct {
	baseNode
	ProcedureKind ProcedureKind
	Local         bool
	Name          string
	NameToken     Token
	ID            int
	Attributes    []*Attribute
	Parameters    []*Parameter
	ReturnName    string
	ReturnType    *TypeReference
	Locals        []*Variable
	Body          *CompoundStatement
}

func (*Procedure) Kind() NodeKind { return KindProcedure }

// Attribute is a bracketed annotation preceding a procedure declaration.
// Arguments are kept as their raw token span, unevaluated, so qualified
// names, quoted strings, and :: scope access survive untouched.
type Attribute struct {
	baseNode
	Name      string
	ArgTokens []Token
}

func (*Attribute) Kind() NodeKind { return KindAttribute }

// TypeReference is a data type usage such as Code20, Record 18, or
// ARRAY [5] OF Integer. TypeName is the leading type word; Tokens carries
// the full raw type text.
type TypeReference struct {
	baseNode
	TypeName string
	Tokens   []Token
}

func (*TypeReference) Kind() NodeKind { return KindTypeReference }

// Statements

type CompoundStatement struct {
	baseNode
	Statements []Statement
}

func (*CompoundStatement) Kind() NodeKind { return KindCompoundStatement }
func (*CompoundStatement) statementNode() {}

type IfStatement struct {
	baseNode
	Condition Expression
	Then      Statement
	Else      Statement
}

func (*IfStatement) Kind() NodeKind { return KindIfStatement }
func (*IfStatement) statementNode() {}

type WhileStatement struct {
	baseNode
	Condition Expression
	Body      Statement
}

func (*WhileStatement) Kind() NodeKind { return KindWhileStatement }
func (*WhileStatement) statementNode() {}

type RepeatStatement struct {
	baseNode
	Body      []Statement
	Condition Expression
}

func (*RepeatStatement) Kind() NodeKind { return KindRepeatStatement }
func (*RepeatStatement) statementNode() {}

type ForStatement struct {
	baseNode
	Variable Expression
	From     Expression
	To       Expression
	Down     bool
	Body     Statement
}

func (*ForStatement) Kind() NodeKind { return KindForStatement }
func (*ForStatement) statementNode() {}

type CaseStatement struct {
	baseNode
	Expr     Expression
	Branches []*CaseBranch
	Else     []Statement
}

func (*CaseStatement) Kind() NodeKind { return KindCaseStatement }
func (*CaseStatement) statementNode() {}

// CaseBranch keeps whatever was parsed before an error; Incomplete marks a
// branch whose colon or body was missing.
type CaseBranch struct {
	baseNode
	Values     []Expression
	Body       Statement
	Incomplete bool
}

func (*CaseBranch) Kind() NodeKind { return KindCaseBranch }

type WithStatement struct {
	baseNode
	Target Expression
	Body   Statement
}

func (*WithStatement) Kind() NodeKind { return KindWithStatement }
func (*WithStatement) statementNode() {}

type ExitStatement struct {
	baseNode
	Value Expression
}

func (*ExitStatement) Kind() NodeKind { return KindExitStatement }
func (*ExitStatement) statementNode() {}

type BreakStatement struct {
	baseNode
}

func (*BreakStatement) Kind() NodeKind { return KindBreakStatement }
func (*BreakStatement) statementNode() {}

type AssignmentStatement struct {
	baseNode
	Target Expression
	Value  Expression
}

func (*AssignmentStatement) Kind() NodeKind { return KindAssignmentStatement }
func (*AssignmentStatement) statementNode() {}

type ExpressionStatement struct {
	baseNode
	Expr Expression
}

func (*ExpressionStatement) Kind() NodeKind { return KindExpressionStatement }
func (*ExpressionStatement) statementNode() {}

// Expressions

type BinaryExpression struct {
	baseNode
	Op    Token
	Left  Expression
	Right Expression
}

func (*BinaryExpression) Kind() NodeKind  { return KindBinaryExpression }
func (*BinaryExpression) expressionNode() {}

type UnaryExpression struct {
	baseNode
	Op      Token
	Operand Expression
}

func (*UnaryExpression) Kind() NodeKind  { return KindUnaryExpression }
func (*UnaryExpression) expressionNode() {}

type CallExpression struct {
	baseNode
	Callee Expression
	Args   []Expression
}

func (*CallExpression) Kind() NodeKind  { return KindCallExpression }
func (*CallExpression) expressionNode() {}

type MemberAccess struct {
	baseNode
	Target      Expression
	Member      string
	MemberToken Token
}

func (*MemberAccess) Kind() NodeKind  { return KindMemberAccess }
func (*MemberAccess) expressionNode() {}

// ScopeAccess is the :: operator, e.g. DATABASE::Customer or an option
// value such as Type::Item.
type ScopeAccess struct {
	baseNode
	Target      Expression
	Member      string
	MemberToken Token
}

func (*ScopeAccess) Kind() NodeKind  { return KindScopeAccess }
func (*ScopeAccess) expressionNode() {}

type IndexExpression struct {
	baseNode
	Target  Expression
	Indexes []Expression
}

func (*IndexExpression) Kind() NodeKind  { return KindIndexExpression }
func (*IndexExpression) expressionNode() {}

type RangeExpression struct {
	baseNode
	Low  Expression
	High Expression
}

func (*RangeExpression) Kind() NodeKind  { return KindRangeExpression }
func (*RangeExpression) expressionNode() {}

// SetExpression is a bracketed value set, e.g. [1;2;3] or the right-hand
// side of IN.
type SetExpression struct {
	baseNode
	Elements []Expression
}

func (*SetExpression) Kind() NodeKind  { return KindSetExpression }
func (*SetExpression) expressionNode() {}

type ParenExpression struct {
	baseNode
	Inner Expression
}

func (*ParenExpression) Kind() NodeKind  { return KindParenExpression }
func (*ParenExpression) expressionNode() {}

type Identifier struct {
	baseNode
	Name   string
	Quoted bool
}

func (*Identifier) Kind() NodeKind  { return KindIdentifier }
func (*Identifier) expressionNode() {}

type Literal struct {
	baseNode
	Token Token
	Value string
}

func (*Literal) Kind() NodeKind  { return KindLiteral }
func (*Literal) expressionNode() {}
