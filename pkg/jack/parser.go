package jack

// Parser is a recursive-descent parser with single-token lookahead. It
// builds a typed AST and populates the class symbol table as classVarDec
// nodes are produced; each subroutine gets its own symbol table, cloned
// from the class table at subroutine entry.
type Parser struct {
	filename string
	stream   *TokenStream

	className  string
	classTable *SymbolTable
}

func NewParser(filename string, stream *TokenStream) *Parser {
	return &Parser{
		filename:   filename,
		stream:     stream,
		classTable: NewSymbolTable(),
	}
}

// ParseClass parses a full compilation unit: "class" Id "{" classVarDec*
// subroutineDec* "}".
func (p *Parser) ParseClass() (*Class, *CompileError) {
	if err := p.consume("class"); err != nil {
		return nil, err
	}

	name, err := p.identifier()
	if err != nil {
		return nil, err
	}
	p.className = name

	if err := p.consume("{"); err != nil {
		return nil, err
	}

	class := &Class{Name: name}

	for p.stream.Peek().Value == "static" || p.stream.Peek().Value == "field" {
		decl, err := p.classVarDec()
		if err != nil {
			return nil, err
		}
		class.ClassVarDecs = append(class.ClassVarDecs, *decl)
	}

	for isSubroutineKeyword(p.stream.Peek().Value) {
		sub, err := p.subroutineDec()
		if err != nil {
			return nil, err
		}
		class.Subroutines = append(class.Subroutines, *sub)
	}

	if err := p.consume("}"); err != nil {
		return nil, err
	}

	return class, nil
}

func isSubroutineKeyword(v string) bool {
	return v == "constructor" || v == "function" || v == "method"
}

// classVarDec := ("static"|"field") Type Id ("," Id)* ";"
func (p *Parser) classVarDec() (*ClassVarDec, *CompileError) {
	kind, err := p.keyword()
	if err != nil {
		return nil, err
	}

	category := CategoryField
	if kind == "static" {
		category = CategoryStatic
	}

	typ, err := p.typeName()
	if err != nil {
		return nil, err
	}

	decl := &ClassVarDec{Kind: ClassVarDecKind(kind), Type: typ}

	for {
		name, err := p.identifier()
		if err != nil {
			return nil, err
		}
		decl.Names = append(decl.Names, name)

		if serr := p.classTable.Add(category, typ, name); serr != nil {
			serr.Filename = p.filename
			return nil, serr
		}

		if p.stream.Peek().Value != "," {
			break
		}
		p.stream.Advance()
	}

	if err := p.consume(";"); err != nil {
		return nil, err
	}

	return decl, nil
}

// subroutineDec := ("constructor"|"function"|"method") (Type|"void") Id "(" parameterList ")" subroutineBody
func (p *Parser) subroutineDec() (*SubroutineDec, *CompileError) {
	kindTok, err := p.keyword()
	if err != nil {
		return nil, err
	}
	kind := SubroutineKind(kindTok)

	var returnType string
	if p.stream.Peek().Value == "void" {
		p.stream.Advance()
		returnType = "void"
	} else {
		returnType, err = p.typeName()
		if err != nil {
			return nil, err
		}
	}

	name, err := p.identifier()
	if err != nil {
		return nil, err
	}

	subTable := p.classTable.Clone()
	if kind == SubroutineMethod {
		if serr := subTable.Add(CategoryArgument, p.className, "this"); serr != nil {
			serr.Filename = p.filename
			return nil, serr
		}
	}

	if err := p.consume("("); err != nil {
		return nil, err
	}
	params, err := p.parameterList(subTable)
	if err != nil {
		return nil, err
	}
	if err := p.consume(")"); err != nil {
		return nil, err
	}

	varDecs, body, err := p.subroutineBody(subTable)
	if err != nil {
		return nil, err
	}

	return &SubroutineDec{
		Kind:       kind,
		ReturnType: returnType,
		Name:       name,
		Parameters: params,
		VarDecs:    varDecs,
		Body:       body,
		Symbols:    subTable,
	}, nil
}

// parameterList := ε | Type Id ("," Type Id)*
func (p *Parser) parameterList(subTable *SymbolTable) ([]Parameter, *CompileError) {
	var params []Parameter

	if p.stream.Peek().Value == ")" {
		return params, nil
	}

	for {
		typ, err := p.typeName()
		if err != nil {
			return nil, err
		}
		name, err := p.identifier()
		if err != nil {
			return nil, err
		}

		params = append(params, Parameter{Type: typ, Name: name})
		if serr := subTable.Add(CategoryArgument, typ, name); serr != nil {
			serr.Filename = p.filename
			return nil, serr
		}

		if p.stream.Peek().Value != "," {
			break
		}
		p.stream.Advance()
	}

	return params, nil
}

// subroutineBody := "{" varDec* statements "}"
func (p *Parser) subroutineBody(subTable *SymbolTable) ([]VarDec, []Statement, *CompileError) {
	if err := p.consume("{"); err != nil {
		return nil, nil, err
	}

	var varDecs []VarDec
	for p.stream.Peek().Value == "var" {
		vd, err := p.varDec(subTable)
		if err != nil {
			return nil, nil, err
		}
		varDecs = append(varDecs, *vd)
	}

	stmts, err := p.statements()
	if err != nil {
		return nil, nil, err
	}

	if err := p.consume("}"); err != nil {
		return nil, nil, err
	}

	return varDecs, stmts, nil
}

// varDec := "var" Type Id ("," Id)* ";"
func (p *Parser) varDec(subTable *SymbolTable) (*VarDec, *CompileError) {
	if err := p.consume("var"); err != nil {
		return nil, err
	}

	typ, err := p.typeName()
	if err != nil {
		return nil, err
	}

	vd := &VarDec{Type: typ}
	for {
		name, err := p.identifier()
		if err != nil {
			return nil, err
		}
		vd.Names = append(vd.Names, name)

		if serr := subTable.Add(CategoryLocal, typ, name); serr != nil {
			serr.Filename = p.filename
			return nil, serr
		}

		if p.stream.Peek().Value != "," {
			break
		}
		p.stream.Advance()
	}

	if err := p.consume(";"); err != nil {
		return nil, err
	}

	return vd, nil
}

// statements := statement*
func (p *Parser) statements() ([]Statement, *CompileError) {
	var stmts []Statement
	for isStatementKeyword(p.stream.Peek().Value) {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func isStatementKeyword(v string) bool {
	switch v {
	case "let", "if", "while", "do", "return":
		return true
	default:
		return false
	}
}

func (p *Parser) statement() (Statement, *CompileError) {
	switch p.stream.Peek().Value {
	case "let":
		return p.letStatement()
	case "if":
		return p.ifStatement()
	case "while":
		return p.whileStatement()
	case "do":
		return p.doStatement()
	case "return":
		return p.returnStatement()
	default:
		tok := p.stream.Peek()
		return nil, newParseError(p.filename, "statement", tok.Value)
	}
}

// letStatement := "let" Id ("[" expression "]")? "=" expression ";"
func (p *Parser) letStatement() (Statement, *CompileError) {
	if err := p.consume("let"); err != nil {
		return nil, err
	}

	name, err := p.identifier()
	if err != nil {
		return nil, err
	}

	var index Expression
	if p.stream.Peek().Value == "[" {
		p.stream.Advance()
		index, err = p.expression()
		if err != nil {
			return nil, err
		}
		if err := p.consume("]"); err != nil {
			return nil, err
		}
	}

	if err := p.consume("="); err != nil {
		return nil, err
	}

	value, err := p.expression()
	if err != nil {
		return nil, err
	}

	if err := p.consume(";"); err != nil {
		return nil, err
	}

	return LetStatement{Name: name, Index: index, Value: value}, nil
}

// ifStatement := "if" "(" expression ")" "{" statements "}" ("else" "{" statements "}")?
func (p *Parser) ifStatement() (Statement, *CompileError) {
	if err := p.consume("if"); err != nil {
		return nil, err
	}
	if err := p.consume("("); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if err := p.consume(")"); err != nil {
		return nil, err
	}
	if err := p.consume("{"); err != nil {
		return nil, err
	}
	thenStmts, err := p.statements()
	if err != nil {
		return nil, err
	}
	if err := p.consume("}"); err != nil {
		return nil, err
	}

	stmt := IfStatement{Condition: cond, Then: thenStmts}

	if p.stream.Peek().Value == "else" {
		p.stream.Advance()
		if err := p.consume("{"); err != nil {
			return nil, err
		}
		elseStmts, err := p.statements()
		if err != nil {
			return nil, err
		}
		if err := p.consume("}"); err != nil {
			return nil, err
		}
		stmt.Else = elseStmts
	}

	return stmt, nil
}

// whileStatement := "while" "(" expression ")" "{" statements "}"
func (p *Parser) whileStatement() (Statement, *CompileError) {
	if err := p.consume("while"); err != nil {
		return nil, err
	}
	if err := p.consume("("); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if err := p.consume(")"); err != nil {
		return nil, err
	}
	if err := p.consume("{"); err != nil {
		return nil, err
	}
	body, err := p.statements()
	if err != nil {
		return nil, err
	}
	if err := p.consume("}"); err != nil {
		return nil, err
	}

	return WhileStatement{Condition: cond, Body: body}, nil
}

// doStatement := "do" Id ( "(" expressionList ")" | "." Id "(" expressionList ")" ) ";"
func (p *Parser) doStatement() (Statement, *CompileError) {
	if err := p.consume("do"); err != nil {
		return nil, err
	}

	call, err := p.subroutineCall()
	if err != nil {
		return nil, err
	}

	if err := p.consume(";"); err != nil {
		return nil, err
	}

	return DoStatement{Call: call}, nil
}

// returnStatement := "return" expression? ";"
func (p *Parser) returnStatement() (Statement, *CompileError) {
	if err := p.consume("return"); err != nil {
		return nil, err
	}

	var value Expression
	if p.stream.Peek().Value != ";" {
		var err *CompileError
		value, err = p.expression()
		if err != nil {
			return nil, err
		}
	}

	if err := p.consume(";"); err != nil {
		return nil, err
	}

	return ReturnStatement{Value: value}, nil
}

// subroutineCall disambiguates the three call shapes by one-token lookahead
// after the leading identifier: "(" means a local call, "." means a
// qualified call (receiver resolution happens later, at codegen, against
// the symbol table).
func (p *Parser) subroutineCall() (SubroutineCall, *CompileError) {
	name, err := p.identifier()
	if err != nil {
		return SubroutineCall{}, err
	}

	var receiver string
	if p.stream.Peek().Value == "." {
		p.stream.Advance()
		receiver = name
		name, err = p.identifier()
		if err != nil {
			return SubroutineCall{}, err
		}
	}

	if err := p.consume("("); err != nil {
		return SubroutineCall{}, err
	}
	args, err := p.expressionList()
	if err != nil {
		return SubroutineCall{}, err
	}
	if err := p.consume(")"); err != nil {
		return SubroutineCall{}, err
	}

	return SubroutineCall{Receiver: receiver, Name: name, Args: args}, nil
}

// expression := term (Op term)*, evaluated strictly left-to-right (no
// operator precedence), folding each new operator/term pair onto the left.
func (p *Parser) expression() (Expression, *CompileError) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}

	for isBinaryOpToken(p.stream.Peek()) {
		opTok, err := p.stream.RetrieveOp()
		if err != nil {
			return nil, err
		}

		right, err := p.term()
		if err != nil {
			return nil, err
		}

		left = BinaryExpr{Operator: opTok.Value, Left: left, Right: right}
	}

	return left, nil
}

func isBinaryOpToken(tok Token) bool {
	return tok.Type == TokenSymbol && binaryOps[tok.Value]
}

// term := IntConst | StrConst | KeywordConst | UnaryOp term | "(" expression ")"
//       | Id ( "[" expression "]" | "(" expressionList ")" | "." Id "(" expressionList ")" )?
func (p *Parser) term() (Expression, *CompileError) {
	tok := p.stream.Peek()

	switch {
	case tok.Type == TokenInteger:
		p.stream.Advance()
		return IntegerLiteral{Value: tok.Value}, nil

	case tok.Type == TokenString:
		p.stream.Advance()
		return StringLiteral{Value: tok.Value}, nil

	case tok.Type == TokenKeyword && keywordConstants[tok.Value]:
		p.stream.Advance()
		return KeywordLiteral{Value: tok.Value}, nil

	case tok.Type == TokenSymbol && unaryOps[tok.Value]:
		p.stream.Advance()
		operand, err := p.term()
		if err != nil {
			return nil, err
		}
		return UnaryExpr{Operator: tok.Value, Operand: operand}, nil

	case tok.Value == "(":
		p.stream.Advance()
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if err := p.consume(")"); err != nil {
			return nil, err
		}
		return inner, nil

	case tok.Type == TokenIdentifier:
		return p.identifierTerm()

	default:
		return nil, newParseError(p.filename, "term", tok.Value)
	}
}

// identifierTerm resolves the Id[...] / Id(...) / Id.Id(...) / Id ambiguity
// by a single token of lookahead past the leading identifier.
func (p *Parser) identifierTerm() (Expression, *CompileError) {
	name, err := p.identifier()
	if err != nil {
		return nil, err
	}

	switch p.stream.Peek().Value {
	case "[":
		p.stream.Advance()
		index, err := p.expression()
		if err != nil {
			return nil, err
		}
		if err := p.consume("]"); err != nil {
			return nil, err
		}
		return ArrayAccess{Name: name, Index: index}, nil

	case "(":
		p.stream.Advance()
		args, err := p.expressionList()
		if err != nil {
			return nil, err
		}
		if err := p.consume(")"); err != nil {
			return nil, err
		}
		return SubroutineCall{Name: name, Args: args}, nil

	case ".":
		p.stream.Advance()
		method, err := p.identifier()
		if err != nil {
			return nil, err
		}
		if err := p.consume("("); err != nil {
			return nil, err
		}
		args, err := p.expressionList()
		if err != nil {
			return nil, err
		}
		if err := p.consume(")"); err != nil {
			return nil, err
		}
		return SubroutineCall{Receiver: name, Name: method, Args: args}, nil

	default:
		return VarName{Name: name}, nil
	}
}

// expressionList := ε | expression ("," expression)*
func (p *Parser) expressionList() ([]Expression, *CompileError) {
	var exprs []Expression

	if p.stream.Peek().Value == ")" {
		return exprs, nil
	}

	for {
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)

		if p.stream.Peek().Value != "," {
			break
		}
		p.stream.Advance()
	}

	return exprs, nil
}

// --- small token-consuming helpers ---

func (p *Parser) consume(literal string) *CompileError {
	return p.stream.Consume(literal)
}

func (p *Parser) identifier() (string, *CompileError) {
	tok, err := p.stream.RetrieveIdentifier()
	if err != nil {
		return "", err
	}
	return tok.Value, nil
}

func (p *Parser) keyword() (string, *CompileError) {
	tok, err := p.stream.RetrieveKeyword()
	if err != nil {
		return "", err
	}
	return tok.Value, nil
}

func (p *Parser) typeName() (string, *CompileError) {
	tok, err := p.stream.RetrieveType()
	if err != nil {
		return "", err
	}
	return tok.Value, nil
}
